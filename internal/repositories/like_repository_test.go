package repositories_test

import (
	"testing"

	"github.com/musblossom/backend/internal/models"
	"github.com/musblossom/backend/internal/repositories"
	"github.com/musblossom/backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateLikeAbsorbsDuplicates(t *testing.T) {
	db := testutil.CreateTestDB(t)
	repo := repositories.NewPostgresLikeRepository(db)

	created, err := repo.CreateLike(&models.PostLike{UserID: 1, PostID: 10})
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.CreateLike(&models.PostLike{UserID: 1, PostID: 10})
	require.NoError(t, err)
	require.False(t, created)

	count, err := repo.GetLikesCountByPostID(10)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	liked, err := repo.HasUserLikedPost(10, 1)
	require.NoError(t, err)
	require.True(t, liked)
}

func TestDeleteLikeReportsMissingEdge(t *testing.T) {
	db := testutil.CreateTestDB(t)
	repo := repositories.NewPostgresLikeRepository(db)

	removed, err := repo.DeleteLike(10, 1)
	require.NoError(t, err)
	require.False(t, removed)

	_, err = repo.CreateLike(&models.PostLike{UserID: 1, PostID: 10})
	require.NoError(t, err)

	removed, err = repo.DeleteLike(10, 1)
	require.NoError(t, err)
	require.True(t, removed)

	count, err := repo.GetLikesCountByPostID(10)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestBulkLikeDeletion(t *testing.T) {
	db := testutil.CreateTestDB(t)
	repo := repositories.NewPostgresLikeRepository(db)

	for _, like := range []models.PostLike{
		{UserID: 1, PostID: 10},
		{UserID: 1, PostID: 11},
		{UserID: 2, PostID: 10},
	} {
		l := like
		_, err := repo.CreateLike(&l)
		require.NoError(t, err)
	}

	mine, err := repo.GetLikesByUserID(1)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	require.NoError(t, repo.DeleteLikesByUserID(1))
	count, err := repo.GetLikesCountByPostID(10)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteLikesByPostIDs([]uint{10, 11}))
	count, err = repo.GetLikesCountByPostID(10)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}
