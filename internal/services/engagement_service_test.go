package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/musblossom/backend/internal/models"
	"github.com/musblossom/backend/internal/repositories"
	"github.com/musblossom/backend/internal/services"
	"github.com/musblossom/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@musblossom.test"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, authorID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: authorID, Title: "track of the day", Content: "listen to this", PostType: "track"}
	require.NoError(t, db.Create(post).Error)
	return post
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

func reloadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, id).Error)
	return &post
}

func TestToggleFollowSequence(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	action, err := svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, services.ActionFollowed, action)

	following, err := repositories.NewPostgresFollowRepository(db).GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	require.Contains(t, following, bob.ID)
	require.Equal(t, 1, reloadUser(t, db, alice.ID).FollowingCount)
	require.Equal(t, 1, reloadUser(t, db, bob.ID).FollowersCount)

	action, err = svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, services.ActionUnfollowed, action)

	following, err = repositories.NewPostgresFollowRepository(db).GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	require.NotContains(t, following, bob.ID)
	require.Equal(t, 0, reloadUser(t, db, alice.ID).FollowingCount)
	require.Equal(t, 0, reloadUser(t, db, bob.ID).FollowersCount)
}

func TestToggleFollowSelfRejected(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.ToggleFollow(alice.ID, alice.ID)
	require.ErrorIs(t, err, services.ErrSelfFollow)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.Equal(t, 0, reloadUser(t, db, alice.ID).FollowersCount)
	require.Equal(t, 0, reloadUser(t, db, alice.ID).FollowingCount)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.ToggleFollow(alice.ID, alice.ID+100)
	require.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestToggleLikeScenario(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	author := createUser(t, db, "author")
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	post := createPost(t, db, author.ID)

	res, err := svc.ToggleLike(u1.ID, post.ID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.Equal(t, 1, res.LikesCount)

	res, err = svc.ToggleLike(u2.ID, post.ID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.Equal(t, 2, res.LikesCount)

	res, err = svc.ToggleLike(u1.ID, post.ID)
	require.NoError(t, err)
	require.False(t, res.Liked)
	require.Equal(t, 1, res.LikesCount)

	// The cached aggregate matches the stored edge count.
	edges, err := repositories.NewPostgresLikeRepository(db).GetLikesCountByPostID(post.ID)
	require.NoError(t, err)
	require.EqualValues(t, edges, reloadPost(t, db, post.ID).LikesCount)
}

func TestToggleLikeMissingPost(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	u1 := createUser(t, db, "u1")

	_, err := svc.ToggleLike(u1.ID, 999)
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestConcurrentToggleLikeStaysConsistent(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	author := createUser(t, db, "author")
	u1 := createUser(t, db, "u1")
	post := createPost(t, db, author.ID)

	const toggles = 25
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(u1.ID, post.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	edges, err := repositories.NewPostgresLikeRepository(db).GetLikesCountByPostID(post.ID)
	require.NoError(t, err)
	counter := reloadPost(t, db, post.ID).LikesCount

	// Exactly one of {liked, not liked} survives, the counter equals the
	// stored edge count, and an odd number of toggles ends liked.
	require.EqualValues(t, edges, counter)
	require.GreaterOrEqual(t, counter, 0)
	require.LessOrEqual(t, counter, 1)
	require.Equal(t, 1, counter)
}

func TestConcurrentDistinctLikers(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	author := createUser(t, db, "author")
	post := createPost(t, db, author.ID)

	const likers = 10
	ids := make([]uint, 0, likers)
	for i := 0; i < likers; i++ {
		ids = append(ids, createUser(t, db, fmt.Sprintf("fan%d", i)).ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for _, id := range ids {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.ToggleLike(userID, post.ID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, likers, reloadPost(t, db, post.ID).LikesCount)
}

func TestFriendsAndPendingRequests(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	action, err := svc.ToggleFollow(a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, services.ActionFollowed, action)

	// A follows B but B does not follow back: A shows up as a pending request.
	requests, err := svc.PendingFollowRequests(b.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, a.ID, requests[0].User.ID)
	require.NotEmpty(t, requests[0].RequestedAt)

	friendsOfA, err := svc.FriendsOf(a.ID)
	require.NoError(t, err)
	require.Empty(t, friendsOfA.Friends)

	action, err = svc.ToggleFollow(b.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, services.ActionFollowed, action)

	// Mutual follow: friendship is symmetric and the request disappears.
	friendsOfA, err = svc.FriendsOf(a.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfA.Friends, 1)
	require.Equal(t, b.ID, friendsOfA.Friends[0].ID)
	require.Equal(t, 1, friendsOfA.FollowingCount)
	require.Equal(t, 1, friendsOfA.FollowersCount)

	friendsOfB, err := svc.FriendsOf(b.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfB.Friends, 1)
	require.Equal(t, a.ID, friendsOfB.Friends[0].ID)

	requests, err = svc.PendingFollowRequests(b.ID)
	require.NoError(t, err)
	require.Empty(t, requests)
}

func TestAddAndDeleteComment(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author.ID)

	comment, err := svc.AddComment(commenter.ID, post.ID, nil, "great track")
	require.NoError(t, err)
	require.Equal(t, 1, reloadPost(t, db, post.ID).CommentsCount)

	reply, err := svc.AddComment(author.ID, post.ID, &comment.ID, "thanks!")
	require.NoError(t, err)
	require.Equal(t, comment.ID, *reply.ParentCommentID)
	require.Equal(t, 2, reloadPost(t, db, post.ID).CommentsCount)

	// Replying to a comment from another post is rejected.
	other := createPost(t, db, author.ID)
	_, err = svc.AddComment(commenter.ID, other.ID, &comment.ID, "wrong thread")
	require.ErrorIs(t, err, services.ErrInvalidParent)

	// Only the author can delete, and the reply is detached, not dropped.
	require.ErrorIs(t, svc.DeleteComment(author.ID, comment.ID), services.ErrNotOwner)
	require.NoError(t, svc.DeleteComment(commenter.ID, comment.ID))
	require.Equal(t, 1, reloadPost(t, db, post.ID).CommentsCount)

	var detached models.Comment
	require.NoError(t, db.First(&detached, reply.ID).Error)
	require.Nil(t, detached.ParentCommentID)
}

func TestDeleteUserCascade(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	doomed := createUser(t, db, "doomed")
	friend := createUser(t, db, "friend")
	post := createPost(t, db, friend.ID)
	ownPost := createPost(t, db, doomed.ID)

	_, err := svc.ToggleFollow(doomed.ID, friend.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(friend.ID, doomed.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(doomed.ID, post.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(friend.ID, ownPost.ID)
	require.NoError(t, err)
	_, err = svc.AddComment(doomed.ID, post.ID, nil, "so long")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUserCascade(doomed.ID))

	// No edge referencing the user survives.
	var follows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? OR followed_id = ?", doomed.ID, doomed.ID).Count(&follows).Error)
	require.EqualValues(t, 0, follows)

	var likes int64
	require.NoError(t, db.Model(&models.PostLike{}).Where("user_id = ?", doomed.ID).Count(&likes).Error)
	require.EqualValues(t, 0, likes)

	// Counters the user's edges had contributed to are reversed.
	require.Equal(t, 0, reloadPost(t, db, post.ID).LikesCount)
	require.Equal(t, 0, reloadPost(t, db, post.ID).CommentsCount)
	require.Equal(t, 0, reloadUser(t, db, friend.ID).FollowersCount)
	require.Equal(t, 0, reloadUser(t, db, friend.ID).FollowingCount)

	// The user's own posts are gone along with the likes on them.
	require.ErrorIs(t, db.First(&models.Post{}, ownPost.ID).Error, gorm.ErrRecordNotFound)
	var orphanLikes int64
	require.NoError(t, db.Model(&models.PostLike{}).Where("post_id = ?", ownPost.ID).Count(&orphanLikes).Error)
	require.EqualValues(t, 0, orphanLikes)

	require.ErrorIs(t, db.First(&models.User{}, doomed.ID).Error, gorm.ErrRecordNotFound)

	// Deleting an already-deleted user reports NotFound.
	require.ErrorIs(t, svc.DeleteUserCascade(doomed.ID), services.ErrNotFound)
}

func TestFriendsIntersectionIsSetBased(t *testing.T) {
	db := testutil.CreateTestDB(t)
	svc := services.NewEngagementService(db)
	hub := createUser(t, db, "hub")

	// 30 followers, 20 followed back: friends must be exactly the overlap.
	var mutuals []uint
	for i := 0; i < 30; i++ {
		other := createUser(t, db, fmt.Sprintf("peer%d", i))
		_, err := svc.ToggleFollow(other.ID, hub.ID)
		require.NoError(t, err)
		if i < 20 {
			_, err = svc.ToggleFollow(hub.ID, other.ID)
			require.NoError(t, err)
			mutuals = append(mutuals, other.ID)
		}
	}

	result, err := svc.FriendsOf(hub.ID)
	require.NoError(t, err)
	require.Equal(t, 20, result.FriendsCount)
	require.Equal(t, 20, result.FollowingCount)
	require.Equal(t, 30, result.FollowersCount)

	got := make([]uint, 0, len(result.Friends))
	for _, f := range result.Friends {
		got = append(got, f.ID)
	}
	require.ElementsMatch(t, mutuals, got)

	requests, err := svc.PendingFollowRequests(hub.ID)
	require.NoError(t, err)
	require.Len(t, requests, 10)
}
