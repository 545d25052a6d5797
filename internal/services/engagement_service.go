package services

import (
	stderrors "errors"
	"time"

	"github.com/musblossom/backend/internal/models"
	"github.com/musblossom/backend/internal/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// EngagementService composes the edge repositories and the counter updates
// into atomic operations. Every mutating method runs as a single transaction:
// the edge mutation and its counter deltas commit together or roll back
// together, always touching the edge table first and the counters second.
type EngagementService struct {
	db *gorm.DB
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// LikeToggleResult reports the state after a ToggleLike call.
type LikeToggleResult struct {
	Liked      bool `json:"is_liked"`
	LikesCount int  `json:"likes_count"`
}

// FriendsResult is the friend set of a user plus the follow aggregates.
type FriendsResult struct {
	Friends        []models.User `json:"friends"`
	FriendsCount   int           `json:"friends_count"`
	FollowingCount int           `json:"following_count"`
	FollowersCount int           `json:"followers_count"`
}

// FollowRequest is an incoming follow that has not been reciprocated.
type FollowRequest struct {
	User        models.User `json:"user"`
	RequestedAt string      `json:"requested_at"`
}

// Toggle actions returned by ToggleFollow.
const (
	ActionFollowed   = "followed"
	ActionUnfollowed = "unfollowed"
)

// ToggleLike creates the like edge if absent, removes it if present, and
// moves the post's likes_count in the same transaction. A concurrent toggle
// losing the insert race sees RowsAffected == 0 from the unique index and
// leaves the counter alone.
func (s *EngagementService) ToggleLike(userID, postID uint) (*LikeToggleResult, error) {
	var result LikeToggleResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)
		likes := repositories.NewPostgresLikeRepository(tx)

		if _, err := posts.GetPostByID(postID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load post")
		}

		removed, err := likes.DeleteLike(postID, userID)
		if err != nil {
			return errors.Wrap(err, "delete like")
		}
		if removed {
			result.Liked = false
			if err := posts.ApplyLikesDelta(postID, -1); err != nil {
				return errors.Wrap(err, "decrement likes_count")
			}
		} else {
			created, err := likes.CreateLike(&models.PostLike{UserID: userID, PostID: postID})
			if err != nil {
				return errors.Wrap(err, "create like")
			}
			result.Liked = true
			// created == false means a concurrent identical toggle won the
			// insert; its transaction owns the increment.
			if created {
				if err := posts.ApplyLikesDelta(postID, 1); err != nil {
					return errors.Wrap(err, "increment likes_count")
				}
			}
		}

		count, err := posts.GetLikesCount(postID)
		if err != nil {
			return errors.Wrap(err, "read likes_count")
		}
		result.LikesCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleFollow creates or removes the follow edge from followerID to
// followedID and keeps both users' cached follow counts in step. Self-follow
// is rejected before anything is written.
func (s *EngagementService) ToggleFollow(followerID, followedID uint) (string, error) {
	if followerID == followedID {
		return "", ErrSelfFollow
	}

	var action string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		follows := repositories.NewPostgresFollowRepository(tx)

		exists, err := users.UserExists(followedID)
		if err != nil {
			return errors.Wrap(err, "check followed user")
		}
		if !exists {
			return ErrNotFound
		}

		removed, err := follows.DeleteFollow(followerID, followedID)
		if err != nil {
			return errors.Wrap(err, "delete follow")
		}
		if removed {
			action = ActionUnfollowed
			if err := users.ApplyFollowingDelta(followerID, -1); err != nil {
				return errors.Wrap(err, "decrement following_count")
			}
			if err := users.ApplyFollowersDelta(followedID, -1); err != nil {
				return errors.Wrap(err, "decrement followers_count")
			}
			return nil
		}

		created, err := follows.CreateFollow(&models.Follow{FollowerID: followerID, FollowedID: followedID})
		if err != nil {
			return errors.Wrap(err, "create follow")
		}
		action = ActionFollowed
		if created {
			if err := users.ApplyFollowingDelta(followerID, 1); err != nil {
				return errors.Wrap(err, "increment following_count")
			}
			if err := users.ApplyFollowersDelta(followedID, 1); err != nil {
				return errors.Wrap(err, "increment followers_count")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// FriendsOf returns the users who follow userID and are followed back. The
// two id lists come from indexed queries over the follow table; the mutual
// set is a hash intersection, never a pairwise scan.
func (s *EngagementService) FriendsOf(userID uint) (*FriendsResult, error) {
	follows := repositories.NewPostgresFollowRepository(s.db)
	users := repositories.NewPostgresUserRepository(s.db)

	followingIDs, err := follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, errors.Wrap(err, "list following")
	}
	followerIDs, err := follows.GetFollowerIDs(userID)
	if err != nil {
		return nil, errors.Wrap(err, "list followers")
	}

	following := make(map[uint]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = struct{}{}
	}
	var friendIDs []uint
	seen := make(map[uint]struct{}, len(followerIDs))
	for _, id := range followerIDs {
		if _, ok := following[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		friendIDs = append(friendIDs, id)
	}

	friends, err := users.GetUsersByIDs(friendIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load friends")
	}
	return &FriendsResult{
		Friends:        friends,
		FriendsCount:   len(friends),
		FollowingCount: len(followingIDs),
		FollowersCount: len(followerIDs),
	}, nil
}

// PendingFollowRequests returns the users who follow userID but are not
// followed back, oldest first.
func (s *EngagementService) PendingFollowRequests(userID uint) ([]FollowRequest, error) {
	follows := repositories.NewPostgresFollowRepository(s.db)
	users := repositories.NewPostgresUserRepository(s.db)

	followingIDs, err := follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, errors.Wrap(err, "list following")
	}
	following := make(map[uint]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = struct{}{}
	}

	incoming, err := follows.GetFollowersWithTime(userID)
	if err != nil {
		return nil, errors.Wrap(err, "list followers")
	}

	var requests []FollowRequest
	for _, edge := range incoming {
		if _, mutual := following[edge.FollowerID]; mutual {
			continue
		}
		requester, err := users.GetUserByID(edge.FollowerID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load requester")
		}
		requests = append(requests, FollowRequest{
			User:        *requester,
			RequestedAt: edge.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return requests, nil
}

// AddComment stores a comment and bumps the post's comments_count in the same
// transaction. Replies must reference a parent on the same post.
func (s *EngagementService) AddComment(userID, postID uint, parentID *uint, content string) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:          postID,
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         content,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)
		comments := repositories.NewPostgresCommentRepository(tx)

		if _, err := posts.GetPostByID(postID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load post")
		}
		if parentID != nil {
			parent, err := comments.GetCommentByID(*parentID)
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return errors.Wrap(err, "load parent comment")
			}
			if parent.PostID != postID {
				return ErrInvalidParent
			}
		}

		if err := comments.CreateComment(comment); err != nil {
			return errors.Wrap(err, "create comment")
		}
		if err := posts.ApplyCommentsDelta(postID, 1); err != nil {
			return errors.Wrap(err, "increment comments_count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment owned by userID and decrements the post's
// comments_count together with it. Replies to the deleted comment are kept
// and detached from their parent.
func (s *EngagementService) DeleteComment(userID, commentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)
		comments := repositories.NewPostgresCommentRepository(tx)

		comment, err := comments.GetCommentByID(commentID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load comment")
		}
		if comment.UserID != userID {
			return ErrNotOwner
		}

		if err := tx.Model(&models.Comment{}).
			Where("parent_comment_id = ?", commentID).
			Update("parent_comment_id", nil).Error; err != nil {
			return errors.Wrap(err, "detach replies")
		}
		removed, err := comments.DeleteComment(commentID)
		if err != nil {
			return errors.Wrap(err, "delete comment")
		}
		if removed {
			if err := posts.ApplyCommentsDelta(comment.PostID, -1); err != nil {
				return errors.Wrap(err, "decrement comments_count")
			}
		}
		return nil
	})
}

// DeleteUserCascade removes a user and every edge referencing them, reversing
// each cached counter the edges had contributed to. One transaction: either
// the whole cleanup commits or none of it is observable.
func (s *EngagementService) DeleteUserCascade(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		posts := repositories.NewPostgresPostRepository(tx)
		follows := repositories.NewPostgresFollowRepository(tx)
		likes := repositories.NewPostgresLikeRepository(tx)
		comments := repositories.NewPostgresCommentRepository(tx)

		if _, err := users.GetUserByID(userID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load user")
		}

		// Likes the user gave: reverse each post's counter, then drop the edges.
		given, err := likes.GetLikesByUserID(userID)
		if err != nil {
			return errors.Wrap(err, "list likes")
		}
		if err := likes.DeleteLikesByUserID(userID); err != nil {
			return errors.Wrap(err, "delete likes")
		}
		for _, like := range given {
			if err := posts.ApplyLikesDelta(like.PostID, -1); err != nil {
				return errors.Wrap(err, "reverse likes_count")
			}
		}

		// Comments the user wrote, grouped per post for the counter reversal.
		written, err := comments.GetCommentsByUserID(userID)
		if err != nil {
			return errors.Wrap(err, "list comments")
		}
		if err := comments.OrphanRepliesOfUser(userID); err != nil {
			return errors.Wrap(err, "detach replies")
		}
		if err := comments.DeleteCommentsByUserID(userID); err != nil {
			return errors.Wrap(err, "delete comments")
		}
		perPost := make(map[uint]int, len(written))
		for _, c := range written {
			perPost[c.PostID]++
		}
		for postID, n := range perPost {
			if err := posts.ApplyCommentsDelta(postID, -n); err != nil {
				return errors.Wrap(err, "reverse comments_count")
			}
		}

		// Follow edges in both directions: each one backs a cached counter on
		// the surviving endpoint.
		outgoing, err := follows.GetEdgesByFollower(userID)
		if err != nil {
			return errors.Wrap(err, "list outgoing follows")
		}
		incoming, err := follows.GetEdgesByFollowed(userID)
		if err != nil {
			return errors.Wrap(err, "list incoming follows")
		}
		if err := follows.DeleteAllForUser(userID); err != nil {
			return errors.Wrap(err, "delete follows")
		}
		for _, edge := range outgoing {
			if err := users.ApplyFollowersDelta(edge.FollowedID, -1); err != nil {
				return errors.Wrap(err, "reverse followers_count")
			}
		}
		for _, edge := range incoming {
			if err := users.ApplyFollowingDelta(edge.FollowerID, -1); err != nil {
				return errors.Wrap(err, "reverse following_count")
			}
		}

		// The user's own posts, and the engagement rows on them. Counters on
		// these posts vanish with the rows.
		postIDs, err := posts.GetPostIDsByUserID(userID)
		if err != nil {
			return errors.Wrap(err, "list posts")
		}
		if err := likes.DeleteLikesByPostIDs(postIDs); err != nil {
			return errors.Wrap(err, "delete likes on posts")
		}
		if err := comments.DeleteCommentsByPostIDs(postIDs); err != nil {
			return errors.Wrap(err, "delete comments on posts")
		}
		if err := posts.DeletePostsByUserID(userID); err != nil {
			return errors.Wrap(err, "delete posts")
		}

		if err := users.DeleteUser(userID); err != nil {
			return errors.Wrap(err, "delete user")
		}
		return nil
	})
}
