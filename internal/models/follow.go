package models

import "time"

// Follow is a directed edge: the follower observes the followed user's
// activity. The composite unique index is what resolves concurrent
// double-follow requests; the secondary index on followed_id serves the
// followers view of the same table.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followed_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	CreatedAt  time.Time `json:"created_at"`
}
