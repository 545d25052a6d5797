package services

import "errors"

// Error kinds returned by the engagement service. Handlers map these to
// transport responses; anything else is a storage failure that already rolled
// the transaction back and is safe for the caller to retry.
var (
	// ErrNotFound means a referenced user or post does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSelfFollow means a user tried to follow themselves. Rejected before
	// any write.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrNotOwner means the caller does not own the record they tried to
	// modify.
	ErrNotOwner = errors.New("not the owner of this record")

	// ErrInvalidParent means a reply referenced a parent comment on a
	// different post.
	ErrInvalidParent = errors.New("parent comment belongs to a different post")
)
