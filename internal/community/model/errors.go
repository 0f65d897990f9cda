package model

import "errors"

var (
	// ErrCommunityNotFound indicates that the team does not exist.
	ErrCommunityNotFound = errors.New("community not found")
	// ErrPostNotFound indicates that the paired post is missing or is not a recruitment post.
	ErrPostNotFound = errors.New("recruitment post not found")
	// ErrNotRecruiting indicates that the team no longer accepts applications or edits.
	ErrNotRecruiting = errors.New("not recruiting")
	// ErrInvalidCapacity indicates a capacity below one.
	ErrInvalidCapacity = errors.New("max_members must be at least 1")
	// ErrInvalidTitle indicates an empty or oversized title.
	ErrInvalidTitle = errors.New("title must be between 1 and 200 characters")
	// ErrCapacityTooLow indicates a new capacity below the current member count.
	ErrCapacityTooLow = errors.New("max_members is below the current member count")
	// ErrNotEnoughMembers indicates an attempt to end recruitment with fewer than two members.
	ErrNotEnoughMembers = errors.New("at least 2 members are required to end recruitment")
	// ErrTeardownIncomplete indicates that the team row survived a cancellation.
	ErrTeardownIncomplete = errors.New("cancellation failed to remove community record")
)
