package model

import "errors"

var (
	// ErrMemberNotFound indicates that the user holds no membership in the team.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrAlreadyMember indicates a second membership for the same user and team.
	ErrAlreadyMember = errors.New("user is already a team member")
	// ErrNotMember indicates that a team-scoped action requires membership.
	ErrNotMember = errors.New("not a team member")
	// ErrNotLeader indicates that the action is reserved for the team leader.
	ErrNotLeader = errors.New("only leader")
	// ErrNotAuthorOrLeader indicates that only the author or the leader may modify the content.
	ErrNotAuthorOrLeader = errors.New("must be author or leader")
)
