package model

import "errors"

var (
	// ErrApplicationNotFound indicates that the application does not exist.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrAlreadyApplied indicates a second application for the same post.
	ErrAlreadyApplied = errors.New("already applied")
	// ErrCommunityFull indicates that no seat is left.
	ErrCommunityFull = errors.New("community is full")
	// ErrAlreadyProcessed indicates a decision on a non-pending application.
	ErrAlreadyProcessed = errors.New("application already processed")
	// ErrNotOwner indicates an attempt to cancel someone else's application.
	ErrNotOwner = errors.New("only own application may be cancelled")
	// ErrNotPending indicates an attempt to cancel a decided application.
	ErrNotPending = errors.New("only pending application may be cancelled")
	// ErrInvalidDecision indicates a status other than accepted or rejected.
	ErrInvalidDecision = errors.New("status must be accepted or rejected")
	// ErrMessageTooLong indicates an oversized application message.
	ErrMessageTooLong = errors.New("application message is too long")
)
