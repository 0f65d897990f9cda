package model

import "errors"

var (
	// ErrPostNotFound indicates that the team post does not exist in the team.
	ErrPostNotFound = errors.New("team post not found")
	// ErrCommentNotFound indicates that the comment does not exist on the post.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrEmptyUpdate indicates an update request without any field.
	ErrEmptyUpdate = errors.New("nothing to update")
	// ErrEmptyTitle indicates a blank post title.
	ErrEmptyTitle = errors.New("title must not be blank")
	// ErrEmptyComment indicates a blank comment.
	ErrEmptyComment = errors.New("comment must not be blank")
)
