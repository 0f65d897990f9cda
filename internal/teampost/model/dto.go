package model

// CreatePostRequest represents the request to create a team post.
type CreatePostRequest struct {
	Title   string `json:"title"   binding:"required,max=200"`
	Content string `json:"content" binding:"max=10000"`
}

// UpdatePostRequest edits a team post. Nil fields are left unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title"   binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,max=10000"`
}

// CommentRequest represents the request to create or edit a comment.
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
