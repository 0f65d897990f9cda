// Package model provides domain models for team-scoped posts and comments.
package model

import "time"

// TeamPost is a post visible only to members of its team.
// Matches the team_posts table schema.
type TeamPost struct {
	ID        int64     `gorm:"primaryKey;column:id"    json:"id"`
	TeamID    int64     `gorm:"column:team_id;not null" json:"team_id"`
	UserID    int64     `gorm:"column:user_id;not null" json:"user_id"`
	Title     string    `gorm:"column:title;not null"   json:"title"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at"       json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"       json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TeamPost) TableName() string {
	return "team_posts"
}

// TeamComment is a comment on a team post.
// Matches the team_comments table schema.
type TeamComment struct {
	ID         int64     `gorm:"primaryKey;column:id"         json:"id"`
	TeamPostID int64     `gorm:"column:team_post_id;not null" json:"team_post_id"`
	UserID     int64     `gorm:"column:user_id;not null"      json:"user_id"`
	Content    string    `gorm:"column:content;not null"      json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at"            json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"            json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TeamComment) TableName() string {
	return "team_comments"
}

// PostView is a team post joined with its author's nickname and comment count.
type PostView struct {
	ID             int64     `json:"id"`
	TeamID         int64     `json:"team_id"`
	UserID         int64     `json:"user_id"`
	AuthorNickname string    `json:"author_nickname"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CommentCount   int64     `json:"comment_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CommentView is a comment joined with its author's nickname.
type CommentView struct {
	ID             int64     `json:"id"`
	TeamPostID     int64     `json:"team_post_id"`
	UserID         int64     `json:"user_id"`
	AuthorNickname string    `json:"author_nickname"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
