// Package model provides domain models for recruitment posts and their
// paired teams (communities).
package model

import "time"

// PostType distinguishes plain discussion posts from recruitment posts.
type PostType string

const (
	// PostTypeGeneral is a plain discussion post.
	PostTypeGeneral PostType = "GENERAL"
	// PostTypeRecruitment solicits members for a team.
	PostTypeRecruitment PostType = "RECRUITMENT"
)

// RecruitmentStatus reports whether a recruitment post accepts applications.
type RecruitmentStatus string

const (
	// RecruitmentOpen accepts new applications.
	RecruitmentOpen RecruitmentStatus = "RECRUITING"
	// RecruitmentClosed no longer accepts applications.
	RecruitmentClosed RecruitmentStatus = "CLOSED"
)

// TeamStatus is the lifecycle state of a team.
type TeamStatus string

const (
	// TeamRecruiting is set while the paired post accepts applications.
	TeamRecruiting TeamStatus = "RECRUITING"
	// TeamActive is set once capacity is reached or recruitment is ended.
	TeamActive TeamStatus = "ACTIVE"
	// TeamClosed is reserved; cancellation deletes the row instead.
	TeamClosed TeamStatus = "CLOSED"
)

// ParseTeamStatus validates a status filter value.
func ParseTeamStatus(s string) (TeamStatus, bool) {
	switch TeamStatus(s) {
	case TeamRecruiting, TeamActive, TeamClosed:
		return TeamStatus(s), true
	default:
		return "", false
	}
}

// Post represents a post row. Recruitment posts carry a capacity and a
// recruitment status.
// Matches the posts table schema.
type Post struct {
	ID                int64              `gorm:"primaryKey;column:id"                       json:"id"`
	UserID            int64              `gorm:"column:user_id;not null"                    json:"user_id"`
	Type              PostType           `gorm:"column:type;type:varchar(20);not null"      json:"type"`
	Title             string             `gorm:"column:title;not null"                      json:"title"`
	Content           string             `gorm:"column:content;not null"                    json:"content"`
	ISBN              string             `gorm:"column:isbn;not null"                       json:"isbn"`
	MaxMembers        *int               `gorm:"column:max_members"                         json:"max_members,omitempty"`
	RecruitmentStatus *RecruitmentStatus `gorm:"column:recruitment_status;type:varchar(20)" json:"recruitment_status,omitempty"`
	CreatedAt         time.Time          `gorm:"column:created_at;not null"                 json:"created_at"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;not null"                 json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// IsRecruitment reports whether the post is a recruitment post.
func (p *Post) IsRecruitment() bool {
	return p.Type == PostTypeRecruitment
}

// HasCapacity reports whether the post declares a member limit.
func (p *Post) HasCapacity() bool {
	return p.MaxMembers != nil
}

// IsFull reports whether memberCount has reached the declared capacity.
func (p *Post) IsFull(memberCount int64) bool {
	return p.HasCapacity() && memberCount >= int64(*p.MaxMembers)
}

// Team represents a community paired 1:1 with a recruitment post.
// Title, content and leader nickname are snapshots taken at creation.
// Matches the teams table schema.
type Team struct {
	ID             int64      `gorm:"primaryKey;column:id"                    json:"id"`
	PostID         int64      `gorm:"column:post_id;not null"                 json:"post_id"`
	Status         TeamStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Title          string     `gorm:"column:title;not null"                   json:"title"`
	Content        string     `gorm:"column:content;not null"                 json:"content"`
	ISBN           string     `gorm:"column:isbn;not null"                    json:"isbn"`
	LeaderNickname string     `gorm:"column:leader_nickname;not null"         json:"leader_nickname"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"              json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"              json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// IsRecruiting reports whether the team accepts applications.
func (t *Team) IsRecruiting() bool {
	return t.Status == TeamRecruiting
}

// CommunityRow is a team joined with its post and member count.
type CommunityRow struct {
	Team
	LeaderID          int64
	MaxMembers        *int
	RecruitmentStatus *RecruitmentStatus
	MemberCount       int64
}
