// Package model provides domain models for team membership.
package model

import "time"

// Role is a member's role inside a team.
type Role string

const (
	// RoleLeader administers the team; exactly one per team.
	RoleLeader Role = "LEADER"
	// RoleMember is an admitted applicant.
	RoleMember Role = "MEMBER"
)

// TeamMember represents a membership row.
// Matches the team_members table schema.
type TeamMember struct {
	ID       int64     `gorm:"primaryKey;column:id"         json:"id"`
	TeamID   int64     `gorm:"column:team_id;not null"      json:"team_id"`
	UserID   int64     `gorm:"column:user_id;not null"      json:"user_id"`
	Role     Role      `gorm:"column:role;type:varchar(10)" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;not null"    json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}

// IsLeader reports whether the member leads the team.
func (m *TeamMember) IsLeader() bool {
	return m.Role == RoleLeader
}

// MemberView is a membership joined with the member's nickname.
type MemberView struct {
	UserID   int64     `json:"user_id"`
	Nickname string    `json:"nickname"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
