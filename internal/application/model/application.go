// Package model provides domain models for team join-applications.
package model

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an application.
type Status string

const (
	// StatusPending awaits the leader's decision.
	StatusPending Status = "PENDING"
	// StatusAccepted is terminal; the applicant was seated as a member.
	StatusAccepted Status = "ACCEPTED"
	// StatusRejected is terminal.
	StatusRejected Status = "REJECTED"
)

// Decision is the leader's verdict on a pending application.
type Decision string

const (
	// DecisionAccept seats the applicant.
	DecisionAccept Decision = "ACCEPTED"
	// DecisionReject declines the applicant.
	DecisionReject Decision = "REJECTED"
)

// ParseDecision accepts "accepted" or "rejected" in any letter case.
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToUpper(strings.TrimSpace(s))) {
	case DecisionAccept:
		return DecisionAccept, nil
	case DecisionReject:
		return DecisionReject, nil
	default:
		return "", ErrInvalidDecision
	}
}

// Status returns the application status the decision leads to.
func (d Decision) Status() Status {
	if d == DecisionAccept {
		return StatusAccepted
	}
	return StatusRejected
}

// Application represents a join-application row, unique per user and post.
// Matches the team_applications table schema.
type Application struct {
	ID          int64      `gorm:"primaryKey;column:id"                    json:"application_id"`
	UserID      int64      `gorm:"column:user_id;not null"                 json:"user_id"`
	PostID      int64      `gorm:"column:post_id;not null"                 json:"post_id"`
	Status      Status     `gorm:"column:status;type:varchar(10);not null" json:"status"`
	Message     string     `gorm:"column:message;not null"                 json:"message"`
	AppliedAt   time.Time  `gorm:"column:applied_at;not null"              json:"applied_at"`
	ProcessedAt *time.Time `gorm:"column:processed_at"                     json:"processed_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (Application) TableName() string {
	return "team_applications"
}

// IsPending reports whether the application still awaits a decision.
func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

// ApplicantView is an application joined with the applicant's nickname.
type ApplicantView struct {
	ApplicationID int64      `json:"application_id"`
	UserID        int64      `json:"user_id"`
	Nickname      string     `json:"nickname"`
	Status        Status     `json:"status"`
	Message       string     `json:"message"`
	AppliedAt     time.Time  `json:"applied_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// MyApplicationView is one of the caller's applications with its community.
type MyApplicationView struct {
	ApplicationID  int64      `json:"application_id"`
	CommunityID    int64      `json:"community_id"`
	CommunityTitle string     `json:"community_title"`
	Status         Status     `json:"status"`
	Message        string     `json:"message"`
	AppliedAt      time.Time  `json:"applied_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}
