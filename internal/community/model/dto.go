package model

import "time"

// CreateCommunityRequest represents the request to start a recruitment.
type CreateCommunityRequest struct {
	ISBN       string `json:"isbn"        binding:"max=20"`
	Title      string `json:"title"       binding:"required,max=200"`
	Content    string `json:"content"`
	MaxMembers int    `json:"max_members" binding:"required"`
}

// CreateCommunityResponse is returned after a recruitment is started.
type CreateCommunityResponse struct {
	CommunityID int64 `json:"community_id"`
	PostID      int64 `json:"post_id"`
}

// UpdateRecruitmentRequest edits a recruitment. Nil fields are left unchanged.
type UpdateRecruitmentRequest struct {
	Title      *string `json:"title"       binding:"omitempty,max=200"`
	Content    *string `json:"content"`
	MaxMembers *int    `json:"max_members"`
}

// CommunityResponse is the public view of a community.
type CommunityResponse struct {
	CommunityID       int64              `json:"community_id"`
	PostID            int64              `json:"post_id"`
	Status            TeamStatus         `json:"status"`
	Title             string             `json:"title"`
	Content           string             `json:"content"`
	ISBN              string             `json:"isbn"`
	LeaderID          int64              `json:"leader_id"`
	LeaderNickname    string             `json:"leader_nickname"`
	MaxMembers        *int               `json:"max_members,omitempty"`
	MemberCount       int64              `json:"member_count"`
	RecruitmentStatus *RecruitmentStatus `json:"recruitment_status,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ToResponse converts a joined row into its public view.
func (r *CommunityRow) ToResponse() CommunityResponse {
	return CommunityResponse{
		CommunityID:       r.ID,
		PostID:            r.PostID,
		Status:            r.Status,
		Title:             r.Title,
		Content:           r.Content,
		ISBN:              r.ISBN,
		LeaderID:          r.LeaderID,
		LeaderNickname:    r.LeaderNickname,
		MaxMembers:        r.MaxMembers,
		MemberCount:       r.MemberCount,
		RecruitmentStatus: r.RecruitmentStatus,
		CreatedAt:         r.CreatedAt,
	}
}
