// Package model provides data transfer objects for statistics module.
package model

// CommunityFill is one community's seat usage.
type CommunityFill struct {
	CommunityID int64   `json:"community_id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	MemberCount int64   `json:"member_count"`
	MaxMembers  int64   `json:"max_members"`
	Fill        float64 `json:"fill"`
}

// CommunitiesStatisticsResponse represents response for per-community statistics.
type CommunitiesStatisticsResponse struct {
	Communities []CommunityFill `json:"communities"`
	Total       int             `json:"total"`
}

// StatusCounts holds row counts of the recruitment tables grouped by status.
type StatusCounts struct {
	TotalCommunities      int64 `json:"total_communities"`
	RecruitingCommunities int64 `json:"recruiting_communities"`
	ActiveCommunities     int64 `json:"active_communities"`
	TotalApplications     int64 `json:"total_applications"`
	PendingApplications   int64 `json:"pending_applications"`
	AcceptedApplications  int64 `json:"accepted_applications"`
	RejectedApplications  int64 `json:"rejected_applications"`
}

// RecruitmentStatistics summarizes the recruitment workflow.
type RecruitmentStatistics struct {
	StatusCounts
	TotalMembers int64   `json:"total_members"`
	AverageFill  float64 `json:"average_fill"`
	FullCount    int     `json:"full_communities"`
}

// RecruitmentStatisticsResponse represents response for recruitment statistics.
type RecruitmentStatisticsResponse struct {
	Statistics RecruitmentStatistics `json:"statistics"`
}
