package model

// ApplyRequest represents the request to apply to a community.
type ApplyRequest struct {
	ApplicationMessage string `json:"application_message" binding:"max=1000"`
}

// UpdateStatusRequest carries the leader's decision.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DecisionResponse is returned after a decision is persisted.
type DecisionResponse struct {
	Application   *Application `json:"application"`
	CommunityID   int64        `json:"community_id"`
	MemberCount   int64        `json:"member_count"`
	CommunityFull bool         `json:"community_full"`
}
