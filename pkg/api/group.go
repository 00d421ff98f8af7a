package api

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group   Group    `json:"group"`
	Members []Member `json:"members"`
}

type ListGroupsRequest struct{}

// GroupSummary is a group with the caller's net balance in it.
type GroupSummary struct {
	Group       Group `json:"group"`
	MemberCount int   `json:"memberCount"`
	NetBalance  int64 `json:"netBalance"`
}

type ListGroupsResponse struct {
	Groups []GroupSummary `json:"groups"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,max=64"`
}

type JoinGroupResponse struct {
	Group Group `json:"group"`
	// Joined is false when the caller was already a member.
	Joined bool `json:"joined"`
}
