package models

// Member roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Group is a set of users sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// InviteCode is the unique code other users join with.
	InviteCode string

	// CreatedBy is the user ID of the group creator (its first admin).
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member links a user to a group. Members are never removed.
type Member struct {
	GroupID string
	UserID  string

	// DisplayName is denormalized from the user row for read paths.
	DisplayName string
	Username    string

	Role     string
	JoinedAt int64
}
