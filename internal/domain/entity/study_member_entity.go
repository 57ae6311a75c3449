package entity

import "time"

// Role of a user inside a study
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// StudyMember links a user to a study. (StudyID, UserID) is unique.
type StudyMember struct {
	ID       string
	StudyID  string
	UserID   string
	Role     Role
	JoinedAt time.Time
}

// IsOwner reports whether the membership carries the OWNER role.
func (m *StudyMember) IsOwner() bool {
	return m != nil && m.Role == RoleOwner
}
