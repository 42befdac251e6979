package models

import "time"

// Roles stored in the user directory. Authorization decisions always use the
// role from the stored record, never a role claim carried by a token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}

// User is the directory record for an authenticated subject.
// SubjectID is the identity provider's stable subject key; exactly one record
// exists per distinct subject.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	SubjectID string    `bson:"subjectId" json:"subjectId"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
