package models

import "time"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRolePartner UserRole = "partner"
)

// User is an identity record. The username is case-sensitive and immutable
// after creation; the role never changes after provisioning.
type User struct {
	ID                 string
	Username           string
	PasswordHash       []byte
	Role               UserRole
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
