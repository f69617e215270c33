package model

import "time"

// Role is the small integer role enum stored in users.role. The
// dashboard client gates navigation on this value, so it travels
// inside the session token as a numeric claim.
type Role uint8

const (
	RoleAdmin          Role = 1
	RoleProjectManager Role = 2
	RoleEmployee       Role = 3
)

// String returns a human readable role name for logging.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleProjectManager:
		return "PROJECT_MANAGER"
	case RoleEmployee:
		return "EMPLOYEE"
	default:
		return "UNKNOWN"
	}
}

// User mirrors a row of the `users` table. Accounts are created
// out-of-band (there is no signup flow); this service only reads them.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower case.
//  PasswordHash – bcrypt hashed password.
//  Role         – small integer role (see Role constants).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
