package models

import "time"

type UserRole string

const (
	RoleCandidate UserRole = "candidate"
	RoleRecruiter UserRole = "recruiter"
	RoleAdmin     UserRole = "admin"
)

// from the identity provider; ids arrive in the JWT "sub" claim
type User struct {
	ID        string    `json:"id"` // uuid
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Role      UserRole  `json:"role"`
}
