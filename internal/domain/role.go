package domain

import "strings"

type Role string

const (
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
	// RoleAdmin is reserved: it can't be chosen at signup and admin accounts
	// are hidden from user listings.
	RoleAdmin Role = "admin"
)

// ParseSignupRole maps user input to one of the public roles. An empty value
// defaults to candidate.
func ParseSignupRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleCandidate:
		return RoleCandidate, true
	case RoleEmployer:
		return RoleEmployer, true
	default:
		return "", false
	}
}
