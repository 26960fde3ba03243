package model

import "slices"

// Role is a user's moderation role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered identity.
// Followers and Following behave as sets: sorted, no duplicates.
type User struct {
	Username     string   `json:"username"` // immutable, case-sensitive
	PasswordHash string   `json:"-"`        // bcrypt hash
	DisplayName  string   `json:"displayName"`
	Role         Role     `json:"role"`
	Followers    []string `json:"followers"`
	Following    []string `json:"following"`
}

// NewUser creates a user with empty follow sets
func NewUser(username, passwordHash, displayName string, role Role) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         role,
		Followers:    []string{},
		Following:    []string{},
	}
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsFollowing reports whether the user follows the given username
func (u *User) IsFollowing(username string) bool {
	return slices.Contains(u.Following, username)
}

// HasFollower reports whether the given username follows the user
func (u *User) HasFollower(username string) bool {
	return slices.Contains(u.Followers, username)
}

// SortedSet returns the keys of set in ascending order
func SortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
