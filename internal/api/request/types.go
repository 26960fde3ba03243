package request

import "errors"

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields
func (r *LoginRequest) Validate() error {
	return require(field{"username", r.Username}, field{"password", r.Password})
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// Validate checks required fields
func (r *RegisterRequest) Validate() error {
	return require(
		field{"username", r.Username},
		field{"password", r.Password},
		field{"displayName", r.DisplayName},
	)
}

// UpdateProfileRequest is the request body for changing a display name
type UpdateProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Validate checks required fields
func (r *UpdateProfileRequest) Validate() error {
	return require(field{"username", r.Username}, field{"displayName", r.DisplayName})
}

// WarnRequest is the request body for warning a user
type WarnRequest struct {
	Admin  string `json:"admin"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Validate checks required fields. admin is checked by the moderation service.
func (r *WarnRequest) Validate() error {
	return require(field{"target", r.Target}, field{"reason", r.Reason})
}

// RoleChangeRequest is the request body for promote and demote
type RoleChangeRequest struct {
	Admin  string `json:"admin"`
	Target string `json:"target"`
}

// Validate checks required fields
func (r *RoleChangeRequest) Validate() error {
	return require(field{"target", r.Target})
}

// FollowRequest is the request body for following a user
type FollowRequest struct {
	Follower string `json:"follower"`
	Followee string `json:"followee"`
}

// Validate checks required fields
func (r *FollowRequest) Validate() error {
	return require(field{"follower", r.Follower}, field{"followee", r.Followee})
}

type field struct {
	name  string
	value string
}

func require(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return errors.New(f.name + " is required")
		}
	}
	return nil
}
