package model

import "encoding/json"

// SignUpRequest represents a signup submission.
type SignUpRequest struct {
	LoginID  string `json:"userId"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// SignInRequest represents a login submission.
type SignInRequest struct {
	LoginID  string `json:"userId"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a profile update. ProfileImage is tri-state:
// omitted (leave as is), explicit null (remove), or a URL (replace).
type UpdateProfileRequest struct {
	Nickname     string         `json:"nickname"`
	ProfileImage OptionalString `json:"profileImage"`
}

// DeleteAccountRequest re-confirms the password before account removal.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// AuthResult is what the auth service hands back after signup/signin.
// The refresh token is only ever written into the httpOnly cookie by the
// HTTP layer, never into a response body.
type AuthResult struct {
	User         UserResponse
	AccessToken  string
	RefreshToken string
}

// RefreshResult is the outcome of an access-token refresh.
type RefreshResult struct {
	User        UserResponse
	AccessToken string
}

// OptionalString distinguishes between a JSON field that was omitted,
// set to null, and set to a value.
type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		o.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
