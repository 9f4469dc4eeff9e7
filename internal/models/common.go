package models

// ErrorBody is the error payload shape of the portal backend. The backend
// reports most failures in Detail; Error and Message are accepted as well.
type ErrorBody struct {
	Detail  interface{} `json:"detail,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PaginationParams represents the skip/limit window of list endpoints
type PaginationParams struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// PasswordChange is the body of /users/change-password
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CodeRequest carries a TOTP code for the MFA enable/disable endpoints
type CodeRequest struct {
	Token string `json:"token"`
}

// MFALoginRequest exchanges a temp_token and a TOTP code for a session token
type MFALoginRequest struct {
	TempToken string `json:"temp_token"`
	Token     string `json:"token"`
}
