package models

import "time"

// CodePurpose distinguishes one-time codes.
type CodePurpose string

const (
	CodeVerifyEmail   CodePurpose = "verify-email"
	CodeResetPassword CodePurpose = "reset-password"
)

// OneTimeCode is a short-lived code mailed to the user (logged by the local provider).
type OneTimeCode struct {
	UID       string      `json:"uid"`
	Purpose   CodePurpose `json:"purpose"`
	Code      string      `json:"code"`
	ExpiresAt time.Time   `json:"expires_at"`
	Attempts  int         `json:"attempts"`
}
