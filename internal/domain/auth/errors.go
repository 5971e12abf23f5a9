package auth

import "errors"

var (
	ErrUnauthorized   = errors.New("Unauthorized.")
	ErrOAuthDisabled  = errors.New("sign-in is not configured")
	ErrMissingCode    = errors.New("authorization code is missing")
	ErrStateMismatch  = errors.New("oauth state mismatch")
	ErrUserInfo       = errors.New("failed to fetch user info")
	ErrMissingSubject = errors.New("user info has no subject")
	ErrUserNotFound   = errors.New("user not found")
)
