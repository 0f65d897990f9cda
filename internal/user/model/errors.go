package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates that another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNicknameTaken indicates that another account already uses the nickname.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrUserExists indicates a unique violation whose column could not be told apart.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
