package services

import "errors"

var (
	// ErrUserNotFound means the referenced user has never contacted the bot.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound means neither the code path nor the name-fragment
	// path matched a catalog entry.
	ErrTaskNotFound = errors.New("task not found")
)
