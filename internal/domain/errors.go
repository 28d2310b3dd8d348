package domain

import "errors"

var (
	// ErrNotInitialized is returned when a backing client is missing
	// the configuration it needs to start.
	ErrNotInitialized = errors.New("not initialized")

	// ErrNotAuthenticated is returned when an operation requiring a
	// user scope runs while signed out.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRemote wraps network, permission, and server errors from the
	// remote store or identity provider.
	ErrRemote = errors.New("remote operation failed")

	// ErrValidation wraps malformed credential input at the identity
	// boundary. Its message is user-facing.
	ErrValidation = errors.New("validation failed")

	// ErrChatNotFound is returned when a chat id is absent from the
	// in-memory collection.
	ErrChatNotFound = errors.New("chat not found")
)
