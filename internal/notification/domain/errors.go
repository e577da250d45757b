package domain

import "errors"

var (
	// ErrTokenRequired is returned when a registration arrives without a token.
	ErrTokenRequired = errors.New("token is required")

	// ErrDeviceNotFound is returned when no device matches the given device ID.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNoDevices is returned when the dispatch target resolved to zero tokens.
	ErrNoDevices = errors.New("no device tokens found")

	// ErrNoTargets is returned when a send is attempted with an empty token list.
	ErrNoTargets = errors.New("no target tokens provided")

	// ErrProviderSend is returned when a provider call itself failed, as
	// opposed to individual tokens failing within a successful call.
	ErrProviderSend = errors.New("push provider send failed")
)
