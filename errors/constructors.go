package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *Error {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// TransportConnect creates a connection failure error
func TransportConnect(address string, err error) *Error {
	return Wrap(err, ErrCodeTransportConnect, fmt.Sprintf("failed to connect to %s", address)).
		WithDetail("address", address)
}

// TransportClosed creates an error for a transport that ended unexpectedly
func TransportClosed(source string, err error) *Error {
	return Wrap(err, ErrCodeTransportClosed, fmt.Sprintf("transport '%s' closed", source)).
		WithDetail("source", source)
}

// SourceNotFound creates an error for a missing transcript file
func SourceNotFound(path string) *Error {
	return New(ErrCodeSourceNotFound, fmt.Sprintf("transcript not found: %s", path)).
		WithDetail("path", path)
}

// CredentialsMissing creates an error for an unset password variable
func CredentialsMissing(envVar string) *Error {
	return New(ErrCodeCredentialsMissing,
		fmt.Sprintf("password variable %s is not set", envVar)).
		WithDetail("env", envVar)
}
