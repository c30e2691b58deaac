package command

import "errors"

// Sentinel causes wrapped by failure.InvalidDescriptor when Builder.Build
// fails validation.
var (
	errMissingProvider            = errors.New("command: uriProvider is required")
	errMissingCallback            = errors.New("command: remoteCallback is required")
	errMissingProviderAndCallback = errors.New("command: uriProvider and remoteCallback are required")
)
