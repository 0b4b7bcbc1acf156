package domain

import "errors"

// Error kinds. Lower level errors are wrapped together with one of these
// so callers can branch with errors.Is.
var (
	// ErrRuntimeQuery means listing or inspecting failed. Callers may
	// continue with degraded information.
	ErrRuntimeQuery = errors.New("container runtime query failed")

	// ErrRuntimeOperation means pull, create, start, kill, exec or copy failed.
	ErrRuntimeOperation = errors.New("container runtime operation failed")

	ErrPortAllocation          = errors.New("port allocation failed")
	ErrHomeDirectoryUnresolved = errors.New("home directory could not be resolved")

	// ErrCertificateInjection aborts a start before the container runs.
	ErrCertificateInjection = errors.New("certificate injection failed")

	// ErrUnexpectedStdin is returned when a container emits a stdin frame.
	ErrUnexpectedStdin = errors.New("container emitted output on stdin")
)
