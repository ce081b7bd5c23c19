package clierr

import "errors"

// Config store errors (C3): manifest loading, schema, and mutation
// preconditions.
var (
	// ErrNotInitialized indicates the manifest file is absent.
	ErrNotInitialized = errors.New("manifest has not been initialized")

	// ErrCorruptManifest indicates the manifest bytes did not parse or
	// named an unrecognized schema version.
	ErrCorruptManifest = errors.New("manifest is corrupt or has an unrecognized schema version")

	// ErrAlreadyTracked indicates a path is already present in the manifest.
	ErrAlreadyTracked = errors.New("path is already tracked")

	// ErrNotTracked indicates a path is absent from the manifest.
	ErrNotTracked = errors.New("path is not tracked")

	// ErrRecipientDuplicate indicates a recipient is already present for a path.
	ErrRecipientDuplicate = errors.New("recipient already has access to this path")

	// ErrRecipientNotFound indicates a recipient is absent from a path's
	// recipient set.
	ErrRecipientNotFound = errors.New("recipient does not have access to this path")

	// ErrNoAccess indicates none of a path's wrapped keys could be
	// unwrapped by the caller's available private material.
	ErrNoAccess = errors.New("no recipient key could be unwrapped: access denied")

	// ErrLastRecipient indicates an operation would leave a tracked
	// file with zero recipients; stop-tracking must be used instead.
	ErrLastRecipient = errors.New("cannot remove the last recipient; use stop-tracking instead")
)

// Recipient wrapper errors (C2).
var (
	// ErrRecipientUnknown indicates the external provider has no usable
	// public material for the given recipient identifier.
	ErrRecipientUnknown = errors.New("recipient is not known to the asymmetric provider")

	// ErrNoPrivateKey indicates the external provider has no private
	// material matching a wrapped key.
	ErrNoPrivateKey = errors.New("no private key available to unwrap this key")

	// ErrUnwrapFailed indicates the wrapped key was malformed or the
	// provider otherwise failed to unwrap it.
	ErrUnwrapFailed = errors.New("failed to unwrap key")

	// ErrProviderAbsent indicates the external asymmetric provider
	// binary is not installed or not resolvable on PATH.
	ErrProviderAbsent = errors.New("external asymmetric provider is not installed")

	// ErrProviderUnreachable indicates the provider binary was found but
	// the subprocess could not be spawned or crashed unexpectedly.
	ErrProviderUnreachable = errors.New("external asymmetric provider could not be reached")

	// ErrNoIdentity indicates the host environment exposes no default
	// private identity to use as a recipient for a newly tracked file.
	ErrNoIdentity = errors.New("no default identity available")
)

// Lifecycle and repository errors (C6/C7).
var (
	// ErrPathNotFound indicates start-tracking was asked to track a path
	// that does not exist in the working directory.
	ErrPathNotFound = errors.New("path does not exist in the working directory")

	// ErrNotARepository indicates the current directory is not inside a
	// repository the host VCS recognizes.
	ErrNotARepository = errors.New("current directory is not inside a repository")
)
