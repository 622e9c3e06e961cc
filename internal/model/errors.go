package model

import "errors"

var (
	// ErrNotFound indicates a referenced user or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEngagement indicates the user already saved or
	// reported this exact content. Expected and user-facing.
	ErrDuplicateEngagement = errors.New("duplicate engagement")

	// ErrUpstreamUnavailable indicates every content provider failed.
	ErrUpstreamUnavailable = errors.New("upstream content providers unavailable")
)
