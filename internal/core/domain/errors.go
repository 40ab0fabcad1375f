package domain

import "errors"

// Common domain errors.
var (
	// Search errors
	ErrEmptyNeedle = errors.New("search needle cannot be empty")

	// Routing errors
	ErrEmptyMessageText = errors.New("message text cannot be empty")

	// Campaign errors
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrUnknownCounter   = errors.New("unknown counter name")

	// Target errors
	ErrEmptyTarget = errors.New("target names no pipeline or status")
)
