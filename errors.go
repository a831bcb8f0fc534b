package analyzer

import "errors"

var (
	// ErrNotLoaded is returned by Predict before Load has succeeded.
	ErrNotLoaded = errors.New("classifier is not loaded")

	// ErrEmptyText is returned when a classifier needs non-blank input.
	ErrEmptyText = errors.New("cannot classify empty text")

	// ErrUnknownClassifier is returned for a name the Analyzer does not hold.
	ErrUnknownClassifier = errors.New("unknown classifier")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("classifier is shutting down")
)
