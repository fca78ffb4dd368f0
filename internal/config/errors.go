package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrRootNotFound is returned when an allowed root does not exist.
	ErrRootNotFound = errors.New("allowed root does not exist")

	// ErrRootNotDirectory is returned when an allowed root is a file.
	ErrRootNotDirectory = errors.New("allowed root is not a directory")

	// ErrInvalidBudget is returned when the asset budget is not positive.
	ErrInvalidBudget = errors.New("invalid budget: must be a positive number of KB")

	// ErrInvalidConcurrency is returned when concurrency is out of range.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be between 1 and 256")

	// ErrInvalidTop is returned when the report bound is out of range.
	ErrInvalidTop = errors.New("invalid top: must be between 1 and 100")

	// ErrInvalidWeights is returned when a weight is negative or not finite.
	ErrInvalidWeights = errors.New("invalid weights: must be non-negative finite numbers")

	// ErrUnknownRule is returned when a disabled rule is not a known rule.
	ErrUnknownRule = errors.New("unknown accessibility rule")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
