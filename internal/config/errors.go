package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading .env, YAML or the environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrUnknownStorage is joined with ErrInvalidConfig when the storage
	// kind is none of postgres, sqlite or file.
	ErrUnknownStorage = errors.New("unknown storage backend")
)
