// Package timeouts holds process-level timeouts shared by the commands.
package timeouts

import "time"

const (
	// ReadHeader bounds how long the HTTP server waits for request headers.
	ReadHeader = 5 * time.Second
	// Shutdown bounds graceful shutdown of servers and relay workers.
	Shutdown = 10 * time.Second
	// Dial bounds the initial broker and cache connection attempts.
	Dial = 10 * time.Second
	// Migrate bounds a full schema migration run.
	Migrate = 5 * time.Minute
)
