package sim

import "errors"

var (
	// Runner errors

	ErrAlreadyRunning = errors.New("runner is already running")
	ErrQueueFull      = errors.New("command queue is full")

	// Command errors

	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownObject  = errors.New("no object with that id")
	ErrStaticObject   = errors.New("static objects cannot be moved")
	ErrSpawnThrottled = errors.New("spawn rate limit exceeded")
)
