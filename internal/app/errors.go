package service

import "errors"

var (
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoSession is returned when no session has been generated yet.
	ErrNoSession = errors.New("no session generated")
	// ErrUnknownAction is returned for action names outside types.Actions.
	ErrUnknownAction = errors.New("unknown action")
)
