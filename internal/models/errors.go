package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrEmptySelection     = errors.New("please select at least one ticket")
	ErrSubmissionInFlight = errors.New("a booking submission is already in progress")
	ErrInvalidTransition  = errors.New("invalid wizard transition")
	ErrSessionExpired     = errors.New("session expired, please sign in again")
	ErrProtocol           = errors.New("unrecognized response from booking service")
	ErrCameraPermission   = errors.New("camera permission denied")
	ErrCameraNotFound     = errors.New("no camera found")
	ErrCameraInUse        = errors.New("camera is already in use")
)
