package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Hub connectivity errors
	ErrHubUnavailable   = fmt.Errorf("hub unreachable")
	ErrSocketClosed     = fmt.Errorf("websocket closed")
	ErrRetriesExhausted = fmt.Errorf("reconnect attempts exhausted")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrControlRejected = fmt.Errorf("control action rejected")
	ErrControlBusy     = fmt.Errorf("control action already in flight")
	ErrStationNotFound = fmt.Errorf("station not found")

	// Cache errors
	ErrCacheMiss = fmt.Errorf("cache miss")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
