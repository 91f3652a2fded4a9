package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Request errors
	ErrInvalidRequest  = fmt.Errorf("invalid request")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Lookup errors
	ErrUserNotFound = fmt.Errorf("user not found")
	ErrSongNotFound = fmt.Errorf("song not found")

	// Conflict errors
	ErrDuplicateUser = fmt.Errorf("user already exists")
	ErrDuplicateSong = fmt.Errorf("song already exists")

	// Record store errors
	ErrStoreUnavailable = fmt.Errorf("record store unavailable")
	ErrStoreCorrupt     = fmt.Errorf("record store corrupt")

	// Transport errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrRateLimited = fmt.Errorf("rate limited")
)

// Kind classifies an error for transport mapping and logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindNotFound
	KindConflict
	KindUnavailable
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// KindOf returns the [Kind] of the first recognized sentinel wrapped by err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidArgument):
		return KindInvalidRequest
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrSongNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateUser), errors.Is(err, ErrDuplicateSong):
		return KindConflict
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrRateLimited):
		return KindUnavailable
	case errors.Is(err, ErrStoreCorrupt):
		return KindCorrupt
	default:
		return KindUnknown
	}
}

// errorCodes pairs each sentinel with the machine-readable code used in HTTP error bodies.
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidRequest, "invalid_request"},
	{ErrUserNotFound, "user_not_found"},
	{ErrSongNotFound, "song_not_found"},
	{ErrDuplicateUser, "duplicate_user"},
	{ErrDuplicateSong, "duplicate_song"},
	{ErrStoreUnavailable, "store_unavailable"},
	{ErrStoreCorrupt, "store_corrupt"},
	{ErrRateLimited, "rate_limited"},
}

// ErrorCode returns the wire code for err, or "internal" when it wraps no known sentinel.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// ErrorFromCode is the inverse of [ErrorCode]; unknown codes map to [ErrAPIRequest].
func ErrorFromCode(code string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	return ErrAPIRequest
}
