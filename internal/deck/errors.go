package deck

import "errors"

// Code is a machine-readable failure reason.
type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeInvalidTier   Code = "INVALID_TIER"
	CodeEntryNotFound Code = "ENTRY_NOT_FOUND"
)

var (
	// ErrInvalidTier is returned when a tier falls outside the configured range.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrEntryNotFound is returned when removing a card that has no deck entry.
	ErrEntryNotFound = errors.New("deck entry not found")
)

// CodeOf maps an error returned by this package to its Code.
func CodeOf(err error) Code {
	switch {
	case errors.Is(err, ErrInvalidTier):
		return CodeInvalidTier
	case errors.Is(err, ErrEntryNotFound):
		return CodeEntryNotFound
	default:
		return CodeUnknown
	}
}
