package entities

import "errors"

// Sentinel errors surfaced by the wagering core. Callers compare with errors.Is;
// services wrap them with context using fmt.Errorf("...: %w", err).
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidStake        = errors.New("invalid stake")
	ErrMarketClosed        = errors.New("market closed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStaleBalance        = errors.New("stale balance")
	ErrNotFound            = errors.New("not found")
)

// RejectionReason maps an error returned from placement to the short reason
// shown to the user who submitted the slip.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientBalance):
		return "Not enough units remaining for this slip"
	case errors.Is(err, ErrMarketClosed):
		return "Betting is closed for this market"
	case errors.Is(err, ErrInvalidStake):
		return "Stake must be at least the minimum and a multiple of the stake increment"
	case errors.Is(err, ErrStaleBalance):
		return "Your balance changed while placing the bet, please try again"
	case errors.Is(err, ErrNotFound):
		return "Selection or account no longer exists"
	case errors.Is(err, ErrInvalidInput):
		return "The slip is not valid: " + err.Error()
	default:
		return "Something went wrong placing the bet"
	}
}
