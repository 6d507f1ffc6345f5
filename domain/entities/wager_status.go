package entities

// WagerStatus represents the lifecycle state of a straight wager, parlay or parlay leg
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusWon     WagerStatus = "won"
	WagerStatusLost    WagerStatus = "lost"
	WagerStatusPush    WagerStatus = "push"
	WagerStatusVoid    WagerStatus = "void"
)

// IsTerminal returns true once the status can no longer change
func (s WagerStatus) IsTerminal() bool {
	return s == WagerStatusWon || s == WagerStatusLost || s == WagerStatusPush || s == WagerStatusVoid
}

// Verdict is the outcome of resolving a single leg against its market
type Verdict string

const (
	// VerdictNotResolvable means the market has no final result yet; the leg is deferred
	VerdictNotResolvable Verdict = ""
	VerdictWon           Verdict = "won"
	VerdictLost          Verdict = "lost"
	VerdictPush          Verdict = "push"
)

// IsDefinite returns true when the verdict settles the leg
func (v Verdict) IsDefinite() bool {
	return v == VerdictWon || v == VerdictLost || v == VerdictPush
}

// Status maps a definite verdict onto the wager status it transitions to
func (v Verdict) Status() WagerStatus {
	switch v {
	case VerdictWon:
		return WagerStatusWon
	case VerdictLost:
		return WagerStatusLost
	case VerdictPush:
		return WagerStatusPush
	}
	return WagerStatusPending
}
