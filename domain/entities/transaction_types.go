package entities

// TransactionType represents the reason for a ledger mutation
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeWagerPlaced TransactionType = "wager_placed"
	TransactionTypeWagerWon    TransactionType = "wager_won"
	TransactionTypeWagerLost   TransactionType = "wager_lost"
	TransactionTypeWagerPush   TransactionType = "wager_push"
	TransactionTypeWagerVoid   TransactionType = "wager_void"
)

// IsRefund returns true if the stake is handed back unchanged
func (tt TransactionType) IsRefund() bool {
	return tt == TransactionTypeWagerPush || tt == TransactionTypeWagerVoid
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// TransactionTypeForStatus maps a terminal wager status onto its ledger transaction
func TransactionTypeForStatus(status WagerStatus) TransactionType {
	switch status {
	case WagerStatusWon:
		return TransactionTypeWagerWon
	case WagerStatusLost:
		return TransactionTypeWagerLost
	case WagerStatusPush:
		return TransactionTypeWagerPush
	case WagerStatusVoid:
		return TransactionTypeWagerVoid
	}
	return TransactionTypeWagerPlaced
}
