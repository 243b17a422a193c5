package wallet

// TransactionType classifies a ledger entry. The ledger is append-only:
// corrections are new entries, never edits.
type TransactionType string

const (
	TypeDeposit      TransactionType = "deposit"
	TypeWithdrawal   TransactionType = "withdrawal"
	TypePointsEarned TransactionType = "points_earned"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypePointsEarned:
		return true
	default:
		return false
	}
}

// SignedAmount returns the ledger entry's contribution to the balance.
func SignedAmount(t TransactionType, amountCents int64) int64 {
	switch t {
	case TypeWithdrawal:
		return -amountCents
	case TypePointsEarned:
		return 0
	default:
		return amountCents
	}
}
