package booking

// PaymentPlan splits a booking price between the user's wallet and the
// external gateway. The wallet is drained first; any remainder goes through
// the gateway ("mixed"). Neither portion is collected here; the command layer
// verifies the gateway payment before any local funds move.
type PaymentPlan struct {
	TotalCents   int64
	WalletCents  int64
	GatewayCents int64
	Method       PaymentMethod
}

func PlanPayment(totalCents, walletBalanceCents int64, useWallet bool) PaymentPlan {
	plan := PaymentPlan{TotalCents: totalCents}

	if !useWallet || walletBalanceCents <= 0 {
		plan.GatewayCents = totalCents
		plan.Method = MethodMercadoPago
		return plan
	}

	if walletBalanceCents >= totalCents {
		plan.WalletCents = totalCents
		plan.Method = MethodWallet
		return plan
	}

	plan.WalletCents = walletBalanceCents
	plan.GatewayCents = totalCents - walletBalanceCents
	plan.Method = MethodMixed
	return plan
}
