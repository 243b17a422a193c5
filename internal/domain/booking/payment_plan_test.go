//go:build unit

package booking_test

import (
	"testing"

	"fieldbook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestPlanPayment(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		balance   int64
		useWallet bool
		expect    booking.PaymentPlan
	}{
		{
			name:      "wallet declined goes fully through gateway",
			total:     12000,
			balance:   20000,
			useWallet: false,
			expect:    booking.PaymentPlan{TotalCents: 12000, GatewayCents: 12000, Method: booking.MethodMercadoPago},
		},
		{
			name:      "empty wallet goes fully through gateway",
			total:     12000,
			balance:   0,
			useWallet: true,
			expect:    booking.PaymentPlan{TotalCents: 12000, GatewayCents: 12000, Method: booking.MethodMercadoPago},
		},
		{
			name:      "covering wallet pays everything",
			total:     12000,
			balance:   12000,
			useWallet: true,
			expect:    booking.PaymentPlan{TotalCents: 12000, WalletCents: 12000, Method: booking.MethodWallet},
		},
		{
			name:      "short wallet splits with the gateway",
			total:     12000,
			balance:   5000,
			useWallet: true,
			expect:    booking.PaymentPlan{TotalCents: 12000, WalletCents: 5000, GatewayCents: 7000, Method: booking.MethodMixed},
		},
		{
			name:      "free booking needs no gateway payment",
			total:     0,
			balance:   0,
			useWallet: true,
			expect:    booking.PaymentPlan{Method: booking.MethodMercadoPago},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := booking.PlanPayment(c.total, c.balance, c.useWallet)
			assert.Equal(t, c.expect, plan)
			assert.Equal(t, plan.TotalCents, plan.WalletCents+plan.GatewayCents)
		})
	}
}
