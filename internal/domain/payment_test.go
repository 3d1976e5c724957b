package domain

import "testing"

func TestPaymentStatusCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to PaymentStatus
	}{
		{PaymentPending, PaymentProcessing},
		{PaymentPending, PaymentExpired},
		{PaymentProcessing, PaymentCompleted},
		{PaymentProcessing, PaymentFailed},
		{PaymentProcessing, PaymentExpired},
		{PaymentCompleted, PaymentRefunded},
	}

	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("Expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	forbidden := []struct {
		from, to PaymentStatus
	}{
		{PaymentPending, PaymentCompleted},
		{PaymentPending, PaymentRefunded},
		{PaymentProcessing, PaymentPending},
		{PaymentCompleted, PaymentPending},
		{PaymentCompleted, PaymentExpired},
		{PaymentFailed, PaymentCompleted},
		{PaymentRefunded, PaymentCompleted},
		{PaymentExpired, PaymentProcessing},
		{PaymentCompleted, PaymentCompleted},
	}

	for _, tc := range forbidden {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("Expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	terminal := []PaymentStatus{PaymentFailed, PaymentRefunded, PaymentExpired}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("Expected %s to be terminal", s)
		}
	}

	open := []PaymentStatus{PaymentPending, PaymentProcessing, PaymentCompleted}
	for _, s := range open {
		if s.Terminal() {
			t.Errorf("Expected %s to be non-terminal", s)
		}
	}
}

func TestPlanIntervalDuration(t *testing.T) {
	cases := []struct {
		interval PlanInterval
		days     int
		bounded  bool
	}{
		{IntervalMonthly, 30, true},
		{IntervalQuarterly, 90, true},
		{IntervalHalfYearly, 182, true},
		{IntervalYearly, 365, true},
		{IntervalOneTime, 0, false},
	}

	for _, tc := range cases {
		d, bounded := tc.interval.Duration()
		if bounded != tc.bounded {
			t.Errorf("%s: expected bounded=%v, got %v", tc.interval, tc.bounded, bounded)
		}
		if bounded && int(d.Hours())/24 != tc.days {
			t.Errorf("%s: expected %d days, got %v", tc.interval, tc.days, d)
		}
	}
}
