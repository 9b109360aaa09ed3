package sales

import (
	"testing"
	"time"
)

func TestDiscountCode_Validate(t *testing.T) {
	d := &DiscountCode{Code: " diwali10 ", Percent: 10}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if d.Code != "DIWALI10" {
		t.Errorf("Code = %q, want DIWALI10", d.Code)
	}

	both := &DiscountCode{Code: "X", Percent: 5, Amount: 100}
	if err := both.Validate(); err == nil {
		t.Error("percent and amount together: want error")
	}
	neither := &DiscountCode{Code: "X"}
	if err := neither.Validate(); err == nil {
		t.Error("no percent or amount: want error")
	}
}

func TestDiscountCode_AppliesTo(t *testing.T) {
	now := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	until := now.Add(24 * time.Hour)
	d := &DiscountCode{Code: "FEST", Percent: 15, MinOrder: 1000, ValidUntil: &until, IsActive: true}

	if got := d.AppliesTo(999.99, now); got != 0 {
		t.Errorf("below min order = %v, want 0", got)
	}
	if got := d.AppliesTo(2000, now); got != 300 {
		t.Errorf("15%% of 2000 = %v, want 300", got)
	}
	if got := d.AppliesTo(2000, until); got != 0 {
		t.Errorf("at expiry = %v, want 0", got)
	}

	flat := &DiscountCode{Code: "FLAT", Amount: 500, IsActive: true, UsageLimit: 1}
	if got := flat.AppliesTo(300, now); got != 300 {
		t.Errorf("flat discount capped = %v, want 300", got)
	}
	flat.UsedCount = 1
	if got := flat.AppliesTo(3000, now); got != 0 {
		t.Errorf("exhausted code = %v, want 0", got)
	}
}

func TestShippingPolicy_FeeFor(t *testing.T) {
	s := &ShippingPolicy{Name: "India standard", Rate: 99, FreeAbove: 2500, Regions: []string{"IN"}}
	if got := s.FeeFor(1000); got != 99 {
		t.Errorf("FeeFor(1000) = %v, want 99", got)
	}
	if got := s.FeeFor(2500); got != 0 {
		t.Errorf("FeeFor(2500) = %v, want 0", got)
	}
	if !s.CoversRegion("in") || s.CoversRegion("US") {
		t.Error("CoversRegion mismatch")
	}
}

func TestOrderTransitions(t *testing.T) {
	if !CanTransition(StatusPending, StatusConfirmed) {
		t.Error("pending -> confirmed should be allowed")
	}
	if CanTransition(StatusDelivered, StatusPending) {
		t.Error("delivered -> pending should be refused")
	}
	if IsValidStatus("lost") {
		t.Error("lost is not a status")
	}
}

func TestCustomer_Validate(t *testing.T) {
	c := &Customer{Name: "Meera", Email: " Meera@Example.COM "}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Email != "meera@example.com" {
		t.Errorf("Email = %q", c.Email)
	}
	if err := (&Customer{Name: "x", Email: "nope@"}).Validate(); err == nil {
		t.Error("bad email: want error")
	}
}
