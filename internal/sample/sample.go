// Package sample is the demo record the CLI filters: a customer with one
// field of every category the compiler understands.
package sample

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a customer account.
type Status int

const (
	StatusActive Status = iota
	StatusSuspended
	StatusClosed
)

var statusNames = map[Status]string{
	StatusActive:    "Active",
	StatusSuspended: "Suspended",
	StatusClosed:    "Closed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText writes the constant name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText reads a constant name.
func (s *Status) UnmarshalText(b []byte) error {
	for v, n := range statusNames {
		if n == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("sample: unknown status %q", b)
}

// Tier is the pricing tier.
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

func (t Tier) String() string { return string(t) }

// UnmarshalText accepts only the declared tiers.
func (t *Tier) UnmarshalText(b []byte) error {
	switch v := Tier(b); v {
	case TierBronze, TierSilver, TierGold:
		*t = v
		return nil
	}
	return fmt.Errorf("sample: unknown tier %q", b)
}

// Address is a postal address.
type Address struct {
	City string  `json:"city"`
	Zip  *string `json:"zip,omitempty"`
}

// Customer is the demo record.
type Customer struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Age       int        `json:"age"`
	Country   string     `json:"country"`
	Company   *string    `json:"company,omitempty"`
	Status    Status     `json:"status"`
	Tier      *Tier      `json:"tier,omitempty"`
	Balance   float64    `json:"balance"`
	Score     *float64   `json:"score,omitempty"`
	Active    bool       `json:"active"`
	Verified  *bool      `json:"verified,omitempty"`
	JoinedAt  time.Time  `json:"joinedAt"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	Address   *Address   `json:"address,omitempty"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
}

// Ptr returns a pointer to v.
func Ptr[V any](v V) *V { return &v }

// Customers is a small fixed data set.
func Customers() []Customer {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	return []Customer{
		{
			ID: uuid.MustParse("0195b7a0-0000-7000-8000-000000000001"), Name: "Alice Martin", Age: 30,
			Country: "France", Company: Ptr("Victuailles en stock"), Status: StatusActive, Tier: Ptr(TierGold),
			Balance: 1200.5, Score: Ptr(8.5), Active: true, Verified: Ptr(true), JoinedAt: day(2021, 3, 14),
			LastSeen: Ptr(day(2025, 1, 2)), Address: &Address{City: "Lyon", Zip: Ptr("69001")},
		},
		{
			ID: uuid.MustParse("0195b7a0-0000-7000-8000-000000000002"), Name: "Bruno Keller", Age: 45,
			Country: "Germany", Company: Ptr("Königlich Essen"), Status: StatusSuspended,
			Balance: -20, Active: false, JoinedAt: day(2019, 7, 1), Address: &Address{City: "Berlin"},
		},
		{
			ID: uuid.MustParse("0195b7a0-0000-7000-8000-000000000003"), Name: "Chen Wei", Age: 27,
			Country: "France", Company: Ptr("Asia Trading Co."), Status: StatusActive, Tier: Ptr(TierSilver),
			Balance: 310, Score: Ptr(6.0), Active: true, JoinedAt: day(2023, 11, 30), LastSeen: Ptr(day(2024, 12, 24)),
			ManagerID: Ptr(uuid.MustParse("0195b7a0-0000-7000-8000-000000000001")),
		},
		{
			ID: uuid.MustParse("0195b7a0-0000-7000-8000-000000000004"), Name: "  ", Age: 61,
			Country: "Spain", Status: StatusClosed, Tier: Ptr(TierBronze), Balance: 0,
			Active: false, JoinedAt: day(2015, 5, 5),
		},
	}
}
