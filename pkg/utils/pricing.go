package utils

import (
	"math"

	"github.com/cargolink/cargolink-backend/internal/models"
)

// BookingQuote contains the calculated charges and breakdown for a booking amount
type BookingQuote struct {
	Amount        float64        `json:"amount"`
	PlatformFee   float64        `json:"platformFee"`
	TaxAmount     float64        `json:"taxAmount"`
	NetToProvider float64        `json:"netToProvider"`
	TotalPayable  float64        `json:"totalPayable"`
	Currency      string         `json:"currency"`
	Breakdown     QuoteBreakdown `json:"breakdown"`
}

// QuoteBreakdown provides the applied rates alongside the charges
type QuoteBreakdown struct {
	CommissionRate float64 `json:"commissionRate"`
	TaxRate        float64 `json:"taxRate"`
	Commission     float64 `json:"commission"`
	Tax            float64 `json:"tax"`
}

// CalculateBookingQuote computes platform fee and tax for a booking amount
// using the given platform configuration. The commission is charged to the
// provider; the tax is added on top of the requester's total.
func CalculateBookingQuote(amount float64, cfg *models.PlatformConfig) BookingQuote {
	commission := roundCurrency(amount * cfg.CommissionRate)
	tax := roundCurrency(amount * cfg.TaxRate)

	return BookingQuote{
		Amount:        roundCurrency(amount),
		PlatformFee:   commission,
		TaxAmount:     tax,
		NetToProvider: roundCurrency(amount - commission),
		TotalPayable:  roundCurrency(amount + tax),
		Currency:      cfg.Currency,
		Breakdown: QuoteBreakdown{
			CommissionRate: cfg.CommissionRate,
			TaxRate:        cfg.TaxRate,
			Commission:     commission,
			Tax:            tax,
		},
	}
}

// WithinBookingLimits checks the amount against the configured min/max
func WithinBookingLimits(amount float64, cfg *models.PlatformConfig) bool {
	return amount >= cfg.MinBookingAmount && amount <= cfg.MaxBookingAmount
}

func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
