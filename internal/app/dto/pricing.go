package dto

import (
	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/daterange"
)

// PriceBreakdown is the quote returned to booking clients.
type PriceBreakdown struct {
	SiteID           int64             `json:"siteId"`
	CheckInDate      string            `json:"checkInDate"`
	CheckOutDate     string            `json:"checkOutDate"`
	NumberOfNights   int               `json:"numberOfNights"`
	NumberOfGuests   int               `json:"numberOfGuests"`
	BasePrice        int64             `json:"basePrice"`
	Subtotal         int64             `json:"subtotal"`
	ExtraGuestFee    int64             `json:"extraGuestFee"`
	TotalDiscount    int64             `json:"totalDiscount"`
	TotalSurcharge   int64             `json:"totalSurcharge"`
	TotalAmount      int64             `json:"totalAmount"`
	DailyBreakdown   []DailyPrice      `json:"dailyBreakdown"`
	AppliedDiscounts []AppliedDiscount `json:"appliedDiscounts"`
}

type DailyPrice struct {
	Date        string `json:"date"`
	DailyRate   int64  `json:"dailyRate"`
	PricingName string `json:"pricingName"`
	Weekend     bool   `json:"weekend"`
}

type AppliedDiscount struct {
	DiscountType   string  `json:"discountType"`
	DiscountRate   float64 `json:"discountRate"`
	DiscountAmount int64   `json:"discountAmount"`
	Description    string  `json:"description"`
}

// MapPriceBreakdown flattens a domain breakdown into whole-won wire amounts.
func MapPriceBreakdown(b domainpricing.Breakdown) PriceBreakdown {
	out := PriceBreakdown{
		SiteID:           b.SiteID,
		CheckInDate:      b.CheckIn.Format(daterange.Layout),
		CheckOutDate:     b.CheckOut.Format(daterange.Layout),
		NumberOfNights:   b.Nights,
		NumberOfGuests:   b.Guests,
		BasePrice:        b.BasePrice.Amount,
		Subtotal:         b.Subtotal.Amount,
		ExtraGuestFee:    b.ExtraGuestFee.Amount,
		TotalDiscount:    b.TotalDiscount.Amount,
		TotalSurcharge:   b.TotalSurcharge.Amount,
		TotalAmount:      b.TotalAmount.Amount,
		DailyBreakdown:   make([]DailyPrice, 0, len(b.Daily)),
		AppliedDiscounts: make([]AppliedDiscount, 0, len(b.Discounts)),
	}
	for _, n := range b.Daily {
		out.DailyBreakdown = append(out.DailyBreakdown, DailyPrice{
			Date:        n.Date.Format(daterange.Layout),
			DailyRate:   n.DailyRate.Amount,
			PricingName: n.PricingName,
			Weekend:     n.Weekend,
		})
	}
	for _, d := range b.Discounts {
		out.AppliedDiscounts = append(out.AppliedDiscounts, AppliedDiscount{
			DiscountType:   string(d.Type),
			DiscountRate:   d.RatePercent,
			DiscountAmount: d.Amount.Amount,
			Description:    d.Description,
		})
	}
	return out
}
