package dto

import (
	"time"

	"directstay/internal/domain/pricing"
	"directstay/internal/domain/promo"
)

type DailyRate struct {
	Date  string   `json:"date"`
	Rate  MoneyDTO `json:"rate"`
	Label string   `json:"label,omitempty"`
}

type AppliedDiscount struct {
	Label  string   `json:"label"`
	Amount MoneyDTO `json:"amount"`
	Code   string   `json:"code,omitempty"`
}

type PriceBreakdown struct {
	PropertyID            string           `json:"property_id"`
	CheckIn               string           `json:"check_in"`
	CheckOut              string           `json:"check_out"`
	Currency              string           `json:"currency"`
	NumberOfNights        int              `json:"number_of_nights"`
	NightlyRate           MoneyDTO         `json:"nightly_rate"`
	Subtotal              MoneyDTO         `json:"subtotal"`
	DirectBookingDiscount MoneyDTO         `json:"direct_booking_discount"`
	Discount              *AppliedDiscount `json:"discount,omitempty"`
	CustomDiscount        *AppliedDiscount `json:"custom_discount,omitempty"`
	PromoDiscount         *AppliedDiscount `json:"promo_discount,omitempty"`
	PromoRejection        string           `json:"promo_rejection,omitempty"`
	CleaningFee           MoneyDTO         `json:"cleaning_fee"`
	ServiceFee            MoneyDTO         `json:"service_fee"`
	Total                 MoneyDTO         `json:"total"`
	DailyRates            []DailyRate      `json:"daily_rates,omitempty"`
	Fallback              bool             `json:"fallback"`
}

const dateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func MapPriceBreakdown(p pricing.PriceBreakdown) PriceBreakdown {
	return PriceBreakdown{
		PropertyID:            p.PropertyID,
		CheckIn:               FormatDate(p.Range.CheckIn),
		CheckOut:              FormatDate(p.Range.CheckOut),
		Currency:              p.Currency,
		NumberOfNights:        p.Nights,
		NightlyRate:           Money(p.NightlyRate),
		Subtotal:              Money(p.Subtotal),
		DirectBookingDiscount: Money(p.DirectBookingDiscount),
		Discount:              mapDiscount(p.LengthDiscount),
		CustomDiscount:        mapDiscount(p.CustomDiscount),
		PromoDiscount:         mapDiscount(p.PromoDiscount),
		PromoRejection:        p.PromoRejection,
		CleaningFee:           Money(p.CleaningFee),
		ServiceFee:            Money(p.ServiceFee),
		Total:                 Money(p.Total),
		DailyRates:            MapDailyRates(p.DailyRates),
		Fallback:              p.Fallback,
	}
}

func MapDailyRates(rates []pricing.DailyRate) []DailyRate {
	if rates == nil {
		return nil
	}
	out := make([]DailyRate, 0, len(rates))
	for _, r := range rates {
		out = append(out, DailyRate{Date: FormatDate(r.Date), Rate: Money(r.Rate), Label: r.Label})
	}
	return out
}

func mapDiscount(d *pricing.AppliedDiscount) *AppliedDiscount {
	if d == nil {
		return nil
	}
	return &AppliedDiscount{Label: d.Label, Amount: Money(d.Amount), Code: d.Code}
}

type PromoValidation struct {
	Valid         bool    `json:"valid"`
	Code          string  `json:"code,omitempty"`
	DiscountType  string  `json:"discount_type,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty"`
	Label         string  `json:"label,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

func MapPromoValidation(v promo.Validation) PromoValidation {
	return PromoValidation{
		Valid:         v.Valid,
		Code:          v.Code,
		DiscountType:  string(v.DiscountType),
		DiscountValue: v.DiscountValue,
		Label:         v.Label,
		Reason:        v.Reason,
	}
}

type RateSchedule struct {
	PropertyID     string      `json:"property_id"`
	Currency       string      `json:"currency"`
	NumberOfNights int         `json:"number_of_nights"`
	NightlyRate    MoneyDTO    `json:"nightly_rate"`
	Subtotal       MoneyDTO    `json:"subtotal"`
	DailyRates     []DailyRate `json:"daily_rates"`
	Fallback       bool        `json:"fallback"`
}
