package pricing

import (
	"directstay/internal/domain/shared/money"
)

// CleaningFee returns the admin override when present, else the listing default. It is never discounted.
func CleaningFee(override *float64, listingDefault money.Money) money.Money {
	if override != nil {
		return money.FromMajor(*override, listingDefault.Currency)
	}
	return listingDefault
}

// InvoiceOptions configure the invoice-only fees. Rates are percentages.
type InvoiceOptions struct {
	TaxRate           float64 `json:"tax_rate" validate:"gte=0,lte=100"`
	ProcessingFeeRate float64 `json:"processing_fee_rate" validate:"gte=0,lte=100"`
	SplitPayment      bool    `json:"split_payment"`
	DepositPercentage float64 `json:"deposit_percentage" validate:"gte=0,lte=100"`
}

type InvoiceTotals struct {
	Subtotal      money.Money
	Tax           money.Money
	ProcessingFee money.Money
	Total         money.Money
	// Deposit and Balance are set only when the payment is split.
	Split   bool
	Deposit money.Money
	Balance money.Money
}

// FinalizeInvoice adds tax and processing fee to subtotal, each rounded to the cent,
// and splits the total into deposit and balance when 0 < DepositPercentage < 100.
func FinalizeInvoice(subtotal money.Money, opts InvoiceOptions) InvoiceTotals {
	totals := InvoiceTotals{
		Subtotal:      subtotal,
		Tax:           subtotal.Percent(opts.TaxRate),
		ProcessingFee: subtotal.Percent(opts.ProcessingFeeRate),
	}
	totals.Total = money.Money{
		Amount:   subtotal.Amount + totals.Tax.Amount + totals.ProcessingFee.Amount,
		Currency: subtotal.Currency,
	}
	if opts.SplitPayment && opts.DepositPercentage > 0 && opts.DepositPercentage < 100 {
		totals.Split = true
		totals.Deposit = totals.Total.Percent(opts.DepositPercentage)
		totals.Balance = money.Money{Amount: totals.Total.Amount - totals.Deposit.Amount, Currency: subtotal.Currency}
	}
	return totals
}
