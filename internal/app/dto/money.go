package dto

import "directstay/internal/domain/shared/money"

// MoneyDTO carries amounts in minor units.
type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func Money(m money.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount, Currency: m.Currency}
}
