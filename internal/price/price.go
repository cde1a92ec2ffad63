package price

import (
	"context"

	"github.com/shopspring/decimal"
)

// Price — текущая цена одного актива в одной валюте.
// Поля сериализуются как есть (Symbol/Amount/Type) — это внешний контракт /prices.
type Price struct {
	Symbol string
	Amount decimal.Decimal
	Type   string
}

// Client описывает минимальный контракт клиента цен.
// Интерфейс находится в отдельном пакете, чтобы избежать циклических импортов.
type Client interface {
	GetPrice(ctx context.Context, id, vs string) (decimal.Decimal, error)
}
