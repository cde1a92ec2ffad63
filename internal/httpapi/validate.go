package httpapi

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/go-price-feed/internal/price"
)

// setPriceRequest — сырой запрос до валидации. Указатели и RawMessage
// различают отсутствующее поле и пустое значение.
type setPriceRequest struct {
	Symbol *string         `json:"symbol"`
	Amount json.RawMessage `json:"amount"`
	Type   *string         `json:"type"`
}

// parseSetPrice разбирает тело запроса и валидирует поля в строгом порядке:
// symbol → amount → type → реестр символов. Любая ошибка поля —
// *price.ValidationError (400); незарегистрированный, но корректный символ —
// price.ErrUnknownSymbol (404). Decimal принимает amount и числом, и строкой.
func parseSetPrice(body io.Reader, registry *price.Registry) (price.Price, error) {
	var req setPriceRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return price.Price{}, price.NewValidationError("body", "malformed json")
	}

	if req.Symbol == nil || *req.Symbol == "" {
		return price.Price{}, price.NewValidationError("symbol", "must be a non-empty string")
	}

	if len(req.Amount) == 0 {
		return price.Price{}, price.NewValidationError("amount", "is required")
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(req.Amount); err != nil {
		return price.Price{}, price.NewValidationError("amount", "must be numeric")
	}
	if !amount.IsPositive() {
		return price.Price{}, price.NewValidationError("amount", "must be positive")
	}

	if req.Type == nil || *req.Type == "" {
		return price.Price{}, price.NewValidationError("type", "is required")
	}
	if !registry.SupportedCurrency(*req.Type) {
		return price.Price{}, price.NewValidationError("type", "unsupported currency code")
	}

	if !registry.KnownSymbol(*req.Symbol) {
		return price.Price{}, price.ErrUnknownSymbol
	}

	return price.Price{Symbol: *req.Symbol, Amount: amount, Type: *req.Type}, nil
}
