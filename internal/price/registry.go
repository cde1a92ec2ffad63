package price

import (
	"sort"
	"strings"
)

// Registry хранит известные символы и поддерживаемые коды валют.
// Символы сравниваются без учёта регистра (у CoinGecko id всегда в нижнем),
// коды валют — строго как сконфигурированы (USD, EUR).
type Registry struct {
	symbols    map[string]struct{}
	currencies map[string]struct{}
}

func NewRegistry(symbols, currencies []string) *Registry {
	r := &Registry{
		symbols:    make(map[string]struct{}, len(symbols)),
		currencies: make(map[string]struct{}, len(currencies)),
	}
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			r.symbols[strings.ToLower(s)] = struct{}{}
		}
	}
	for _, c := range currencies {
		if c = strings.TrimSpace(c); c != "" {
			r.currencies[c] = struct{}{}
		}
	}
	return r
}

func (r *Registry) KnownSymbol(symbol string) bool {
	_, ok := r.symbols[strings.ToLower(symbol)]
	return ok
}

func (r *Registry) SupportedCurrency(code string) bool {
	_, ok := r.currencies[code]
	return ok
}

// Symbols возвращает отсортированный список — стабильный порядок для poller и тестов.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Currencies() []string {
	out := make([]string, 0, len(r.currencies))
	for c := range r.currencies {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
