package store

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/go-price-feed/internal/price"
)

// Store — единственный владелец текущих цен (symbol -> currency -> amount).
// Все обращения под RWMutex; по паре (symbol, type) побеждает последняя запись.
type Store struct {
	mu     sync.RWMutex
	prices map[string]map[string]decimal.Decimal
}

func New() *Store {
	return &Store{prices: make(map[string]map[string]decimal.Decimal)}
}

// Set перезаписывает цену пары (symbol, type).
func (s *Store) Set(p price.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byType, ok := s.prices[p.Symbol]
	if !ok {
		byType = make(map[string]decimal.Decimal)
		s.prices[p.Symbol] = byType
	}
	byType[p.Type] = p.Amount
}

func (s *Store) Get(symbol, typ string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amount, ok := s.prices[symbol][typ]
	return amount, ok
}

// List возвращает снимок всех цен, отсортированный по (Symbol, Type).
// Всегда не-nil: пустой store сериализуется в /prices как пустой массив.
func (s *Store) List() []price.Price {
	s.mu.RLock()
	out := make([]price.Price, 0, len(s.prices)*2)
	for symbol, byType := range s.prices {
		for typ, amount := range byType {
			out = append(out, price.Price{Symbol: symbol, Amount: amount, Type: typ})
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byType := range s.prices {
		n += len(byType)
	}
	return n
}
