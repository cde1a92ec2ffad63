package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

type CoinGeckoClient struct {
	http      *http.Client
	baseURL   string
	precision string
}

func NewCoinGeckoClient(timeout time.Duration, precision string) *CoinGeckoClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &CoinGeckoClient{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   "https://api.coingecko.com",
		precision: precision,
	}
}

// SetBaseURL переопределяет адрес API (для httptest-серверов).
func (c *CoinGeckoClient) SetBaseURL(u string) {
	c.baseURL = u
}

// GetPrice возвращает цену монеты id в фиате vs (например: id="bitcoin", vs="usd").
func (c *CoinGeckoClient) GetPrice(ctx context.Context, id, vs string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Add("ids", id)
	params.Add("vs_currencies", vs)
	if c.precision != "" {
		params.Add("precision", c.precision)
	}

	reqURL := fmt.Sprintf("%s/api/v3/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var reader io.ReadCloser = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return decimal.Zero, fmt.Errorf("gzip reader: %w", err)
		}
		defer reader.Close()
	}

	var data map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(reader).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("decode json: %w", err)
	}

	priceMap, ok := data[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("no id %q in response", id)
	}
	price, ok := priceMap[vs]
	if !ok {
		return decimal.Zero, fmt.Errorf("no vs %q for id %q in response", vs, id)
	}
	return price, nil
}
