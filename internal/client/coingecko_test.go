package client

import (
	"compress/gzip"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// Table-driven tests for CoinGeckoClient.GetPrice.
func TestCoinGeckoClient_GetPrice(t *testing.T) {
	tests := []struct {
		name              string
		handler           http.HandlerFunc
		clientTimeout     time.Duration
		ctxTimeout        time.Duration // if >0 create context with timeout
		want              string
		wantErr           bool
		assertErrContains string // substring to assert in error (case-insensitive)
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("ids") != "bitcoin" || q.Get("vs_currencies") != "usd" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				if q.Get("precision") != "6" {
					t.Errorf("expected precision=6, got %q", q.Get("precision"))
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"bitcoin":{"usd":123.45}}`))
			},
			clientTimeout: 5 * time.Second,
			want:          "123.45",
		},
		{
			name: "gzip response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", "gzip")
				w.WriteHeader(http.StatusOK)
				gz := gzip.NewWriter(w)
				_, _ = gz.Write([]byte(`{"bitcoin":{"usd":30000}}`))
				_ = gz.Close()
			},
			clientTimeout: 5 * time.Second,
			want:          "30000",
		},
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			clientTimeout:     5 * time.Second,
			wantErr:           true,
			assertErrContains: "unexpected status",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("{not-json}"))
			},
			clientTimeout:     5 * time.Second,
			wantErr:           true,
			assertErrContains: "decode json",
		},
		{
			name: "missing id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"other":{"usd":1}}`))
			},
			clientTimeout:     5 * time.Second,
			wantErr:           true,
			assertErrContains: "no id",
		},
		{
			name: "missing vs",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"bitcoin":{"eur":1}}`))
			},
			clientTimeout:     5 * time.Second,
			wantErr:           true,
			assertErrContains: "no vs",
		},
		{
			name: "context timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
			},
			clientTimeout:     1 * time.Second,
			ctxTimeout:        50 * time.Millisecond,
			wantErr:           true,
			assertErrContains: "context",
		},
		{
			name: "client timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
			},
			clientTimeout: 50 * time.Millisecond,
			wantErr:       true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			c := NewCoinGeckoClient(tc.clientTimeout, "6")
			c.SetBaseURL(ts.URL)

			var ctx context.Context
			var cancel context.CancelFunc
			if tc.ctxTimeout > 0 {
				ctx, cancel = context.WithTimeout(context.Background(), tc.ctxTimeout)
			} else {
				ctx, cancel = context.WithCancel(context.Background())
			}
			defer cancel()

			got, err := c.GetPrice(ctx, "bitcoin", "usd")

			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tc.name == "client timeout" {
					// либо net.Error с Timeout(), либо дедлайн контекста
					var ne net.Error
					if errors.As(err, &ne) && ne.Timeout() {
						return
					}
					if errors.Is(err, context.DeadlineExceeded) {
						return
					}
					t.Fatalf("expected timeout error, got: %v", err)
				}
				if tc.assertErrContains != "" &&
					!strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.assertErrContains)) {
					t.Fatalf("expected error containing %q, got: %v", tc.assertErrContains, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want, _ := decimal.NewFromString(tc.want)
			if !got.Equal(want) {
				t.Fatalf("wrong price: want %s got %s", want, got)
			}
		})
	}
}
