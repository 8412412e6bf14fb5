package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stocksim/internal/domain"
)

// QuoteService fetches real-time quotes from the external price provider.
// The client times out quickly: a slow provider surfaces as an unknown
// symbol rather than hanging the request.
type QuoteService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(baseURL, apiKey string) *QuoteService {
	return &QuoteService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Lookup fetches the current quote for a symbol. Any transport error,
// non-200 status or unparsable body is reported as ErrUnknownSymbol.
func (s *QuoteService) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrUnknownSymbol
	}

	addr := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s",
		s.baseURL, url.PathEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: quote lookup failed for %s: %v", domain.ErrUnknownSymbol, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d for %s", domain.ErrUnknownSymbol, resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read quote response for %s", domain.ErrUnknownSymbol, symbol)
	}

	var payload struct {
		Symbol      string  `json:"symbol"`
		CompanyName string  `json:"companyName"`
		LatestPrice float64 `json:"latestPrice"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal quote for %s", domain.ErrUnknownSymbol, symbol)
	}

	if payload.Symbol == "" || payload.LatestPrice <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	return &domain.Quote{
		Symbol: strings.ToUpper(payload.Symbol),
		Name:   payload.CompanyName,
		Price:  payload.LatestPrice,
	}, nil
}
