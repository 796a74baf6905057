// Package quotes fetches market prices over HTTP. It speaks a simple
// batch quote API: GET {base}/quote?symbols=AAPL,VOD.L returns
//
//	{"quotes":[{"symbol":"AAPL","name":"Apple Inc","price":231.5,"currency":"USD"}, ...]}
//
// Prices quoted in GBX are normalized to pounds at ingestion, so the rest
// of the system only ever sees major-unit prices.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/finbook/finbook"
)

// DefaultBaseURL is the public endpoint used when none is configured.
const DefaultBaseURL = "https://quotes.finbook.dev/v1"

// Client fetches quotes from the API. It implements finbook.QuoteProvider.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New creates a client for the given API key, using the default endpoint.
func New(apiKey string) *Client {
	return &Client{BaseURL: DefaultBaseURL, APIKey: apiKey, HTTP: http.DefaultClient}
}

// Fetch implements finbook.QuoteProvider for a batch of market keys.
func (c *Client) Fetch(ctx context.Context, keys []string) (map[string]finbook.Quote, error) {
	if len(keys) == 0 {
		return map[string]finbook.Quote{}, nil
	}
	addr := fmt.Sprintf("%s/quote?symbols=%s&api_token=%s",
		strings.TrimSuffix(c.BaseURL, "/"),
		url.QueryEscape(strings.Join(keys, ",")),
		url.QueryEscape(c.APIKey))

	jobj, err := c.getJSON(ctx, addr)
	if err != nil {
		return nil, err
	}

	jquotes, err := jsonpath.Get("$.quotes[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("malformed quote response: %w", err)
	}
	jlist, ok := jquotes.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed quote response: quotes is not a list")
	}

	out := make(map[string]finbook.Quote, len(jlist))
	for _, item := range jlist {
		symbol, _ := lookupString(item, "symbol")
		if symbol == "" {
			continue
		}
		price, err := lookupFloat(item, "price")
		if err != nil {
			// A quote without a usable price is dropped, not fatal:
			// valuation falls back to average cost for that ticker.
			continue
		}
		currency, _ := lookupString(item, "currency")
		if currency == finbook.GBX {
			price /= 100
			currency = "GBP"
		}
		name, _ := lookupString(item, "name")
		out[symbol] = finbook.Quote{Price: finbook.M(price, currency), Name: name}
	}
	return out, nil
}

// getJSON performs a GET and decodes the body as generic JSON.
func (c *Client) getJSON(ctx context.Context, addr string) (any, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request returned %s", resp.Status)
	}
	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("quote response is not JSON: %w", err)
	}
	return jobj, nil
}

func lookupString(jobj any, key string) (string, error) {
	jval, err := jsonpath.Get("$."+key, jobj)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string", key)
	}
	return s, nil
}

func lookupFloat(jobj any, key string) (float64, error) {
	jval, err := jsonpath.Get("$."+key, jobj)
	if err != nil {
		return 0, err
	}
	f, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", key)
	}
	return f, nil
}
