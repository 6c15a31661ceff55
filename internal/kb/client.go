// Package kb checks whether entities are connected in a knowledge base by
// querying a QLever SPARQL endpoint. Verdicts are cached through a layered
// memory/disk store so each entity pair costs at most one round of
// queries, ever.
package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ad-freiburg/question-generation/internal/cache"
)

// Client queries one QLever endpoint with politeness rate limiting.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	cache    cache.Cache
}

// NewClient creates a client for the given endpoint. cache may be nil to
// disable verdict caching.
func NewClient(endpoint string, timeout time.Duration, rps float64, burst int, store cache.Cache) *Client {
	if burst <= 0 {
		burst = 5
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		cache:    store,
	}
}

// qleverResponse carries the only field we need. QLever reports the result
// size even when rows are truncated by the send parameter.
type qleverResponse struct {
	ResultSize json.Number `json:"resultsize"`
}

// hasResults runs one SPARQL query and reports whether it returned any rows.
func (c *Client) hasResults(ctx context.Context, query string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("send", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("query endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var qr qleverResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return false, fmt.Errorf("decode endpoint response: %w", err)
	}
	n, err := qr.ResultSize.Int64()
	if err != nil {
		return false, fmt.Errorf("parse result size %q: %w", qr.ResultSize, err)
	}
	return n > 0, nil
}

// directQuery matches any predicate from ent1 to ent2.
func directQuery(ent1, ent2 string) string {
	return fmt.Sprintf(`PREFIX wd: <http://www.wikidata.org/entity/>
SELECT ?p WHERE {
  wd:%s ?p wd:%s .
}`, ent1, ent2)
}

// mediatorQuery matches a two-hop path from ent1 to ent2 through any
// intermediate node.
func mediatorQuery(ent1, ent2 string) string {
	return fmt.Sprintf(`PREFIX wd: <http://www.wikidata.org/entity/>
SELECT ?p1 ?p2 ?m WHERE {
  wd:%s ?p1 ?m .
  ?m ?p2 wd:%s .
}`, ent1, ent2)
}

// HasConnection reports whether two entities are connected directly or
// through one mediator, in either direction. The verdict is cached under
// the unordered pair.
func (c *Client) HasConnection(ctx context.Context, ent1, ent2 string) (bool, error) {
	key := cache.PairKey(ent1, ent2)
	if c.cache != nil {
		if val, ok := c.cache.Get(key); ok {
			return len(val) == 1 && val[0] == 1, nil
		}
	}

	connected := false
	for _, q := range []string{
		mediatorQuery(ent1, ent2),
		mediatorQuery(ent2, ent1),
		directQuery(ent1, ent2),
		directQuery(ent2, ent1),
	} {
		ok, err := c.hasResults(ctx, q)
		if err != nil {
			return false, err
		}
		if ok {
			connected = true
			break
		}
	}

	if c.cache != nil {
		val := []byte{0}
		if connected {
			val[0] = 1
		}
		if err := c.cache.Set(key, val, 0); err != nil {
			return connected, fmt.Errorf("cache connection verdict: %w", err)
		}
	}
	return connected, nil
}
