package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.scryfall.com"

// Source supplies raw card records for a set. Implemented by Client; tests
// substitute a fake.
type Source interface {
	CardsByRarity(ctx context.Context, setCode string, rarity Rarity) ([]Card, error)
	BasicLands(ctx context.Context, setCode string) ([]Card, error)
}

// Client talks to a Scryfall-compatible card search API.
type Client struct {
	log     *zap.Logger
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// searchPage is the envelope the search endpoint returns for one page.
type searchPage struct {
	Data    []Card `json:"data"`
	HasMore bool   `json:"has_more"`
}

// CardsByRarity fetches every printing of the given rarity in the set,
// following pagination until the service reports no further pages.
func (c *Client) CardsByRarity(ctx context.Context, setCode string, rarity Rarity) ([]Card, error) {
	query := fmt.Sprintf("set:%s rarity:%s", setCode, rarity)
	return c.searchAll(ctx, query, url.Values{
		"unique":             {"prints"},
		"include_extras":     {"false"},
		"include_variations": {"false"},
	})
}

// BasicLands fetches every basic land printing in the set.
func (c *Client) BasicLands(ctx context.Context, setCode string) ([]Card, error) {
	query := fmt.Sprintf("set:%s type:basic", setCode)
	return c.searchAll(ctx, query, url.Values{"unique": {"prints"}})
}

func (c *Client) searchAll(ctx context.Context, query string, params url.Values) ([]Card, error) {
	var cards []Card
	for page := 1; ; page++ {
		result, err := c.searchPage(ctx, query, params, page)
		if err != nil {
			return nil, err
		}
		cards = append(cards, result.Data...)
		if !result.HasMore {
			break
		}
	}
	c.log.Debug("catalog search complete",
		zap.String("query", query),
		zap.Int("cards", len(cards)))
	return cards, nil
}

func (c *Client) searchPage(ctx context.Context, query string, params url.Values, page int) (*searchPage, error) {
	v := url.Values{}
	for k, vals := range params {
		v[k] = vals
	}
	v.Set("q", query)
	v.Set("page", fmt.Sprint(page))

	u := fmt.Sprintf("%s/cards/search?%s", c.baseURL, v.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog search %q page %d: %w", query, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search %q page %d: unexpected status %d", query, page, resp.StatusCode)
	}

	var result searchPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &result, nil
}
