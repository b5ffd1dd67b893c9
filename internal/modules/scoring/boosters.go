package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	appcfg "github.com/jamespheffernan/words-on-phone-server/internal/config"
)

// BoosterClient queries external quality signals: Wikipedia entity breadth
// and Reddit engagement. Both map raw counts onto tiered point scales; any
// failure surfaces as an error so the scorer can degrade that sub-score to
// zero instead of failing the whole scoring call.
type BoosterClient struct {
	http         *http.Client
	wikipediaURL string
	redditURL    string
}

func NewBoosterClient(cfg appcfg.BoosterConfig) *BoosterClient {
	return &BoosterClient{
		http:         &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		wikipediaURL: strings.TrimRight(cfg.WikipediaEndpoint, "/"),
		redditURL:    strings.TrimRight(cfg.RedditEndpoint, "/"),
	}
}

// WikipediaTier maps the breadth of Wikipedia opensearch matches onto the
// wikipedia point scale.
func (b *BoosterClient) WikipediaTier(ctx context.Context, text string) (int, error) {
	endpoint := fmt.Sprintf("%s?action=opensearch&format=json&limit=10&search=%s",
		b.wikipediaURL, neturl.QueryEscape(text))

	body, err := b.fetch(ctx, endpoint)
	if err != nil {
		return 0, err
	}

	// Opensearch responds [query, [titles], [descriptions], [urls]].
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("unexpected opensearch response: %w", err)
	}
	if len(payload) < 2 {
		return 0, fmt.Errorf("unexpected opensearch response shape")
	}
	var titles []string
	if err := json.Unmarshal(payload[1], &titles); err != nil {
		return 0, fmt.Errorf("unexpected opensearch titles: %w", err)
	}

	switch breadth := len(titles); {
	case breadth >= 8:
		return wikipediaCap, nil
	case breadth >= 4:
		return 20, nil
	case breadth >= 1:
		return 10, nil
	default:
		return 0, nil
	}
}

// RedditTier maps the combined score of matching Reddit posts onto the
// reddit point scale.
func (b *BoosterClient) RedditTier(ctx context.Context, text string) (int, error) {
	endpoint := fmt.Sprintf("%s/search.json?limit=10&q=%s",
		b.redditURL, neturl.QueryEscape(text))

	body, err := b.fetch(ctx, endpoint)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Score int `json:"score"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("unexpected reddit response: %w", err)
	}

	engagement := 0
	for _, child := range payload.Data.Children {
		engagement += child.Data.Score
	}

	switch {
	case engagement >= 10000:
		return redditCap, nil
	case engagement >= 1000:
		return 10, nil
	case engagement >= 100:
		return 5, nil
	default:
		return 0, nil
	}
}

func (b *BoosterClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "words-on-phone-server/1.0")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("booster lookup failed: %d", resp.StatusCode)
	}
	return body, nil
}
