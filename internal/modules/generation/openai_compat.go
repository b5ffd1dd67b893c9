package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"

	appcfg "github.com/jamespheffernan/words-on-phone-server/internal/config"
)

// CompatClient speaks the raw chat-completions protocol against any
// OpenAI-compatible endpoint (local inference servers, proxies). Prompt-based
// like PromptClient; the deadline comes from the caller's context.
type CompatClient struct {
	provider appcfg.AIProvider
	http     *http.Client
}

func newCompatClient(provider appcfg.AIProvider) (*CompatClient, error) {
	if strings.TrimSpace(provider.APIKey) == "" {
		return nil, errors.New("provider api key is empty")
	}
	return &CompatClient{provider: provider, http: &http.Client{}}, nil
}

func (c *CompatClient) Name() string     { return c.provider.ID }
func (c *CompatClient) Structured() bool { return false }

func (c *CompatClient) Generate(ctx context.Context, req Request) ([]Item, error) {
	endpoint := normalizeCompatEndpoint(c.provider.Endpoint)
	model := strings.TrimSpace(c.provider.DefaultModel)
	if model == "" {
		model = "gpt-4o-mini"
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": phraseSystemPrompt},
			{"role": "user", "content": buildPhrasePrompt(req)},
		},
		"max_tokens": promptMaxOutputTokens,
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, newProviderError(c.provider.ID, KindGeneric, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.provider.APIKey))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, newProviderError(c.provider.ID, KindGeneric, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newProviderError(c.provider.ID, KindGeneric, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("chat completions failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		return nil, newProviderError(c.provider.ID, kindFromStatus(resp.StatusCode), err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, newProviderError(c.provider.ID, KindMalformed, err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return nil, newProviderError(c.provider.ID, KindGeneric, errors.New(result.Error.Message))
	}
	if len(result.Choices) == 0 {
		return nil, newProviderError(c.provider.ID, KindMalformed, errors.New("empty response from provider"))
	}

	items, err := extractItems(result.Choices[0].Message.Content, req)
	if err != nil {
		return nil, newProviderError(c.provider.ID, KindMalformed, err)
	}
	return items, nil
}

func normalizeCompatEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
