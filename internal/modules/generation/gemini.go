package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	appcfg "github.com/jamespheffernan/words-on-phone-server/internal/config"
	genai "google.golang.org/genai"
)

// GeminiClient asks Gemini for application/json responses, so its items come
// back structured and skip both lenient prose extraction and the in-call
// quality retry.
type GeminiClient struct {
	provider appcfg.AIProvider
	cli      *genai.Client
	model    string
}

func newGeminiClient(ctx context.Context, provider appcfg.AIProvider) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(provider.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{provider: provider, cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string     { return g.provider.ID }
func (g *GeminiClient) Structured() bool { return true }

func (g *GeminiClient) Generate(ctx context.Context, req Request) ([]Item, error) {
	full := phraseSystemPrompt + "\n\n" + buildPhrasePrompt(req)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, newProviderError(g.provider.ID, kindFromError(err), err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, newProviderError(g.provider.ID, KindMalformed, errors.New("empty response from provider"))
	}

	var items []Item
	if err := json.Unmarshal([]byte(resp.Candidates[0].Content.Parts[0].Text), &items); err != nil {
		return nil, newProviderError(g.provider.ID, KindMalformed, err)
	}

	items = sanitizeItems(items, req)
	if len(items) == 0 {
		return nil, newProviderError(g.provider.ID, KindMalformed, errNoItems)
	}
	return items, nil
}
