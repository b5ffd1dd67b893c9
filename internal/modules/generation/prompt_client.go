package generation

import (
	"context"
	"errors"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/jamespheffernan/words-on-phone-server/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const promptMaxOutputTokens = 1600

// PromptClient drives OpenAI or Anthropic chat models through the jetify
// language-model abstraction. Responses are freeform text, so this client is
// not structured and its output goes through lenient extraction.
type PromptClient struct {
	provider appcfg.AIProvider
	model    jetapi.LanguageModel
}

func newPromptClient(provider appcfg.AIProvider) (*PromptClient, error) {
	model, err := buildLanguageModel(provider)
	if err != nil {
		return nil, err
	}
	return &PromptClient{provider: provider, model: model}, nil
}

func (p *PromptClient) Name() string     { return p.provider.ID }
func (p *PromptClient) Structured() bool { return false }

func (p *PromptClient) Generate(ctx context.Context, req Request) ([]Item, error) {
	messages := []jetapi.Message{
		&jetapi.SystemMessage{Content: phraseSystemPrompt},
		&jetapi.UserMessage{Content: jetapi.ContentFromText(buildPhrasePrompt(req))},
	}

	resp, err := jetai.GenerateText(ctx, messages,
		jetai.WithModel(p.model),
		jetai.WithMaxOutputTokens(promptMaxOutputTokens),
	)
	if err != nil {
		return nil, newProviderError(p.provider.ID, kindFromError(err), err)
	}

	text, err := extractTextBlocks(resp)
	if err != nil {
		return nil, newProviderError(p.provider.ID, KindMalformed, err)
	}

	items, err := extractItems(text, req)
	if err != nil {
		return nil, newProviderError(p.provider.ID, KindMalformed, err)
	}
	return items, nil
}

func extractTextBlocks(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from provider")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from provider")
	}
	return text, nil
}

func buildLanguageModel(provider appcfg.AIProvider) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(provider.APIKey)
	if apiKey == "" {
		return nil, errors.New("provider api key is empty")
	}

	modelID := strings.TrimSpace(provider.DefaultModel)
	endpoint := strings.TrimSpace(provider.Endpoint)

	if normalizeProviderType(provider.Type) == "anthropic" {
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}

		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}

		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = "gpt-4o-mini"
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}

	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}
