package refine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rmaksimov/founderscout/internal/model"
)

const openAITimeout = 30 * time.Second

// OpenAIProvider extracts names through OpenAI's Chat Completions API.
// Directory cards mangle names in ways the pattern provider cannot
// untangle ("JANE DOE co founded Acme with her sister"), so this is
// the higher-recall option.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI-backed name extractor
func NewOpenAIProvider(cfg model.RefineConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  chatModel,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ExtractNames asks the model for person names in a raw role line
func (p *OpenAIProvider) ExtractNames(ctx context.Context, line string) ([]Name, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, openAITimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You extract person names from startup directory text. " +
					"Reply with one full name per line, exactly as written. " +
					"Reply with the single word None if the text contains no person name. " +
					"Never invent names and never include company names.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: line,
			},
		},
		MaxTokens:   200,
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseNameLines(resp.Choices[0].Message.Content, roleLabel(line)), nil
}

// parseNameLines turns the model's line-per-name reply into Names,
// dropping the None sentinel and anything that is not two words or more
func parseNameLines(reply, role string) []Name {
	var names []Name
	for _, raw := range strings.Split(reply, "\n") {
		candidate := strings.TrimSpace(strings.TrimLeft(raw, "-*0123456789. "))
		if candidate == "" || strings.EqualFold(candidate, "none") {
			continue
		}
		if len(strings.Fields(candidate)) < 2 {
			continue
		}
		names = append(names, Name{Person: candidate, Role: role})
	}
	return names
}
