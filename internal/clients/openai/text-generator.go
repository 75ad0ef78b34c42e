package openai_client

import (
	"context"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
)

// TextGenerator answers prompts with chat completions. When the request
// carries a schema the answer is constrained with structured outputs.
type TextGenerator struct {
	client *openai.Client
	model  openai.ChatModel
}

var _ app.TextGenerator = &TextGenerator{}

func NewTextGenerator(client *openai.Client, cfg *config.Config) *TextGenerator {
	model := openai.ChatModel(cfg.Clients.OpenAI.Model)
	if model == "" {
		model = openai.ChatModelGPT5Nano
	}
	return &TextGenerator{client: client, model: model}
}

func (this *TextGenerator) Generate(ctx context.Context, req app.GenerateRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    this.model,
		Messages: messages,
	}

	if req.Schema != nil && req.SchemaName != "" {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := this.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("openai: empty completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
