package gemini_client

import (
	"context"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ app.TextGenerator = &GeminiClient{}

func New(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Clients.Gemini.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	model := cfg.Clients.Gemini.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate asks for a JSON answer at temperature 0. The schema is described in
// the prompt; Gemini only receives the MIME type.
func (this *GeminiClient) Generate(ctx context.Context, req app.GenerateRequest) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := this.client.Models.GenerateContent(ctx, this.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", eris.Wrap(err, "gemini: generate content")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("gemini: empty response")
	}
	return text, nil
}
