package header_mapping_service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/invopop/jsonschema"
)

// ----- STRUCTURED OUTPUT SCHEMA -----

type ColumnClassification struct {
	Header string `json:"header" jsonschema_description:"Spreadsheet column header exactly as given"`
	Field  string `json:"field" jsonschema:"enum=firstName,enum=lastName,enum=email,enum=phone,enum=companyName,enum=companyWebsite,enum=companyIndustry,enum=companySize,enum=role,enum=location,enum=linkedinUrl,enum=source,enum=notes,enum=IGNORE" jsonschema_description:"Lead field the column maps to, or IGNORE"`
}

type ColumnClassificationResponse struct {
	Mappings []ColumnClassification `json:"mappings" jsonschema_description:"One entry per header"`
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var ColumnClassificationResponseSchema = GenerateSchema[ColumnClassificationResponse]()

var ErrUnparseableResponse = errors.New("classifier response contains no JSON object")

// what the model receives as INPUT_JSON
type classificationInput struct {
	Headers       []string            `json:"headers"`
	ExampleValues map[string][]string `json:"example_values,omitempty"`
}

// ----- SERVICE -----

type HeaderMappingService struct {
	generator  app.TextGenerator
	cache      app.ClassificationCache
	log        *slog.Logger
	ctxTimeout time.Duration
}

var _ app.ColumnClassifier = &HeaderMappingService{}

func New(generator app.TextGenerator, cache app.ClassificationCache, log *slog.Logger, cfg *config.Config) *HeaderMappingService {
	timeout := cfg.Importer.ClassifierTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HeaderMappingService{
		generator:  generator,
		cache:      cache,
		log:        log,
		ctxTimeout: timeout,
	}
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify asks the text generator which lead field each header holds. The
// answer is returned as-is; callers validate field names before merging.
func (s *HeaderMappingService) Classify(ctx context.Context, req app.ClassificationRequest) (map[string]string, error) {
	headers := uniqueHeaders(req.Headers)
	if len(headers) == 0 {
		return map[string]string{}, nil
	}

	key := cacheKey(headers)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.log.Debug("column classification cache hit", "headers", headers)
		return cached, nil
	}

	input, err := json.Marshal(classificationInput{
		Headers:       headers,
		ExampleValues: req.Examples,
	})
	if err != nil {
		return nil, fmt.Errorf("build input json: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.ctxTimeout)
	defer cancel()

	started := time.Now()
	text, err := s.generator.Generate(callCtx, app.GenerateRequest{
		System:     systemPrompt(),
		Prompt:     fmt.Sprintf("Classify the headers using the examples.\nINPUT_JSON:\n%s", input),
		SchemaName: "column_classification",
		Schema:     ColumnClassificationResponseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate classification: %w", err)
	}

	result, err := parseClassification(text)
	if err != nil {
		return nil, err
	}

	s.log.Info("columns classified",
		"headers", len(headers),
		"answers", len(result),
		"elapsed", time.Since(started))

	s.cache.Set(ctx, key, result)
	return result, nil
}

func systemPrompt() string {
	fields := make([]string, 0, len(app.AllLeadFields()))
	for _, f := range app.AllLeadFields() {
		fields = append(fields, f.String())
	}
	return "You map spreadsheet column headers of a sales lead list to lead fields. " +
		"Allowed fields: " + strings.Join(fields, ", ") + ". " +
		"Use \"" + app.LeadFieldIgnore + "\" for columns that carry no lead information. " +
		"Return ONLY a JSON object whose keys are the headers and whose values are field names."
}

// uniqueHeaders drops blanks and case-insensitive repeats, keeping the first spelling.
func uniqueHeaders(headers []string) []string {
	seen := make(map[string]struct{}, len(headers))
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

// cacheKey hashes the normalized, sorted header set.
func cacheKey(headers []string) string {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}
	sort.Strings(norm)
	sum := sha256.Sum256([]byte(strings.Join(norm, "\n")))
	return hex.EncodeToString(sum[:])
}
