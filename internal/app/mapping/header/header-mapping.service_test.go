package header_mapping_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	answer string
	err    error
	calls  int
	last   app.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req app.GenerateRequest) (string, error) {
	f.calls++
	f.last = req
	return f.answer, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(gen app.TextGenerator) (*HeaderMappingService, *MemoryCache) {
	cache := NewMemoryCache(time.Hour)
	cfg := &config.Config{}
	cfg.Importer.ClassifierTimeout = time.Second
	return New(gen, cache, discardLogger(), cfg), cache
}

func TestClassify_ParsesAnswerShapes(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   map[string]string
	}{
		{
			name:   "flat object",
			answer: `{"Record ID": "IGNORE", "Mail": "email"}`,
			want:   map[string]string{"Record ID": "IGNORE", "Mail": "email"},
		},
		{
			name:   "markdown fence",
			answer: "```json\n{\"Mail\": \"email\"}\n```",
			want:   map[string]string{"Mail": "email"},
		},
		{
			name:   "prose around object",
			answer: "Sure! Here it is: {\"Mail\": \"email\", \"Note {x}\": \"notes\"} hope it helps",
			want:   map[string]string{"Mail": "email", "Note {x}": "notes"},
		},
		{
			name:   "structured mappings",
			answer: `{"mappings":[{"header":"Mail","field":"email"},{"header":"Record ID","field":"IGNORE"}]}`,
			want:   map[string]string{"Mail": "email", "Record ID": "IGNORE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{answer: tt.answer}
			svc, _ := newService(gen)

			got, err := svc.Classify(context.Background(), app.ClassificationRequest{
				Headers: []string{"Mail", "Record ID", "Note {x}"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_SendsHeadersAndSchema(t *testing.T) {
	gen := &fakeGenerator{answer: `{}`}
	svc, _ := newService(gen)

	_, err := svc.Classify(context.Background(), app.ClassificationRequest{
		Headers:  []string{"Mail", " mail ", "", "Cell"},
		Examples: map[string][]string{"Mail": {"a@b.co"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "column_classification", gen.last.SchemaName)
	assert.NotNil(t, gen.last.Schema)
	assert.Contains(t, gen.last.Prompt, `"headers":["Mail","Cell"]`)
	assert.Contains(t, gen.last.Prompt, `"a@b.co"`)
	assert.Contains(t, gen.last.System, "linkedinUrl")
	assert.Contains(t, gen.last.System, app.LeadFieldIgnore)
}

func TestClassify_NoJSON(t *testing.T) {
	svc, cache := newService(&fakeGenerator{answer: "I cannot help with that."})

	_, err := svc.Classify(context.Background(), app.ClassificationRequest{Headers: []string{"Mail"}})
	assert.ErrorIs(t, err, ErrUnparseableResponse)
	assert.Equal(t, 0, cache.Len())
}

func TestClassify_GeneratorError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc, _ := newService(&fakeGenerator{err: boom})

	_, err := svc.Classify(context.Background(), app.ClassificationRequest{Headers: []string{"Mail"}})
	assert.ErrorIs(t, err, boom)
}

func TestClassify_CachedByHeaderSet(t *testing.T) {
	gen := &fakeGenerator{answer: `{"Mail": "email"}`}
	svc, cache := newService(gen)
	ctx := context.Background()

	first, err := svc.Classify(ctx, app.ClassificationRequest{Headers: []string{"Mail", "Cell"}})
	require.NoError(t, err)

	second, err := svc.Classify(ctx, app.ClassificationRequest{Headers: []string{"cell", "MAIL"}})
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestClassify_NoHeadersSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{answer: `{"x":"email"}`}
	svc, _ := newService(gen)

	got, err := svc.Classify(context.Background(), app.ClassificationRequest{Headers: []string{" ", ""}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, gen.calls)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	assert.Equal(t, `{"a":"}{","b":"\"}"}`, extractJSON(`noise {"a":"}{","b":"\"}"} tail`))
	assert.Equal(t, "", extractJSON("no object here"))
	assert.Equal(t, "", extractJSON(`{"unterminated": "yes"`))
}

func TestCollectExamples(t *testing.T) {
	table := &app.RawTable{
		Header: []string{"Mail", "Bio"},
		Rows: []app.Row{
			{"Mail": "a@x.co", "Bio": ""},
			{"Mail": "a@x.co", "Bio": "ééééé"},
			{"Mail": "b@x.co", "Bio": "short"},
			{"Mail": "c@x.co", "Bio": "other"},
		},
	}

	got := CollectExamples(table, []string{"Mail", "Bio", "Missing"}, 2, 3)

	assert.Equal(t, []string{"a@x…(+3)", "b@x…(+3)"}, got["Mail"])
	assert.Equal(t, []string{"ééé…(+2)", "sho…(+2)"}, got["Bio"])
	assert.NotContains(t, got, "Missing")
	assert.Nil(t, CollectExamples(table, []string{"Mail"}, 0, 10))
}
