package lead_index

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *OpenSearchLeadIndex {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{Addresses: []string{srv.URL}},
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Infrastructure.OpenSearch.LeadIndex = "leads"
	return New(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIndexLeads_BulkBody(t *testing.T) {
	var lines []string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_bulk"), r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":3,"errors":false,"items":[]}`))
	})

	err := idx.IndexLeads(context.Background(), "run-1", []app.LeadCandidate{
		{FirstName: "Ann", Email: "ann@x.co", Company: app.Company{Name: "Acme"}},
		{FirstName: "Bob"},
	})
	require.NoError(t, err)
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, "run-1-0", action["index"]["_id"])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "run-1", doc["runId"])
	assert.Equal(t, "Ann", doc["firstName"])
	assert.Equal(t, "Acme", doc["company"].(map[string]any)["name"])
}

func TestIndexLeads_ItemErrors(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":3,"errors":true,"items":[]}`))
	})

	err := idx.IndexLeads(context.Background(), "run-1", []app.LeadCandidate{{FirstName: "Ann"}})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/leads/_search"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 3, body["size"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"took": 2, "timed_out": false,
			"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
			"hits": {
				"total": {"value": 7, "relation": "eq"},
				"max_score": 2.5,
				"hits": [
					{"_index": "leads", "_id": "run-1-0", "_score": 2.5,
					 "_source": {"runId": "run-1", "firstName": "Ann", "email": "ann@x.co", "company": {"name": "Acme"}}}
				]
			}
		}`))
	})

	hits, total, err := idx.Search(context.Background(), "acme", 3)
	require.NoError(t, err)

	assert.Equal(t, 7, total)
	require.Len(t, hits, 1)
	assert.Equal(t, "run-1-0", hits[0].ID)
	assert.InDelta(t, 2.5, hits[0].Score, 0.001)
	assert.Equal(t, "Ann", hits[0].Lead.FirstName)
	assert.Equal(t, "Acme", hits[0].Lead.Company.Name)
}
