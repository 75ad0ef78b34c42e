package lead_index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/rotisserie/eris"
)

const leadIndexMapping = `{
  "settings": {"number_of_shards": 1},
  "mappings": {
    "properties": {
      "runId":       {"type": "keyword"},
      "firstName":   {"type": "text"},
      "lastName":    {"type": "text"},
      "email":       {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "phone":       {"type": "keyword"},
      "role":        {"type": "text"},
      "linkedinUrl": {"type": "keyword"},
      "source":      {"type": "keyword"},
      "notes":       {"type": "text"},
      "company": {
        "properties": {
          "name":     {"type": "text"},
          "website":  {"type": "keyword"},
          "industry": {"type": "text"},
          "size":     {"type": "keyword"},
          "location": {"type": "text"}
        }
      }
    }
  }
}`

// searchFields are boosted so names and emails outrank notes.
var searchFields = []string{
	"firstName^3", "lastName^3", "email.text^2", "company.name^2",
	"role", "company.industry", "company.location", "notes",
}

type leadDocument struct {
	RunID string `json:"runId"`
	app.LeadCandidate
}

type OpenSearchLeadIndex struct {
	client *opensearchapi.Client
	index  string
	log    *slog.Logger
}

var _ app.LeadIndex = &OpenSearchLeadIndex{}

func New(client *opensearchapi.Client, cfg *config.Config, log *slog.Logger) *OpenSearchLeadIndex {
	return &OpenSearchLeadIndex{
		client: client,
		index:  cfg.Infrastructure.OpenSearch.LeadIndex,
		log:    log,
	}
}

// EnsureIndex creates the lead index with its mapping unless it exists.
func (this *OpenSearchLeadIndex) EnsureIndex(ctx context.Context) error {
	_, err := this.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: this.index,
		Body:  strings.NewReader(leadIndexMapping),
	})
	if err != nil && !strings.Contains(err.Error(), "resource_already_exists_exception") {
		return eris.Wrapf(err, "opensearch: create index %s", this.index)
	}
	return nil
}

func documentID(runID string, position int) string {
	return fmt.Sprintf("%s-%d", runID, position)
}

func (this *OpenSearchLeadIndex) IndexLeads(ctx context.Context, runID string, leads []app.LeadCandidate) error {
	if len(leads) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for i, lead := range leads {
		action := map[string]any{"index": map[string]any{"_index": this.index, "_id": documentID(runID, i)}}
		if err := enc.Encode(action); err != nil {
			return eris.Wrap(err, "opensearch: encode bulk action")
		}
		if err := enc.Encode(leadDocument{RunID: runID, LeadCandidate: lead}); err != nil {
			return eris.Wrap(err, "opensearch: encode lead")
		}
	}

	resp, err := this.client.Bulk(ctx, opensearchapi.BulkReq{
		Index: this.index,
		Body:  &body,
	})
	if err != nil {
		return eris.Wrapf(err, "opensearch: bulk index %d leads", len(leads))
	}
	if resp.Errors {
		return eris.Errorf("opensearch: bulk index of run %s reported item errors", runID)
	}

	this.log.Info("leads indexed", "run_id", runID, "count", len(leads), "index", this.index)
	return nil
}

func (this *OpenSearchLeadIndex) Search(ctx context.Context, query string, limit int) ([]app.LeadHit, int, error) {
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
	}

	queryJSON, err := json.Marshal(q)
	if err != nil {
		return nil, 0, eris.Wrap(err, "opensearch: marshal query")
	}

	searchResp, err := this.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{this.index},
		Body:    bytes.NewReader(queryJSON),
	})
	if err != nil {
		return nil, 0, eris.Wrapf(err, "opensearch: search %s", this.index)
	}

	hits := make([]app.LeadHit, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		var doc leadDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			this.log.Warn("skipping undecodable lead document", "id", hit.ID, "error", err)
			continue
		}
		hits = append(hits, app.LeadHit{
			ID:    hit.ID,
			Score: float64(hit.Score),
			Lead:  doc.LeadCandidate,
		})
	}

	return hits, searchResp.Hits.Total.Value, nil
}
