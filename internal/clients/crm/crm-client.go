package crm_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/rotisserie/eris"
	"github.com/sethvargo/go-retry"
)

type CrmClient struct {
	url        string
	token      string
	client     *http.Client
	maxRetries uint64
	backoff    time.Duration
	log        *slog.Logger
}

var _ app.CrmClient = &CrmClient{}

type CreateLeadsRequest struct {
	JobID string              `json:"job_id"`
	Leads []app.LeadCandidate `json:"leads"`
}

type SuccessRequest struct {
	JobID      string            `json:"job_id"`
	Notes      string            `json:"notes,omitempty"`
	ResultData map[string]string `json:"result_data,omitempty"`
}

type ErrorRequest struct {
	JobID        string `json:"job_id"`
	ErrorMessage string `json:"error_message"`
}

type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// StatusError is returned for non-2xx answers.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Body)
}

func New(cfg *config.Config, log *slog.Logger) *CrmClient {
	timeout := cfg.Clients.Crm.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CrmClient{
		url:        cfg.Clients.Crm.Url,
		token:      cfg.Clients.Crm.ApiToken,
		client:     &http.Client{Timeout: timeout},
		maxRetries: cfg.Clients.Crm.MaxRetries,
		backoff:    250 * time.Millisecond,
		log:        log,
	}
}

// CreateLeads pushes accepted leads of one job and returns how many the CRM stored.
func (this *CrmClient) CreateLeads(ctx context.Context, jobID string, leads []app.LeadCandidate) (int, error) {
	url := fmt.Sprintf("%s/api/leads/bulk", this.url)

	var resp APIResponse[json.RawMessage]
	if err := this.post(ctx, url, CreateLeadsRequest{JobID: jobID, Leads: leads}, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkJobSuccess reports a finished job together with its stats.
func (this *CrmClient) MarkJobSuccess(ctx context.Context, jobID string, stats app.ImportStats) error {
	url := fmt.Sprintf("%s/api/lead-import-jobs/mark-success", this.url)

	payload := SuccessRequest{
		JobID: jobID,
		Notes: fmt.Sprintf("imported %d of %d rows", stats.Imported, stats.TotalRows),
		ResultData: map[string]string{
			"total_rows": strconv.Itoa(stats.TotalRows),
			"imported":   strconv.Itoa(stats.Imported),
			"skipped":    strconv.Itoa(stats.Skipped),
			"duplicates": strconv.Itoa(stats.Duplicates),
		},
	}

	return this.post(ctx, url, payload, nil)
}

func (this *CrmClient) MarkJobFailed(ctx context.Context, jobID string, message string) error {
	url := fmt.Sprintf("%s/api/lead-import-jobs/mark-error", this.url)

	payload := ErrorRequest{
		JobID:        jobID,
		ErrorMessage: message,
	}

	return this.post(ctx, url, payload, nil)
}

// post retries network failures and 5xx answers; other statuses fail at once.
func (this *CrmClient) post(ctx context.Context, url string, payload any, out any) error {
	js, e := json.Marshal(payload)
	if e != nil {
		return eris.Wrap(e, "crm: marshal payload")
	}

	backoff := retry.WithMaxRetries(this.maxRetries, retry.NewExponential(this.backoff))
	e = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, e := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(js))
		if e != nil {
			return e
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if this.token != "" {
			req.Header.Set("Authorization", "Bearer "+this.token)
		}

		res, e := this.client.Do(req)
		if e != nil {
			this.log.Warn("crm request failed", "url", url, "error", e)
			return retry.RetryableError(e)
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			statusErr := &StatusError{Code: res.StatusCode, Body: string(body)}
			if res.StatusCode >= 500 {
				this.log.Warn("crm server error", "url", url, "status", res.StatusCode)
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		if out == nil {
			return nil
		}
		return json.NewDecoder(res.Body).Decode(out)
	})
	if e != nil {
		return eris.Wrapf(e, "crm: POST %s", url)
	}
	return nil
}
