package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// DefaultPollInterval is the wait between two status checks.
const DefaultPollInterval = 3 * time.Second

// ValidateUUID rejects identifiers that are not UUIDs before they reach
// the API.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.Usagef("Invalid analysis UUID %q", id)
	}
	return nil
}

// Submit sends one job for analysis in the given mode.
func (c *Client) Submit(ctx context.Context, job model.Job, mode string) (*model.Analysis, error) {
	s := Submission{Data: job}
	if mode != "" {
		s.Data.AnalysisMode = mode
	}
	for _, m := range c.middlewares {
		m(&s)
	}
	c.log.Debug("submitting analysis", zap.String("contract", job.ContractName), zap.String("mode", mode))
	var out model.Analysis
	if err := c.do(ctx, request{method: http.MethodPost, path: "/v1/analyses", body: s}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalysisStatus(ctx context.Context, id string) (*model.Analysis, error) {
	var out model.Analysis
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analyses/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisReady reports whether the analysis finished. An analysis in the
// Error state yields ErrAnalysisFailed.
func (c *Client) AnalysisReady(ctx context.Context, id string) (bool, error) {
	a, err := c.AnalysisStatus(ctx, id)
	if err != nil {
		return false, err
	}
	switch a.Status {
	case model.StatusFinished:
		return true, nil
	case model.StatusError:
		return false, fmt.Errorf("%w: %s: %s", ErrAnalysisFailed, id, a.Error)
	}
	return false, nil
}

// WaitForAnalysis polls until the analysis is ready or ctx is done.
func (c *Client) WaitForAnalysis(ctx context.Context, id string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		ready, err := c.AnalysisReady(ctx, id)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		c.log.Debug("analysis not ready", zap.String("uuid", id), zap.Duration("interval", interval))
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// Report fetches the detected issues of a finished analysis.
func (c *Client) Report(ctx context.Context, id string) (*model.DetectedIssues, error) {
	var reports []model.IssueReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analyses/" + url.PathEscape(id) + "/issues"}, &reports); err != nil {
		return nil, err
	}
	return &model.DetectedIssues{UUID: id, Reports: reports}, nil
}

// Input fetches the request an analysis was submitted with.
func (c *Client) Input(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analyses/" + url.PathEscape(id) + "/input"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkCount(n int) error {
	if n < 1 || n > 100 {
		return model.Usagef("Number of items must be between 1 and 100, got %d", n)
	}
	return nil
}

// ListAnalyses returns the n most recent analyses, optionally restricted to
// a group.
func (c *Client) ListAnalyses(ctx context.Context, n int, groupID string) (*model.AnalysisList, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	result := &model.AnalysisList{}
	for len(result.Analyses) < n {
		q := url.Values{"offset": {strconv.Itoa(len(result.Analyses))}}
		if groupID != "" {
			q.Set("groupId", groupID)
		}
		var page model.AnalysisList
		if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/analyses", query: q}, &page); err != nil {
			return nil, err
		}
		result.Total = page.Total
		if len(page.Analyses) == 0 {
			break
		}
		result.Analyses = append(result.Analyses, page.Analyses...)
	}
	if len(result.Analyses) > n {
		result.Analyses = result.Analyses[:n]
	}
	return result, nil
}
