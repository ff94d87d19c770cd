package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/internal/domain/types"
	"github.com/resicentral/resicentral/pkg/logger"
)

const (
	headerUserID         = "X-User-ID"
	headerIdempotencyKey = "Idempotency-Key"
)

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeMismatch
	outcomeFailed
)

// HTTPClient wraps http.Client for the service API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	userID  string
}

func newHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: config.BaseURL,
		userID:  config.UserID,
	}
}

// get performs a GET request and decodes a 200 JSON body into out when
// out is non-nil.
func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerUserID, c.userID)
	return c.do(req, out)
}

// evaluate posts one case and decodes the evaluation.
func (c *HTTPClient) evaluate(ctx context.Context, tc Case) (types.Evaluation, error) {
	var ev types.Evaluation
	body, err := json.Marshal(map[string]any{"inputs": tc.Inputs})
	if err != nil {
		return ev, fmt.Errorf("failed to marshal request body: %w", err)
	}
	target := c.baseURL + "/calculators/" + url.PathEscape(tc.Calculator) + "/evaluate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return ev, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, c.userID)
	req.Header.Set(headerIdempotencyKey, tc.ID)
	err = c.do(req, &ev)
	return ev, err
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// history fetches the caller's newest limit calculations.
func (c *HTTPClient) history(ctx context.Context, limit int) ([]model.Calculation, error) {
	var out []model.Calculation
	err := c.get(ctx, "/history?limit="+strconv.Itoa(limit), &out)
	return out, err
}

// submitCases posts cases concurrently and compares every response with
// its expected result.
func submitCases(ctx context.Context, config *Config, client *HTTPClient, cases []Case, stats *Stats) {
	logger.Get().Info(ctx, "submitting cases", logger.Int("cases", len(cases)), logger.Int("workers", config.Workers))

	var (
		submitted  int64
		successful int64
		recorded   int64
		mismatched int64
		failed     int64
	)

	caseChan := make(chan Case, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tc := range caseChan {
				if ctx.Err() != nil {
					return
				}
				result, wasRecorded := submitSingleCase(ctx, config, client, tc)
				atomic.AddInt64(&submitted, 1)
				switch result {
				case outcomeSuccess:
					atomic.AddInt64(&successful, 1)
				case outcomeMismatch:
					atomic.AddInt64(&mismatched, 1)
				case outcomeFailed:
					atomic.AddInt64(&failed, 1)
				}
				if wasRecorded {
					atomic.AddInt64(&recorded, 1)
				}
			}
		}()
	}

	go func() {
		defer close(caseChan)
		for _, tc := range cases {
			select {
			case <-ctx.Done():
				return
			case caseChan <- tc:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Recorded = int(atomic.LoadInt64(&recorded))
	stats.Mismatched = int(atomic.LoadInt64(&mismatched))
	stats.Failed = int(atomic.LoadInt64(&failed))
}

func submitSingleCase(ctx context.Context, config *Config, client *HTTPClient, tc Case) (outcome, bool) {
	ev, err := client.evaluate(ctx, tc)
	if err != nil {
		if config.Verbose {
			logger.Get().Warn(ctx, "evaluation failed",
				logger.String("calculator", tc.Calculator),
				logger.String("case", tc.ID),
				logger.Error(err))
		}
		return outcomeFailed, false
	}
	if reason := compare(tc, ev); reason != "" {
		if config.Verbose {
			logger.Get().Warn(ctx, "result mismatch",
				logger.String("calculator", tc.Calculator),
				logger.String("case", tc.ID),
				logger.String("reason", reason),
				logger.Any("inputs", tc.Inputs))
		}
		return outcomeMismatch, ev.Recorded
	}
	return outcomeSuccess, ev.Recorded
}

// compare returns why ev differs from the expected result, or "" when it
// matches.
func compare(tc Case, ev types.Evaluation) string {
	got, want := ev.Result, tc.Expected
	switch {
	case ev.Calculator != tc.Calculator:
		return fmt.Sprintf("calculator %q, want %q", ev.Calculator, tc.Calculator)
	case math.Abs(got.Score-want.Score) > scoreTolerance:
		return fmt.Sprintf("score %v, want %v", got.Score, want.Score)
	case got.Risk != want.Risk:
		return fmt.Sprintf("risk %s, want %s", got.Risk, want.Risk)
	case got.Interpretation != want.Interpretation:
		return "interpretation differs"
	case ev.ID == "":
		return "missing calculation id"
	}
	return ""
}
