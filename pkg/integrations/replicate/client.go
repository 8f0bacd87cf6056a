package replicate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/draddo11/Holiday/pkg/httputil"
	"github.com/draddo11/Holiday/pkg/integrations"
)

// BackgroundRemover is the model travelsnap runs for both segmentation
// and background swaps. With "background_type" set to "rgba" it returns
// the subject on a transparent background; with an image it composites
// the subject onto that image.
const BackgroundRemover = "851-labs/background-remover:8b27177f326f073504ad023879497504576f666775211717107735f7862a051a"

// BackgroundRGBA asks [BackgroundRemover] for a transparent background.
const BackgroundRGBA = "rgba"

const (
	defaultBaseURL      = "https://api.replicate.com/v1"
	defaultPollInterval = time.Second
)

// Prediction statuses.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Prediction is a model run.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

// Done reports whether the prediction reached a terminal status.
func (p *Prediction) Done() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// OutputURL returns the first output URL. Models return either a single
// URL or a list of them.
func (p *Prediction) OutputURL() (string, error) {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return "", fmt.Errorf("prediction %s returned no output", p.ID)
	}
	var one string
	if err := json.Unmarshal(p.Output, &one); err == nil && one != "" {
		return one, nil
	}
	var many []string
	if err := json.Unmarshal(p.Output, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0], nil
	}
	return "", fmt.Errorf("prediction %s: unexpected output %s", p.ID, truncate(string(p.Output), 80))
}

// Client runs predictions.
//
// All methods are safe for concurrent use; calls are spaced by the
// shared throttle.
type Client struct {
	*integrations.Client
	baseURL      string
	token        string
	throttle     *httputil.Throttle
	pollInterval time.Duration
}

// NewClient creates a client authenticated with token. The throttle may be
// nil for no spacing. A timeout of zero uses 60 seconds, which covers a
// synchronous "Prefer: wait" run.
func NewClient(token string, throttle *httputil.Throttle, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := integrations.NewClient(nil, "replicate:", 0, map[string]string{
		"Authorization": "Bearer " + token,
	})
	c.SetHTTPClient(integrations.NewHTTPClientWithTimeout(timeout))
	return &Client{
		Client:       c,
		baseURL:      defaultBaseURL,
		token:        token,
		throttle:     throttle,
		pollInterval: defaultPollInterval,
	}
}

// SetBaseURL points the client at another API root, such as a test server.
func (c *Client) SetBaseURL(url string) { c.baseURL = strings.TrimRight(url, "/") }

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool { return c != nil && c.token != "" }

// Run creates a prediction for model ("owner/name:version" or a bare
// version id) and waits for it to finish. A failed or canceled
// prediction is returned as an error.
func (c *Client) Run(ctx context.Context, model string, input map[string]any) (*Prediction, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: replicate token missing", integrations.ErrNotConfigured)
	}
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	req := map[string]any{"version": Version(model), "input": input}
	var pred Prediction
	if err := c.PostJSON(ctx, c.baseURL+"/predictions", map[string]string{"Prefer": "wait"}, req, &pred); err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}

	for !pred.Done() {
		if err := sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
		url := pred.URLs.Get
		if url == "" {
			url = c.baseURL + "/predictions/" + pred.ID
		}
		if err := httputil.RetryWithBackoff(ctx, func() error {
			return c.Get(ctx, url, &pred)
		}); err != nil {
			return nil, fmt.Errorf("poll prediction %s: %w", pred.ID, err)
		}
	}

	if pred.Status != StatusSucceeded {
		return &pred, fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error)
	}
	return &pred, nil
}

// Version extracts the version id from "owner/name:version".
func Version(model string) string {
	if _, v, ok := strings.Cut(model, ":"); ok {
		return v
	}
	return model
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
