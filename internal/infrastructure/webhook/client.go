package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"govtjobs/internal/logger"

	"github.com/sirupsen/logrus"
)

const (
	HeaderInternalToken   = "X-Internal-Token"
	scrapeCompletedPath   = "/api/v1/internal/scrape-completed"
	defaultRequestTimeout = 5 * time.Second
)

// Completion is the body of the scrape-completed callback.
type Completion struct {
	RunID       string    `json:"runId"`
	Source      string    `json:"source"`
	Count       int       `json:"count"`
	CompletedAt time.Time `json:"completedAt"`
}

type Notifier interface {
	ScrapeCompleted(ctx context.Context, c Completion) error
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  logrus.FieldLogger
}

// NewClient returns nil when baseURL is empty; callers treat a nil Notifier
// as "nobody to tell".
func NewClient(baseURL, token string, log logrus.FieldLogger) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger.OrDiscard(log),
	}
}

// WithHTTPClient swaps the transport (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if c != nil && hc != nil {
		c.client = hc
	}
	return c
}

func (c *Client) ScrapeCompleted(ctx context.Context, comp Completion) error {
	if c == nil {
		return errors.New("nil webhook client")
	}
	endpoint := c.baseURL + scrapeCompletedPath

	if comp.CompletedAt.IsZero() {
		comp.CompletedAt = time.Now()
	}
	comp.CompletedAt = comp.CompletedAt.UTC().Truncate(time.Second)
	b, err := json.Marshal(comp)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(HeaderInternalToken, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode, "body": bodyStr}).
			Warn("[Webhook] scrape-completed rejected")
		return fmt.Errorf("scrape-completed webhook: status=%d", resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}

var _ Notifier = (*Client)(nil)
