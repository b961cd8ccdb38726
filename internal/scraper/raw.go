package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// rawBaseURL is the secondary, simpler raw-content transport used only as
// the content fetcher's fallback.
const rawBaseURL = "https://raw.githubusercontent.com"

// RawClient fetches plain file content over HTTP, bypassing the API.
type RawClient struct {
	http *resty.Client
}

// NewRawClient creates the fallback transport with a bounded per-request
// timeout.
func NewRawClient() *RawClient {
	client := resty.New().
		SetBaseURL(rawBaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", "skillscout")
	return &RawClient{http: client}
}

// Get retrieves a file by owner/repo/branch/path.
func (c *RawClient) Get(ctx context.Context, owner, repo, branch, path string) (string, error) {
	if branch == "" {
		branch = "main"
	}

	op := fmt.Sprintf("raw get %s/%s@%s/%s", owner, repo, branch, path)
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/%s/%s/%s/%s", owner, repo, branch, path))
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%s: status %d", op, resp.StatusCode())
	}
	return resp.String(), nil
}
