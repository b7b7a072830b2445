package crawler

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// Redirects are followed transparently up to this cap; at the cap the last
// response is reported as the final one instead of erroring.
const maxRedirects = 5

// maxBodyBytes bounds how much of a page we read for link extraction.
const maxBodyBytes = 10 << 20

const connectTimeout = 10 * time.Second

// FetchResult is the outcome of one HTTP request. Non-2xx statuses are
// normal results, not errors.
type FetchResult struct {
	Status      int
	FinalURL    string
	ContentType string
	Redirected  bool
	Body        []byte
}

// Fetcher issues the crawl's HTTP requests with a per-request deadline,
// a redirect cap and the configured User-Agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds a fetcher with explicit connect and total timeouts so a
// hung request releases its worker slot.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: timeout,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Do performs one request. method is GET for full-body fetches or HEAD for
// existence checks. When a status was obtained before a later failure (e.g.
// a body read error) the partial result is returned alongside the error.
func (f *Fetcher) Do(ctx context.Context, rawURL, method string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	res := FetchResult{
		Status:      resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}
	res.Redirected = res.FinalURL != rawURL

	if method == http.MethodGet {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return res, err
		}
		res.Body = body
	}
	return res, nil
}
