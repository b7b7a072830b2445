package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CrawlConfig is immutable for the duration of one crawl run.
type CrawlConfig struct {
	SeedURL         string
	MaxDepth        int
	Concurrency     int
	RequestTimeout  time.Duration
	UserAgent       string
	ExcludePrefixes []string
	SkipDataImages  bool
	CleanupPrior    bool
	RunID           string
}

// Validate checks the config and fills derived defaults.
func (c *CrawlConfig) Validate() error {
	if c.SeedURL == "" {
		return errors.New("seed URL is required")
	}
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("seed URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("seed URL has no host")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	for i, p := range c.ExcludePrefixes {
		c.ExcludePrefixes[i] = strings.TrimSpace(p)
	}
	return nil
}

// DefaultUserAgent identifies the crawler to sites it visits.
const DefaultUserAgent = "webcensus/1.0 (+https://github.com/webcensus)"
