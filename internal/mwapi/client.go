// Package mwapi is the HTTP client for the two remote services a run
// depends on: the SPARQL query service and the MediaWiki action API.
// It owns transport concerns only; callers parse entity payloads and
// decide how lookup failures degrade.
package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "wdlist/1.0"

// Client talks to one wiki's action API and one SPARQL endpoint.
type Client struct {
	http           *http.Client
	apiURL         string
	sparqlEndpoint string
	userAgent      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for
// tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the given action API and SPARQL endpoint
// URLs.
func New(apiURL, sparqlEndpoint string, opts ...Option) *Client {
	c := &Client{
		http:           &http.Client{Timeout: 60 * time.Second},
		apiURL:         apiURL,
		sparqlEndpoint: sparqlEndpoint,
		userAgent:      defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunSparql executes a SPARQL query and returns the raw JSON result
// document.
func (c *Client) RunSparql(ctx context.Context, query string) ([]byte, error) {
	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.sparqlEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql query: %w", err)
	}
	return body, nil
}

// FetchEntityJSON calls wbgetentities for a batch of ids and returns
// the raw response for the wikibase decoder.
func (c *Client) FetchEntityJSON(ctx context.Context, ids []string) ([]byte, error) {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", strings.Join(ids, "|"))
	params.Set("props", "labels|descriptions|sitelinks/urls|claims|datatype")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("wbgetentities: %w", err)
	}
	return body, nil
}

// PageExists reports whether a page with the given title exists on
// the wiki.
func (c *Client) PageExists(ctx context.Context, title string) (bool, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return false, fmt.Errorf("page query %q: %w", title, err)
	}

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Missing *string `json:"missing"`
				Invalid *string `json:"invalid"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("decode page query %q: %w", title, err)
	}
	for id, page := range resp.Query.Pages {
		if strings.HasPrefix(id, "-") || page.Missing != nil || page.Invalid != nil {
			return false, nil
		}
		return true, nil
	}
	return false, nil
}

// ImageIsShared reports whether the named file page is served from
// the shared media repository rather than a local upload.
func (c *Client) ImageIsShared(ctx context.Context, title string) (bool, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "imageinfo")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return false, fmt.Errorf("imageinfo query %q: %w", title, err)
	}

	var resp struct {
		Query struct {
			Pages map[string]struct {
				ImageRepository string `json:"imagerepository"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("decode imageinfo %q: %w", title, err)
	}
	for _, page := range resp.Query.Pages {
		return page.ImageRepository == "shared", nil
	}
	return false, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	slog.Debug("http request",
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
