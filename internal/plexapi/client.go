// Package plexapi reads a library from a running Plex Media Server over its
// XML HTTP API.
//
// Listing endpoints return abbreviated items (a few genres, no alternate
// ids), so movies, shows and artists implement media.Loader and fetch their
// full metadata document when the exporter asks for them. Season, episode,
// album and track enumeration goes through the children/allLeaves endpoints.
package plexapi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds each request when no HTTP client is supplied
const DefaultTimeout = 10 * time.Second

const productName = "plexport"

// ErrUnauthorized is returned when the server rejects the token
var ErrUnauthorized = errors.New("plex rejected the token (401 unauthorized)")

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Client
type Options struct {
	URL      string
	Token    string
	ClientID string
	Timeout  time.Duration
	HTTP     HTTPDoer
}

// Client talks to one Plex Media Server
type Client struct {
	baseURL  string
	token    string
	clientID string
	http     HTTPDoer
}

// New constructs a client; the server is not contacted until the first call
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid plex url %q", opts.URL)
	}
	doer := opts.HTTP
	if doer == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}
	clientID := opts.ClientID
	if clientID == "" {
		clientID = productName
	}
	return &Client{
		baseURL:  base,
		token:    strings.TrimSpace(opts.Token),
		clientID: clientID,
		http:     doer,
	}, nil
}

// Server identifies the connected server
type Server struct {
	Name    string
	Version string
}

// Ping fetches the server root, verifying the URL and token
func (c *Client) Ping(ctx context.Context) (*Server, error) {
	var root struct {
		FriendlyName string `xml:"friendlyName,attr"`
		Version      string `xml:"version,attr"`
	}
	if err := c.get(ctx, "/", nil, &root); err != nil {
		return nil, err
	}
	return &Server{Name: root.FriendlyName, Version: root.Version}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build plex request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Platform", runtime.GOOS)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode plex %s: %w", path, err)
	}
	return nil
}
