// Package akismet is a minimal client for the Akismet comment-spam
// classification REST API.
package akismet

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/loftlabs/loft/internal/pkg/env"
)

// Comment carries the candidate comment and the request metadata the
// classifier scores against.
type Comment struct {
	UserIP      string
	UserAgent   string
	Referrer    string
	Author      string
	AuthorEmail string
	Content     string
}

type Client struct {
	key        string
	blog       string
	baseURL    string // without the key subdomain, override in tests
	httpClient *http.Client
}

// NewClient builds a client for the given API key and blog URL. An empty
// key yields a client whose calls fail with an error, which the caller is
// expected to treat as "classification unavailable".
func NewClient(key, blog string) *Client {
	return &Client{
		key:        key,
		blog:       blog,
		baseURL:    fmt.Sprintf("https://%s.rest.akismet.com/1.1", key),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromEnv builds a client from AKISMET_API_KEY and SITE_URL.
func NewClientFromEnv() *Client {
	return NewClient(env.GetEnv("AKISMET_API_KEY", ""), env.GetEnv("SITE_URL", "http://localhost:4000/"))
}

// WithBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// CommentCheck reports whether the service classifies the comment as spam.
// Any transport or protocol failure is returned as an error so the caller
// can fail open.
func (c *Client) CommentCheck(comment Comment) (bool, error) {
	if c.key == "" {
		return false, fmt.Errorf("akismet API key is not set")
	}

	form := url.Values{
		"blog":                 {c.blog},
		"user_ip":              {comment.UserIP},
		"user_agent":           {comment.UserAgent},
		"referrer":             {comment.Referrer},
		"comment_type":         {"comment"},
		"comment_author":       {comment.Author},
		"comment_author_email": {comment.AuthorEmail},
		"comment_content":      {comment.Content},
	}

	body, err := c.post(c.baseURL+"/comment-check", form)
	if err != nil {
		return false, err
	}

	switch body {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("unexpected akismet response: %q", body)
}

// VerifyKey reports whether the configured API key is valid.
func (c *Client) VerifyKey() (bool, error) {
	if c.key == "" {
		return false, fmt.Errorf("akismet API key is not set")
	}

	form := url.Values{
		"key":  {c.key},
		"blog": {c.blog},
	}

	body, err := c.post(c.baseURL+"/verify-key", form)
	if err != nil {
		return false, err
	}
	return body == "valid", nil
}

func (c *Client) post(endpoint string, form url.Values) (string, error) {
	resp, err := c.httpClient.PostForm(endpoint, form)
	if err != nil {
		return "", fmt.Errorf("failed to reach akismet API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("akismet API returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read akismet API response: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
