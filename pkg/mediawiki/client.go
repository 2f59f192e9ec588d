package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrPageNotFound indicates the requested page does not exist on the wiki.
var ErrPageNotFound = errors.New("page not found")

// Revision describes a single page revision.
type Revision struct {
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// Config holds the connection settings for a MediaWiki action API endpoint.
type Config struct {
	APIEndpoint string
	UserAgent   string
	Timeout     time.Duration
}

// Client talks to a MediaWiki installation through its action API. Retry and
// batching policy is deliberately left to callers.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	logger    zerolog.Logger
}

// New constructs a MediaWiki client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf("mediawiki api endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Fountain"
	}

	return &Client{
		endpoint:  cfg.APIEndpoint,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    logger.With().Str("component", "mediawiki_client").Logger(),
	}, nil
}

type queryResponse struct {
	Query struct {
		Pages []struct {
			Missing    bool   `json:"missing"`
			Length     int64  `json:"length"`
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
			Revisions []struct {
				User      string    `json:"user"`
				Timestamp time.Time `json:"timestamp"`
				Slots     struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (c *Client) query(ctx context.Context, params url.Values) (*queryResponse, error) {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mediawiki query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mediawiki query returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode mediawiki response: %w", err)
	}

	if decoded.Error != nil {
		return nil, fmt.Errorf("mediawiki error %s: %s", decoded.Error.Code, decoded.Error.Info)
	}

	return &decoded, nil
}

func (c *Client) queryPage(ctx context.Context, title string, params url.Values) (*queryResponse, error) {
	params.Set("titles", title)
	decoded, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(decoded.Query.Pages) == 0 {
		return nil, ErrPageNotFound
	}
	if decoded.Query.Pages[0].Missing {
		return nil, ErrPageNotFound
	}
	return decoded, nil
}

// GetPage fetches the current wikitext of a page. Returns ErrPageNotFound
// when the page does not exist.
func (c *Client) GetPage(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")
	params.Set("rvlimit", "1")

	decoded, err := c.queryPage(ctx, title, params)
	if err != nil {
		return "", err
	}

	revisions := decoded.Query.Pages[0].Revisions
	if len(revisions) == 0 {
		return "", ErrPageNotFound
	}
	return revisions[0].Slots.Main.Content, nil
}

// GetByteLength fetches the byte length of a page.
func (c *Client) GetByteLength(ctx context.Context, title string) (int64, error) {
	params := url.Values{}
	params.Set("prop", "info")

	decoded, err := c.queryPage(ctx, title, params)
	if err != nil {
		return 0, err
	}
	return decoded.Query.Pages[0].Length, nil
}

// GetCategories fetches the category titles a page belongs to.
func (c *Client) GetCategories(ctx context.Context, title string) ([]string, error) {
	params := url.Values{}
	params.Set("prop", "categories")
	params.Set("cllimit", "max")

	decoded, err := c.queryPage(ctx, title, params)
	if err != nil {
		return nil, err
	}

	page := decoded.Query.Pages[0]
	categories := make([]string, 0, len(page.Categories))
	for _, cat := range page.Categories {
		categories = append(categories, strings.TrimPrefix(cat.Title, "Category:"))
	}
	return categories, nil
}

// GetRevisionCount counts the revisions of a page.
func (c *Client) GetRevisionCount(ctx context.Context, title string) (int64, error) {
	params := url.Values{}
	params.Set("prop", "revisions")
	params.Set("rvprop", "ids")
	params.Set("rvlimit", "max")

	decoded, err := c.queryPage(ctx, title, params)
	if err != nil {
		return 0, err
	}
	return int64(len(decoded.Query.Pages[0].Revisions)), nil
}

// GetFirstRevision fetches the oldest revision of a page.
func (c *Client) GetFirstRevision(ctx context.Context, title string) (Revision, error) {
	params := url.Values{}
	params.Set("prop", "revisions")
	params.Set("rvprop", "user|timestamp")
	params.Set("rvdir", "newer")
	params.Set("rvlimit", "1")

	decoded, err := c.queryPage(ctx, title, params)
	if err != nil {
		return Revision{}, err
	}

	revisions := decoded.Query.Pages[0].Revisions
	if len(revisions) == 0 {
		return Revision{}, ErrPageNotFound
	}
	return Revision{User: revisions[0].User, Timestamp: revisions[0].Timestamp}, nil
}

// EditPage writes new wikitext to a page with the given change summary.
func (c *Client) EditPage(ctx context.Context, title, text, summary string) error {
	form := url.Values{}
	form.Set("action", "edit")
	form.Set("format", "json")
	form.Set("title", title)
	form.Set("text", text)
	form.Set("summary", summary)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mediawiki edit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mediawiki edit returned status %d", resp.StatusCode)
	}

	var result struct {
		Edit struct {
			Result string `json:"result"`
		} `json:"edit"`
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode mediawiki edit response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("mediawiki error %s: %s", result.Error.Code, result.Error.Info)
	}
	if !strings.EqualFold(result.Edit.Result, "success") {
		c.logger.Warn().Str("title", title).Str("result", result.Edit.Result).Msg("edit not confirmed")
		return fmt.Errorf("mediawiki edit result: %s", result.Edit.Result)
	}

	return nil
}
