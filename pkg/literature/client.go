// Package literature looks up supporting PubMed abstracts through the NCBI
// E-utilities.
package literature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/gateway/httpclient"
)

const (
	DefaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultMaxResults = 3
	MaxResultsLimit   = 5

	maxErrorBody    = 200
	maxResponseSize = 4 << 20
)

var ErrMalformedResponse = errors.New("literature: malformed response")

// HTTPError is a non-success response of the search endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("literature: search failed (%d): %s", e.StatusCode, e.Body)
}

type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Result struct {
	Summary string `json:"summary"`
	Items   []Item `json:"items"`
}

// Searcher is satisfied by Client and by the cached wrapper.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (*Result, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{baseURL: base, apiKey: cfg.APIKey, http: httpclient.New(cfg.Timeout)}
}

// ClampMaxResults bounds n to [1, MaxResultsLimit]; zero selects the default.
func ClampMaxResults(n int) int {
	switch {
	case n == 0:
		return DefaultMaxResults
	case n < 1:
		return 1
	case n > MaxResultsLimit:
		return MaxResultsLimit
	}
	return n
}

// Search finds up to maxResults articles for query. An empty query or an
// empty hit list yields an empty result. Title and abstract lookups run in
// parallel; a failed lookup leaves its half of the result empty.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{}, nil
	}
	maxResults = ClampMaxResults(maxResults)

	ids, err := c.search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &Result{}, nil
	}

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.titles(gctx, ids)
		if err != nil {
			return err
		}
		res.Items = items
		return nil
	})
	g.Go(func() error {
		res.Summary = c.abstracts(gctx, ids, maxResults)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := c.params()
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("term", query)

	body, status, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &HTTPError{StatusCode: status, Body: truncate(string(body), maxErrorBody)}
	}

	var decoded struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: esearch: %v", ErrMalformedResponse, err)
	}
	return decoded.ESearchResult.IDList, nil
}

// titles keeps the order of ids and drops untitled entries.
func (c *Client) titles(ctx context.Context, ids []string) ([]Item, error) {
	params := c.params()
	params.Set("id", strings.Join(ids, ","))

	body, status, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil || status < 200 || status >= 300 {
		logger.Log.WithError(err).WithField("status", status).Warn("Literature summary lookup failed")
		return nil, nil
	}

	var decoded struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: esummary: %v", ErrMalformedResponse, err)
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		raw, ok := decoded.Result[id]
		if !ok {
			continue
		}
		var doc struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		title := strings.TrimSpace(doc.Title)
		if title == "" {
			continue
		}
		items = append(items, Item{ID: id, Title: title, URL: ArticleURL(id)})
	}
	return items, nil
}

func (c *Client) abstracts(ctx context.Context, ids []string, maxResults int) string {
	form := c.params()
	form.Set("rettype", "abstract")
	form.Set("retmode", "text")
	form.Set("id", strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/efetch.fcgi", strings.NewReader(form.Encode()))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, status, err := c.do(req)
	if err != nil || status < 200 || status >= 300 {
		logger.Log.WithError(err).WithField("status", status).Warn("Literature abstract lookup failed")
		return ""
	}
	return Paragraphs(string(body), maxResults)
}

func (c *Client) params() url.Values {
	v := url.Values{}
	v.Set("db", "pubmed")
	v.Set("retmode", "json")
	if c.apiKey != "" {
		v.Set("api_key", c.apiKey)
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("literature: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("literature: read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

var blankLines = regexp.MustCompile(`\n{2,}`)

// Paragraphs returns the first n non-empty blocks of text separated by
// blank lines, rejoined with one blank line.
func Paragraphs(text string, n int) string {
	var out []string
	for _, block := range blankLines.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		if block = strings.TrimSpace(block); block == "" {
			continue
		}
		out = append(out, block)
		if len(out) == n {
			break
		}
	}
	return strings.Join(out, "\n\n")
}

func ArticleURL(pmid string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
