// Package predictor is the client of the external sepsis-risk classifier.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/gateway/httpclient"
)

var (
	ErrMissingCredential = errors.New("predictor: no credential configured")
	ErrMissingURL        = errors.New("predictor: model url is required")
	ErrEmptyPayload      = errors.New("predictor: payload must be a non-empty array")
	ErrMalformedResponse = errors.New("predictor: malformed response")
)

const (
	maxErrorBody    = 200
	maxResponseSize = 1 << 20
)

// HTTPError is a non-success response of the model endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("predictor: model request failed (%d): %s", e.StatusCode, e.Body)
}

type Config struct {
	URL     string
	Timeout time.Duration

	// Token is a static bearer token. When TokenURL is set the client
	// credentials grant is used instead.
	Token        string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

type Client struct {
	url  string
	http *http.Client
}

// Result is the outcome of one model call. Raw is the response document as
// received.
type Result struct {
	Prediction *int            `json:"prediction"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

type response struct {
	ProcessedData []struct {
		ID     string   `json:"id"`
		Sepsis *float64 `json:"sepsis"`
	} `json:"processed_data"`
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	base := httpclient.New(cfg.Timeout)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	var hc *http.Client
	switch {
	case cfg.TokenURL != "" && cfg.ClientID != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		hc = cc.Client(ctx)
	case cfg.Token != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	default:
		return nil, ErrMissingCredential
	}
	hc.Timeout = cfg.Timeout
	return &Client{url: cfg.URL, http: hc}, nil
}

// Predict scores a single feature record.
func (c *Client) Predict(ctx context.Context, record models.RiskFeatureRecord) (*int, error) {
	res, err := c.PredictBatch(ctx, []models.RiskFeatureRecord{record})
	if err != nil {
		return nil, err
	}
	return res.Prediction, nil
}

// PredictBatch posts records as one JSON array and reads the verdict of the
// first processed entry. Calls are never retried.
func (c *Client) PredictBatch(ctx context.Context, records []models.RiskFeatureRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrEmptyPayload
	}
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("predictor: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predictor: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("predictor: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: Truncate(string(raw), maxErrorBody)}
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	res := &Result{Raw: json.RawMessage(raw)}
	if len(decoded.ProcessedData) == 0 || decoded.ProcessedData[0].Sepsis == nil {
		return res, nil
	}
	v := *decoded.ProcessedData[0].Sepsis
	if math.IsNaN(v) || math.Trunc(v) != v {
		return nil, fmt.Errorf("%w: sepsis value %v is not an integer", ErrMalformedResponse, v)
	}
	p := int(v)
	res.Prediction = &p
	return res, nil
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
