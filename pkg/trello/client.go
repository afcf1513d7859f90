package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"p9e.in/washreport/config"
	"p9e.in/washreport/models"
	"p9e.in/washreport/pkg/metrics"
)

// DefaultBaseURL is the public Trello REST API.
const DefaultBaseURL = "https://api.trello.com"

// Credentials authenticate against Trello and name the destination list.
type Credentials struct {
	APIKey string
	Token  string
	ListID string
}

func (c Credentials) missing() []string {
	var out []string
	if c.APIKey == "" {
		out = append(out, "TRELLO_API_KEY")
	}
	if c.Token == "" {
		out = append(out, "TRELLO_TOKEN")
	}
	if c.ListID == "" {
		out = append(out, "TRELLO_LIST_ID")
	}
	return out
}

// EnvCredentials reads the credentials from the process environment.
func EnvCredentials() Credentials {
	return Credentials{
		APIKey: strings.TrimSpace(os.Getenv("TRELLO_API_KEY")),
		Token:  strings.TrimSpace(os.Getenv("TRELLO_TOKEN")),
		ListID: strings.TrimSpace(os.Getenv("TRELLO_LIST_ID")),
	}
}

// CardRecord is the card Trello returns after creation.
type CardRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc"`
	IDList   string          `json:"idList"`
	URL      string          `json:"url"`
	ShortURL string          `json:"shortUrl"`
	Raw      json.RawMessage `json:"-"`
}

type Client struct {
	baseURL     string
	http        *http.Client
	credentials func() Credentials
	logger      *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCredentials replaces the environment lookup. fn is called once per
// card creation.
func WithCredentials(fn func() Credentials) Option {
	return func(c *Client) { c.credentials = fn }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		credentials: EnvCredentials,
		logger:      config.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createCardRequest struct {
	IDList string `json:"idList"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
}

// CreateCard posts one card to the configured list. Credentials are
// resolved before any network call. There is no idempotency key: retrying
// after a timeout may create a duplicate card.
func (c *Client) CreateCard(ctx context.Context, card models.Card) (*CardRecord, error) {
	creds := c.credentials()
	if missing := creds.missing(); len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	q := url.Values{}
	q.Set("key", creds.APIKey)
	q.Set("token", creds.Token)
	cardsURL := c.baseURL + "/1/cards"
	endpoint := cardsURL + "?" + q.Encode()

	payload, err := json.Marshal(createCardRequest{
		IDList: creds.ListID,
		Name:   card.Name,
		Desc:   strings.TrimSpace(card.Desc),
	})
	if err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.WithFields(logrus.Fields{
		"url":    cardsURL,
		"idList": creds.ListID,
		"name":   card.Name,
	}).Debug("creating trello card")

	resp, err := c.http.Do(req)
	if err != nil {
		// the query string carries the key and token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = cardsURL
		}
		return nil, fmt.Errorf("post card: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read card response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var rec CardRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode card response: %w", err)
	}
	rec.Raw = body
	return &rec, nil
}

// SubmitReport formats r and creates its card.
func (c *Client) SubmitReport(ctx context.Context, r models.Report) (*CardRecord, error) {
	start := time.Now()
	rec, err := c.CreateCard(ctx, models.NewCard(r))
	metrics.RecordSubmission(string(r.Category), resultOf(err), time.Since(start).Seconds())
	if err != nil {
		config.LogError(c.logger, "trello", "SubmitReport", "create card", logrus.Fields{
			"category":  r.Category,
			"storeName": r.StoreName,
		}, err)
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"cardId":   rec.ID,
		"category": r.Category,
	}).Info("trello card created")
	return rec, nil
}

func resultOf(err error) string {
	var cfgErr *ConfigurationError
	var subErr *SubmissionError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &cfgErr):
		return metrics.ResultConfigError
	case errors.As(err, &subErr):
		return metrics.ResultRemoteError
	default:
		return metrics.ResultTransportError
	}
}
