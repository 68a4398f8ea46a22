// Package enrich talks to the optional external postcode-lookup
// collaborator. Results are confidence scored by the collaborator; anything
// below the configured threshold is discarded here so low-quality guesses
// never reach the seed curators.
package enrich

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"EquiSync/internal/config"
	"EquiSync/internal/venue"

	"github.com/sirupsen/logrus"
)

// Hint is an admissible postcode suggestion for one venue name.
type Hint struct {
	Postcode   string  `json:"postcode"`
	Confidence float64 `json:"confidence"`
}

// Lookup is the enrichment client. Disabled (every call returns nil) when no
// base URL is configured.
type Lookup struct {
	cfg    *config.EnrichConfig
	client *http.Client
	logger *logrus.Logger
}

func NewLookup(cfg *config.EnrichConfig, logger *logrus.Logger) *Lookup {
	return &Lookup{
		cfg:    cfg,
		client: newHTTPClient(cfg, logger),
		logger: logger,
	}
}

// PostcodeHint queries the collaborator for "<venue name> postcode". Returns
// nil when the lookup is disabled, the result is below the confidence
// threshold, or the suggested postcode is malformed.
func (l *Lookup) PostcodeHint(ctx context.Context, venueName string) (*Hint, error) {
	if l.cfg.BaseURL == "" {
		return nil, nil
	}

	u, err := url.Parse(l.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse enrich base url: %w", err)
	}
	q := u.Query()
	q.Set("q", venueName+" postcode")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postcode lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postcode lookup: unexpected status %d", resp.StatusCode)
	}

	var hint Hint
	if err := json.NewDecoder(resp.Body).Decode(&hint); err != nil {
		return nil, fmt.Errorf("postcode lookup: decode response: %w", err)
	}

	if hint.Confidence < l.cfg.ConfidenceThreshold {
		l.logger.WithFields(logrus.Fields{
			"venue":      venueName,
			"confidence": hint.Confidence,
		}).Info("enrich: hint below confidence threshold, discarded")
		return nil, nil
	}
	formatted := venue.FormatPostcode(hint.Postcode)
	if formatted == "" {
		l.logger.WithFields(logrus.Fields{
			"venue":    venueName,
			"postcode": hint.Postcode,
		}).Warn("enrich: hint postcode malformed, discarded")
		return nil, nil
	}
	hint.Postcode = formatted
	return &hint, nil
}

// newHTTPClient builds the lookup transport: optional proxy, timeout from
// config, transparent gzip decompression.
func newHTTPClient(cfg *config.EnrichConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("enrich: bad proxy address, ignoring")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Client{
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Transport: &compressedTransport{transport: transport, logger: logger},
	}
}

type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("enrich: gzip decode failed, returning raw body")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{Reader: gzReader, closer: resp.Body}
		resp.Header.Del("Content-Encoding")
	}
	return resp, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		return err
	}
	return g.closer.Close()
}
