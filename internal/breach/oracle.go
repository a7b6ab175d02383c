// Package breach queries a remote leak-check service with a split SHA-1
// digest of a candidate password. The plaintext and the joined digest never
// leave the process.
package breach

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "passvault/internal/errors"
	"passvault/internal/logging"
	"passvault/internal/telemetry"
)

const (
	// PrefixLength is the number of hex characters sent as hashPrefix.
	PrefixLength = 10
	// ClientVersion is sent in the X-Client-Version header.
	ClientVersion = "1.0.0"

	maxResponseBytes = 1 << 20
)

// Request is the outbound payload.
type Request struct {
	HashPrefix string `json:"hashPrefix"`
	HashSuffix string `json:"hashSuffix"`
}

// Result is the verdict returned to callers; omitted fields default to false/0.
type Result struct {
	IsLeaked    bool `json:"isLeaked"`
	BreachCount int  `json:"breachCount"`
}

// Checker answers whether a password has appeared in a breach.
type Checker interface {
	CheckPassword(ctx context.Context, candidate string) (*Result, error)
}

// Client is the HTTP implementation of Checker.
type Client struct {
	endpoint string
	http     *http.Client
	log      logging.Logger
}

var _ Checker = (*Client)(nil)

// NewClient builds a client posting to endpoint with the given timeout.
func NewClient(endpoint string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// SplitDigest returns the upper-cased SHA-1 hex digest of candidate split
// into the first PrefixLength characters and the rest.
func SplitDigest(candidate string) Request {
	sum := sha1.Sum([]byte(candidate))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return Request{
		HashPrefix: digest[:PrefixLength],
		HashSuffix: digest[PrefixLength:],
	}
}

// CheckPassword makes a single attempt against the remote service. Any
// transport failure, non-2xx answer or undecodable body is ErrUpstream.
func (c *Client) CheckPassword(ctx context.Context, candidate string) (*Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "breach.CheckPassword",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.check(ctx, SplitDigest(candidate))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "breach check failed")
		c.log.Warn(ctx, "breach check failed", "err", err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("breach.leaked", res.IsLeaked))
	return res, nil
}

func (c *Client) check(ctx context.Context, payload Request) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", apperrors.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Version", ClientVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var out Result
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrUpstream, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstream, err)
	}
	return &out, nil
}
