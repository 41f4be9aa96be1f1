// Package oracle calls an external relevance-scoring model over HTTP. The
// oracle returns free text containing a numeric relevance score; any
// transport or parsing failure degrades to a neutral score rather than
// failing the search.
package oracle

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hybridrank/hybridrank/internal/corpus"
	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

// NeutralScore is returned whenever the oracle cannot produce a usable
// score. It keeps a failed candidate ranked by its remaining signals.
const NeutralScore = 0.5

// Scorer scores a candidate document's relevance to a query. The returned
// score is always in [0, 1] and always usable; a non-nil error only
// signals that the neutral fallback was applied.
type Scorer interface {
	ScoreRelevance(ctx context.Context, text, query string) (float64, error)
	ScoreRelevanceWithContext(ctx context.Context, text, query string, contextDocs []corpus.Document) (float64, error)
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	Model     string
	APIKey    string
	Timeout   time.Duration
	CacheSize int
	Logger    *slog.Logger
}

// Client is an HTTP Scorer backed by an Anthropic-style messages endpoint.
// Scores are cached per (query, document) pair.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	cache      *lru.Cache[string, float64]
	logger     *slog.Logger
}

// NewClient creates a relevance-scoring client. A zero timeout defaults to
// 15 seconds; the timeout doubles as the per-call deadline.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 512
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, _ := lru.New[string, float64](opts.CacheSize)
	return &Client{
		endpoint:   opts.Endpoint,
		model:      opts.Model,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      cache,
		logger:     opts.Logger,
	}
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ScoreRelevance scores one candidate against the query. Any failure is
// logged and degrades to NeutralScore with a non-nil error describing what
// went wrong.
func (c *Client) ScoreRelevance(ctx context.Context, text, query string) (float64, error) {
	key := cacheKey(query, text)
	if score, ok := c.cache.Get(key); ok {
		return score, nil
	}

	response, err := c.complete(ctx, relevancePrompt(text, query), 250)
	if err != nil {
		c.logger.Warn("oracle call failed, using neutral score", "error", err)
		return NeutralScore, err
	}

	score := parseScore(response)
	c.cache.Add(key, score)
	return score, nil
}

// ScoreRelevanceWithContext scores the candidate considering up to two
// neighboring documents. With no context docs it behaves exactly like
// ScoreRelevance; on failure it retries without context before degrading.
func (c *Client) ScoreRelevanceWithContext(ctx context.Context, text, query string, contextDocs []corpus.Document) (float64, error) {
	if len(contextDocs) == 0 {
		return c.ScoreRelevance(ctx, text, query)
	}

	response, err := c.complete(ctx, contextPrompt(text, query, contextDocs), 150)
	if err != nil {
		c.logger.Warn("oracle context call failed, retrying without context", "error", err)
		return c.ScoreRelevance(ctx, text, query)
	}

	if score, ok := firstNumber(response); ok {
		return clamp(score), nil
	}
	return NeutralScore, nil
}

// complete performs one messages-API round trip and returns the text of
// the first content block.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: 0.1,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", rerrors.InternalError("failed to encode oracle request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", rerrors.InternalError("failed to build oracle request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", rerrors.New(rerrors.ErrCodeOracleTimeout, "oracle request timed out", err)
		}
		return "", rerrors.New(rerrors.ErrCodeOracleUnavailable, "oracle request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", rerrors.New(rerrors.ErrCodeOracleResponse, "failed to read oracle response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", rerrors.New(rerrors.ErrCodeOracleUnavailable,
			fmt.Sprintf("oracle returned status %d", resp.StatusCode), nil).
			WithDetail("body", truncate(string(raw), 200))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", rerrors.New(rerrors.ErrCodeOracleResponse, "failed to decode oracle response", err)
	}
	if parsed.Error != nil {
		return "", rerrors.New(rerrors.ErrCodeOracleResponse,
			fmt.Sprintf("oracle error: %s", parsed.Error.Message), nil)
	}
	if len(parsed.Content) == 0 {
		return "", rerrors.New(rerrors.ErrCodeOracleResponse, "oracle response has no content", nil)
	}

	return parsed.Content[0].Text, nil
}

var (
	scoreLinePattern = regexp.MustCompile(`RELEVANCE_SCORE:\s*([0-9]*\.?[0-9]+)`)
	numberPattern    = regexp.MustCompile(`([0-9]*\.?[0-9]+)`)
)

// parseScore extracts the relevance score from the oracle's free-text
// response. The labeled score line is preferred; otherwise the first number
// in [0, 1] is used; otherwise the neutral score.
func parseScore(response string) float64 {
	if m := scoreLinePattern.FindStringSubmatch(response); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clamp(score)
		}
	}

	if score, ok := firstNumber(response); ok && score <= 1.0 {
		if score < 0 {
			return 0
		}
		return score
	}

	return NeutralScore
}

func firstNumber(s string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func cacheKey(query, text string) string {
	hash := sha256.Sum256([]byte(query + "\x00" + text))
	return hex.EncodeToString(hash[:])
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
