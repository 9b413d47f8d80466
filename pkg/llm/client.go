package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/dbtforge/dbtforge/pkg/config"
)

// UsageLogFile is the append-only metering log for collaborator token usage.
const UsageLogFile = "llm_token_usage.log"

type (
	// Client talks to the text-generation collaborator over its
	// chat-completion endpoint. Calls are synchronous and blocking, one at a
	// time, with no retry: a failed or slow call is surfaced as an error
	// payload and simply consumes wall-clock budget.
	Client struct {
		http   *resty.Client
		cfg    config.LLM
		logDir string
		logger zerolog.Logger
	}

	// Response is the collaborator's reply: either choices carrying the
	// generated text, or an error description. Token usage is metered when
	// the response includes it in either known shape.
	Response struct {
		Choices []Choice `json:"choices"`
		Usage   *Usage   `json:"usage"`
		Tokens  int      `json:"tokens"`
		Error   string   `json:"error"`
	}

	Choice struct {
		Message Message `json:"message"`
	}

	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	Usage struct {
		TotalTokens int `json:"total_tokens"`
	}
)

// New creates a Client. logDir is where token-usage metering is appended;
// an empty logDir disables metering.
func New(cfg config.LLM, logDir string, logger zerolog.Logger) *Client {
	return &Client{
		http:   resty.New(),
		cfg:    cfg,
		logDir: logDir,
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

// Resty exposes the underlying HTTP client for transport-level test hooks.
func (c *Client) Resty() *resty.Client {
	return c.http
}

// Configured reports whether an endpoint and credential are set.
func (c *Client) Configured() bool {
	return c.cfg.APIURL != "" && c.cfg.APIKey != ""
}

// Generate submits prompt to the collaborator and returns its response.
// Generate never returns an error value: every failure mode (no endpoint,
// transport error, unparseable body) degrades to a Response whose Error
// field is set, keeping the generation pipeline unconditionally
// forward-progressing.
func (c *Client) Generate(ctx context.Context, prompt string) *Response {
	if c.cfg.APIURL == "" {
		return &Response{Error: "no API endpoint configured"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetBody(c.payload(prompt)).
		Post(c.cfg.APIURL)
	if err != nil {
		return &Response{Error: fmt.Sprintf("request failed: %v", err)}
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return &Response{Error: fmt.Sprintf("unparseable response: %v", err)}
	}

	if tokens := out.TotalTokens(); tokens > 0 {
		c.meterTokens(tokens)
	}

	return &out
}

// Content extracts the generated text, or fallback when the response is an
// error or carries no choices.
func (r *Response) Content(fallback string) string {
	if r.Error != "" || len(r.Choices) == 0 || r.Choices[0].Message.Content == "" {
		return fallback
	}

	return r.Choices[0].Message.Content
}

// TotalTokens returns the metered token count, from usage.total_tokens or
// the legacy top-level tokens field, zero when absent.
func (r *Response) TotalTokens() int {
	if r.Usage != nil && r.Usage.TotalTokens > 0 {
		return r.Usage.TotalTokens
	}

	return r.Tokens
}

func (c *Client) payload(prompt string) map[string]any {
	return map[string]any{
		"model":       c.cfg.Model,
		"messages":    []map[string]any{{"role": "user", "content": prompt}},
		"temperature": c.cfg.Temperature,
		"top_p":       c.cfg.TopP,
		"max_tokens":  c.cfg.MaxTokens,
	}
}

func (c *Client) meterTokens(tokens int) {
	if c.logDir == "" {
		return
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		c.logger.Warn().Err(err).Msg("could not create metering log directory")
		return
	}

	path := filepath.Join(c.logDir, UsageLogFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("could not open metering log")
		return
	}
	defer func() { _ = f.Close() }()

	fmt.Fprintf(f, "%s - tokens_used: %d\n", time.Now().Format(time.RFC3339), tokens)
}
