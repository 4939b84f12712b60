package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/infra/logger"
)

// Config defines the connection parameters for the generative planning
// backend. The backend is only consulted when both URL and APIKey are set.
type Config struct {
	URL            string `json:"url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Enabled reports whether the backend is configured.
func (c Config) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

// maxResponseBytes caps how much of a backend response is read.
const maxResponseBytes = 1 << 20

// Client calls a generative planning endpoint and extracts a Plan from its
// response. It implements planner.Backend.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient creates a backend client from the configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  logger.New("ai_client"),
	}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// GeneratePlan sends the assignment and commitment context to the backend
// and decodes the response through the narrowing chain: strict envelope
// decode first, then the first balanced JSON object found in the body text,
// then failure. Any transport error, non-2xx status or unshapeable body is
// returned as an error so the caller can fall back.
func (c *Client) GeneratePlan(ctx context.Context, assignment model.Assignment, commitments []time.Time) (*model.Plan, error) {
	prompt, err := buildPrompt(assignment, commitments)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	body, err := json.Marshal(promptRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	plan, err := DecodePlan(raw)
	if err != nil {
		return nil, err
	}
	c.log.Debugw("backend plan accepted", map[string]any{
		"assignment": assignment.Title,
		"slots":      len(plan.Slots),
	})
	return plan, nil
}

func buildPrompt(assignment model.Assignment, commitments []time.Time) (string, error) {
	a, err := json.Marshal(assignment)
	if err != nil {
		return "", err
	}
	stamps := make([]string, 0, len(commitments))
	for _, t := range commitments {
		stamps = append(stamps, t.Format(time.RFC3339))
	}
	c, err := json.Marshal(stamps)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("You are a scheduling assistant. Given this assignment and the "+
		"timestamps of the user's existing commitments, return a JSON object with a key "+
		"\"plan\" containing {slots: [{startISO: string, durationHours: number, note: string}], "+
		"remainingHours: number, note: string}.\n\nAssignment: %s\nCommitments: %s", a, c), nil
}
