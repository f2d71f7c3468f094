package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Colors for Discord embeds
	colorRed   = 15158332 // 0xE74C3C
	colorGreen = 5763719  // 0x57F287

	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

var printer = message.NewPrinter(language.English)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// RunReport summarizes an extraction run for notification
type RunReport struct {
	RunID      string
	Preset     string
	Battles    int
	Failed     int
	Duplicates int
	Columns    int
	Runtime    time.Duration
	Sinks      []string
}

// NewExtractionCompletePayload creates a payload for a finished run
func NewExtractionCompletePayload(r RunReport) WebhookPayload {
	sinks := "none"
	if len(r.Sinks) > 0 {
		sinks = strings.Join(r.Sinks, ", ")
	}

	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: "✅ Feature Extraction Complete",
				Color: colorGreen,
				Fields: []EmbedField{
					{Name: "Preset", Value: r.Preset, Inline: true},
					{Name: "Battles", Value: formatNumber(r.Battles), Inline: true},
					{Name: "Failed", Value: formatNumber(r.Failed), Inline: true},
					{Name: "Columns", Value: formatNumber(r.Columns), Inline: true},
					{Name: "Duplicates", Value: formatNumber(r.Duplicates), Inline: true},
					{Name: "Runtime", Value: formatDuration(r.Runtime), Inline: true},
					{Name: "Sinks", Value: sinks},
				},
				Footer:    &EmbedFooter{Text: "Run " + r.RunID},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

// NewExtractionFailedPayload creates a payload for a run that aborted
func NewExtractionFailedPayload(runID, preset string, runErr error, runtime time.Duration) WebhookPayload {
	return WebhookPayload{
		Content: "@here Feature extraction failed!",
		Embeds: []Embed{
			{
				Title:       "❌ Feature Extraction Failed",
				Description: runErr.Error(),
				Color:       colorRed,
				Fields: []EmbedField{
					{Name: "Preset", Value: preset, Inline: true},
					{Name: "Runtime", Value: formatDuration(runtime), Inline: true},
				},
				Footer: &EmbedFooter{Text: "Run " + runID},
			},
		},
	}
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

func (c *WebhookClient) SendExtractionComplete(ctx context.Context, r RunReport) error {
	return c.sendPayload(ctx, NewExtractionCompletePayload(r))
}

func (c *WebhookClient) SendExtractionFailed(ctx context.Context, runID, preset string, runErr error, runtime time.Duration) error {
	return c.sendPayload(ctx, NewExtractionFailedPayload(runID, preset, runErr, runtime))
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := time.Second
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				waitDuration = time.Duration(seconds) * time.Second
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber groups thousands (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// formatDuration formats a duration as "Xh Ym Zs"
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
