// Package llm implements the SSE-streaming chat-completions client: one
// outbound HTTP POST per analysis request, parsed into a generation-
// tagged event stream, per spec.md §6. There is no pack repo implementing
// an SSE client for this provider contract, so this package is the one
// ambient component built directly on net/http + bufio rather than a
// third-party client.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stormlightlabs.org/draftassistant/internal/config"
)

// EventKind discriminates the tagged LM event union.
type EventKind int

const (
	EventToken EventKind = iota
	EventComplete
	EventError
)

// Event is one item in the LM streaming response, carrying the
// generation counter it was started at so the orchestrator can drop
// stale events from a cancelled task.
type Event struct {
	Kind       EventKind
	Generation uint64

	Text string // EventToken

	FullText     string // EventComplete
	InputTokens  int
	OutputTokens int

	Message string // EventError
}

// Client streams chat-completions requests over SSE.
type Client struct {
	http   *http.Client
	apiKey string
	cfg    config.LMConfig
}

// New builds a client. An empty apiKey produces a client that immediately
// emits EventError on every Stream call, mirroring the "LLM not
// configured" disabled path.
func New(apiKey string, cfg config.LMConfig) *Client {
	return &Client{http: &http.Client{}, apiKey: apiKey, cfg: cfg}
}

// Stream sends one chat-completions request and emits events on the
// returned channel as the response streams in. The channel is closed
// when the stream ends, ctx is cancelled, or an unrecoverable error
// occurs. Unless ctx is cancelled first, exactly one EventComplete or
// EventError terminates the stream; after cancellation the channel may
// close without either.
func (c *Client) Stream(ctx context.Context, system, userContent string, generation uint64) <-chan Event {
	out := make(chan Event, 16)

	go func() {
		defer close(out)

		if c.apiKey == "" {
			send(ctx, out, Event{Kind: EventError, Generation: generation, Message: "LLM not configured"})
			return
		}

		body, err := json.Marshal(map[string]any{
			"model":      c.cfg.Model,
			"max_tokens": c.cfg.MaxTokens,
			"stream":     true,
			"system":     system,
			"messages":   []map[string]string{{"role": "user", "content": userContent}},
		})
		if err != nil {
			send(ctx, out, Event{Kind: EventError, Generation: generation, Message: fmt.Sprintf("failed to encode request: %v", err)})
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			send(ctx, out, Event{Kind: EventError, Generation: generation, Message: fmt.Sprintf("failed to build request: %v", err)})
			return
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.http.Do(req)
		if err != nil {
			send(ctx, out, Event{Kind: EventError, Generation: generation, Message: fmt.Sprintf("network error: %v", err)})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			send(ctx, out, Event{Kind: EventError, Generation: generation, Message: fmt.Sprintf("API returned status %d", resp.StatusCode)})
			return
		}

		streamSSE(ctx, resp, generation, out)
	}()

	return out
}

// streamSSE reads the response body as an SSE stream of `event:`/`data:`
// pairs, mapping the Anthropic Messages API's event types to LM events.
func streamSSE(ctx context.Context, resp *http.Response, generation uint64, out chan<- Event) {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		eventType    string
		fullText     strings.Builder
		inputTokens  int
		outputTokens int
	)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch eventType {
			case "message_start":
				if n, ok := parseUsageField(data, "message", "usage", "input_tokens"); ok {
					inputTokens = n
				}
			case "content_block_delta":
				if text, ok := parseDeltaText(data); ok {
					fullText.WriteString(text)
					if !send(ctx, out, Event{Kind: EventToken, Generation: generation, Text: text}) {
						return
					}
				}
			case "message_delta":
				if n, ok := parseUsageField(data, "usage", "output_tokens"); ok {
					outputTokens = n
				}
			case "message_stop":
				send(ctx, out, Event{
					Kind:         EventComplete,
					Generation:   generation,
					FullText:     fullText.String(),
					InputTokens:  inputTokens,
					OutputTokens: outputTokens,
				})
				return
			}
		}
	}

	if fullText.Len() == 0 {
		send(ctx, out, Event{Kind: EventError, Generation: generation, Message: "stream ended unexpectedly without any content"})
		return
	}
	send(ctx, out, Event{
		Kind:         EventComplete,
		Generation:   generation,
		FullText:     fullText.String(),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	})
}

// send delivers ev on out, giving up if ctx is cancelled first so a
// forwarder that already exited on cancellation can never wedge this
// goroutine (and its open response body) on a full, unread channel.
func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// parseDeltaText extracts delta.text from a content_block_delta event's
// JSON payload.
func parseDeltaText(data string) (string, bool) {
	var v struct {
		Delta struct {
			Text string `json:"text"`
		} `json:"delta"`
	}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return "", false
	}
	return v.Delta.Text, true
}

// parseUsageField walks a dotted path of object keys down to an integer
// leaf, used for message_start's message.usage.input_tokens and
// message_delta's usage.output_tokens.
func parseUsageField(data string, path ...string) (int, bool) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		return 0, false
	}

	current := root
	for i, key := range path {
		raw, ok := current[key]
		if !ok {
			return 0, false
		}
		if i == len(path)-1 {
			var n float64
			if err := json.Unmarshal(raw, &n); err != nil {
				return 0, false
			}
			return int(n), true
		}
		if err := json.Unmarshal(raw, &current); err != nil {
			return 0, false
		}
	}
	return 0, false
}
