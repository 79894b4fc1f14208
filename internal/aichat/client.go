package aichat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uniconnect-hub/backend/internal/models"
)

// Gateway failure modes surfaced to callers with their own HTTP statuses.
var (
	ErrRateLimited    = errors.New("Rate limit exceeded. Please try again in a moment.")
	ErrQuotaExhausted = errors.New("AI credits exhausted. Please contact the administrator.")
)

// Config holds settings for the upstream AI gateway (OpenAI-compatible
// streaming chat completions).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client streams chat completions from the gateway.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// NewClient creates a new Client
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		cfg:        cfg,
	}
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChat sends the system prompt plus history to the gateway and invokes
// onDelta for each content fragment as it arrives. It returns the assembled
// assistant reply.
func (c *Client) StreamChat(ctx context.Context, systemPrompt string, history []models.ChatMessage, onDelta func(delta string) error) (string, error) {
	payload := completionRequest{
		Model:    c.cfg.Model,
		Messages: append([]models.ChatMessage{{Role: "system", Content: systemPrompt}}, history...),
		Stream:   true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrQuotaExhausted
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("AI gateway error %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	return parseStream(resp.Body, onDelta)
}

// parseStream consumes an SSE body line by line. A "data: " line that fails
// to parse is treated as an incomplete chunk and pushed back onto the buffer
// so the next read can complete it; comment lines and blanks are skipped; a
// [DONE] sentinel ends the stream.
func parseStream(body io.Reader, onDelta func(string) error) (string, error) {
	var assembled strings.Builder
	var textBuffer []byte
	chunk := make([]byte, 4096)

	emit := func(jsonStr string) (bool, error) {
		if jsonStr == "[DONE]" {
			return true, nil
		}
		var parsed completionChunk
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return false, err
		}
		if len(parsed.Choices) > 0 {
			if content := parsed.Choices[0].Delta.Content; content != "" {
				assembled.WriteString(content)
				if onDelta != nil {
					if err := onDelta(content); err != nil {
						return true, err
					}
				}
			}
		}
		return false, nil
	}

	streamDone := false
	for !streamDone {
		n, readErr := body.Read(chunk)
		if n > 0 {
			textBuffer = append(textBuffer, chunk[:n]...)

			for {
				newlineIndex := bytes.IndexByte(textBuffer, '\n')
				if newlineIndex < 0 {
					break
				}
				line := string(textBuffer[:newlineIndex])
				textBuffer = textBuffer[newlineIndex+1:]

				line = strings.TrimSuffix(line, "\r")
				if strings.HasPrefix(line, ":") || strings.TrimSpace(line) == "" {
					continue
				}
				if !strings.HasPrefix(line, "data: ") {
					continue
				}

				done, err := emit(strings.TrimSpace(line[6:]))
				if done {
					streamDone = true
					if err != nil {
						return assembled.String(), err
					}
					break
				}
				if err != nil {
					// likely a split chunk; requeue and wait for more bytes
					textBuffer = append([]byte(line+"\n"), textBuffer...)
					break
				}
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				return assembled.String(), readErr
			}
			break
		}
	}

	// flush whatever complete lines remain, ignoring fragments
	for _, raw := range strings.Split(string(textBuffer), "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if raw == "" || strings.HasPrefix(raw, ":") || !strings.HasPrefix(raw, "data: ") {
			continue
		}
		jsonStr := strings.TrimSpace(raw[6:])
		if jsonStr == "[DONE]" {
			continue
		}
		if _, err := emit(jsonStr); err != nil {
			continue
		}
	}

	return assembled.String(), nil
}
