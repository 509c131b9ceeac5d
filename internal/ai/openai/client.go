package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tender-backend/internal/ai"
)

const (
	chatURL       = "https://api.openai.com/v1/chat/completions"
	embeddingsURL = "https://api.openai.com/v1/embeddings"

	// Embedding inputs are capped to stay inside the model's token window.
	maxEmbedChars = 8000
)

var isoCodePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// Client implements ai.LanguageDetector and ai.Embedder using the OpenAI API.
type Client struct {
	apiKey     string
	chatModel  string
	embedModel string
	httpClient *http.Client
}

// NewClient constructs an OpenAI client.
func NewClient(apiKey, chatModel, embedModel string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(chatModel) == "" {
		return nil, fmt.Errorf("OPENAI_CHAT_MODEL is required")
	}
	if strings.TrimSpace(embedModel) == "" {
		return nil, fmt.Errorf("OPENAI_EMBED_MODEL is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		chatModel:  chatModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// DetectLanguage asks the chat model for the ISO 639-1 code of the sample.
func (c *Client) DetectLanguage(ctx context.Context, sample string) (string, error) {
	reqBody := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "Identify the dominant language of the user's text. Respond with only the lowercase ISO 639-1 code, nothing else.",
			},
			{Role: "user", Content: sample},
		},
	}
	temp := float32(0)
	reqBody.Temperature = &temp

	var parsed chatResponse
	if err := c.post(ctx, chatURL, reqBody, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	code := strings.ToLower(strings.TrimSpace(parsed.Choices[0].Message.Content))
	if !isoCodePattern.MatchString(code) {
		return "", fmt.Errorf("unexpected language response %q", code)
	}
	return code, nil
}

// EmbedText embeds the text, truncating oversized inputs.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	var parsed embedResponse
	if err := c.post(ctx, embeddingsURL, embedRequest{Model: c.embedModel, Input: []string{text}}, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("openai response missing embedding data")
	}
	return parsed.Data[0].Embedding, nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("openai request timeout: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai response parse: %w", err)
	}
	return nil
}

var (
	_ ai.LanguageDetector = (*Client)(nil)
	_ ai.Embedder         = (*Client)(nil)
)
