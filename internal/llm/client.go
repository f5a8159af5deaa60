package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNoText is returned when the model reply has no text parts.
var ErrNoText = errors.New("no text in model response")

// Attachment is a file sent inline with the prompt.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation call.
type Request struct {
	Prompt      string
	Tier        ModelTier
	JSON        bool
	Schema      *genai.Schema
	Attachments []Attachment
	// Temperature overrides the configured temperature when set.
	Temperature *float32
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// GeminiClient implements Client on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a client. A nil config uses DefaultConfig.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// Generate sends the request and returns the reply text. JSON requests
// come back with any code fence removed.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	name := c.config.Model(req.Tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(name)
	temp := c.config.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	model.SetTemperature(temp)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}

	resp, err := model.GenerateContent(ctx, requestParts(req)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	if req.JSON {
		return CleanJSONBlock(text), nil
	}
	return text, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// requestParts puts attachments before the prompt text.
func requestParts(req Request) []genai.Part {
	parts := make([]genai.Part, 0, len(req.Attachments)+1)
	for _, a := range req.Attachments {
		parts = append(parts, genai.Blob{MIMEType: a.MIMEType, Data: a.Data})
	}
	return append(parts, genai.Text(req.Prompt))
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("no content in response (finish reason %s)", cand.FinishReason)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoText
	}
	return sb.String(), nil
}
