package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

const DefaultModel = "gemini-2.0-flash"

// Client uses Google's Gemini API for image analysis.
type Client struct {
	models generator
	Model  string
}

// generator is the slice of *genai.Models the client needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini-backed ai.Client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{models: client.Models, Model: model}, nil
}

func (c *Client) Analyze(ctx context.Context, image ai.Image, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	mime := image.MIMEType
	if mime == "" {
		mime = ai.MIMETypeJPEG
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: image.Data, MIMEType: mime}},
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		if isQuota(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp), nil
}

// responseText returns the text payload, or a string rendering of the whole
// response when there is none.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp != nil {
		if text := resp.Text(); text != "" {
			return text
		}
	}
	log.Warn().Str("fallback", "stringified_response").Msg("gemini response has no text payload")
	if resp == nil {
		return "<nil>"
	}
	if b, err := json.Marshal(resp); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%+v", *resp)
}

func isQuota(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
