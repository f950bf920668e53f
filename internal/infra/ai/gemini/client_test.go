package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

type fakeModels struct {
	gotModel    string
	gotContents []*genai.Content
	resp        *genai.GenerateContentResponse
	err         error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestAnalyze_SendsImageAndPrompt(t *testing.T) {
	fake := &fakeModels{resp: textResponse("1️⃣ Probable Causes")}
	c := &Client{models: fake}

	text, err := c.Analyze(context.Background(), ai.Image{Data: []byte{0xff, 0xd8}, MIMEType: ai.MIMETypeJPEG}, "look at this")
	require.NoError(t, err)
	assert.Equal(t, "1️⃣ Probable Causes", text)
	assert.Equal(t, DefaultModel, fake.gotModel)

	require.Len(t, fake.gotContents, 1)
	parts := fake.gotContents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8}, parts[0].InlineData.Data)
	assert.Equal(t, "look at this", parts[1].Text)
}

func TestAnalyze_CustomModel(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ok")}
	c := &Client{models: fake, Model: "gemini-2.5-flash"}

	_, err := c.Analyze(context.Background(), ai.Image{Data: []byte{1}}, "p")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", fake.gotModel)
}

func TestAnalyze_Errors(t *testing.T) {
	t.Run("quota", func(t *testing.T) {
		fake := &fakeModels{err: genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}}
		_, err := (&Client{models: fake}).Analyze(context.Background(), ai.Image{}, "p")
		assert.True(t, errors.Is(err, ai.ErrQuotaExceeded))
	})
	t.Run("other", func(t *testing.T) {
		fake := &fakeModels{err: errors.New("connection reset")}
		_, err := (&Client{models: fake}).Analyze(context.Background(), ai.Image{}, "p")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ai.ErrQuotaExceeded))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestResponseText_FallsBackToStringifiedResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{ModelVersion: "gemini-test"}

	text := responseText(resp)
	assert.NotEmpty(t, text)
	assert.Contains(t, text, "gemini-test")

	assert.Equal(t, "<nil>", responseText(nil))
}

func TestResponseText_KeepsWhitespaceOnlyText(t *testing.T) {
	assert.Equal(t, " \n", responseText(textResponse(" \n")))
}
