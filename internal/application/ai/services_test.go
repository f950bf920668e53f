package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

type stubClient struct {
	text string
	err  error
}

func (s stubClient) Analyze(ctx context.Context, img ai.Image, prompt string) (string, error) {
	return s.text, s.err
}

func TestService_Analyze(t *testing.T) {
	svc := NewService(stubClient{text: "fine"}, "stub")
	got, err := svc.Analyze(context.Background(), ai.Image{Data: []byte{1}}, "p")
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
}

func TestService_WrapsFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantQuota bool
	}{
		{"plain", errors.New("connection reset"), false},
		{"quota", fmt.Errorf("gemini: %w", ai.ErrQuotaExceeded), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(stubClient{err: tt.err}, "stub")
			_, err := svc.Analyze(context.Background(), ai.Image{}, "p")

			var ae *ai.AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.err.Error(), ae.Message)
			assert.Equal(t, tt.wantQuota, errors.Is(err, ai.ErrQuotaExceeded))
		})
	}
}

func TestService_KeepsExistingAnalysisError(t *testing.T) {
	orig := &ai.AnalysisError{Message: "model refused the image"}
	svc := NewService(stubClient{err: orig}, "stub")
	_, err := svc.Analyze(context.Background(), ai.Image{}, "p")
	assert.Same(t, orig, err)
}
