package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

func analysisCounters() (total, failed, rejected, running uint64) {
	m := GetMetrics()
	return m["analyses_total"].(uint64), m["analyses_failed"].(uint64),
		m["analyses_rejected"].(uint64), m["analyses_running"].(uint64)
}

func TestAnalysisStarted_CountsEachOutcomeOnce(t *testing.T) {
	total0, failed0, rejected0, running0 := analysisCounters()

	done := AnalysisStarted()
	_, _, _, running := analysisCounters()
	assert.Equal(t, running0+1, running)
	done(skin.ErrNoInput, true)

	total, failed, rejected, running := analysisCounters()
	assert.Equal(t, total0, total, "rejected runs are not analyses")
	assert.Equal(t, failed0, failed)
	assert.Equal(t, rejected0+1, rejected)
	assert.Equal(t, running0, running)

	AnalysisStarted()(errors.New("model unavailable"), false)
	AnalysisStarted()(nil, false)

	total, failed, rejected, _ = analysisCounters()
	assert.Equal(t, total0+2, total)
	assert.Equal(t, failed0+1, failed)
	assert.Equal(t, rejected0+1, rejected)
}
