package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_WithProfile(t *testing.T) {
	p := Build("25", "Oily")

	assert.Contains(t, p, "Skin type: Oily")
	assert.Contains(t, p, "Age: 25")
	assert.NotContains(t, p, Unknown)
}

func TestBuild_UnknownFallback(t *testing.T) {
	tests := []struct {
		name     string
		age      string
		skinType string
		want     []string
	}{
		{"both empty", "", "", []string{"Skin type: unknown", "Age: unknown"}},
		{"age only", "31", "", []string{"Skin type: unknown", "Age: 31"}},
		{"skin type only", "", "Dry", []string{"Skin type: Dry", "Age: unknown"}},
		{"whitespace age", "   ", "Sensitive", []string{"Skin type: Sensitive", "Age: unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.age, tt.skinType)
			for _, w := range tt.want {
				assert.Contains(t, p, w)
			}
		})
	}
}

func TestBuild_SectionsInOrder(t *testing.T) {
	p := Build("", "")

	last := -1
	for _, s := range Sections {
		idx := strings.Index(p, "**"+s+"**")
		if assert.GreaterOrEqual(t, idx, 0, "missing section %q", s) {
			assert.Greater(t, idx, last, "section %q out of order", s)
			last = idx
		}
	}
	assert.Len(t, Sections, 8)
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, Build("40", "Combination"), Build("40", "Combination"))
	assert.False(t, strings.HasPrefix(Build("", ""), "\t"), "template should be dedented")
}
