package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
)

func TestMemoryStore_ListIsReverseInsertionOrder(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 25} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := NewMemoryStore()
			base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
			for i := 0; i < n; i++ {
				s.Append(domain.Record{
					ID:        domain.RecordID(fmt.Sprintf("r%d", i)),
					Timestamp: base.Add(time.Duration(i) * time.Minute),
				})
			}

			got := s.List()
			require.Len(t, got, n)
			assert.Equal(t, n, s.Len())
			for i, r := range got {
				assert.Equal(t, domain.RecordID(fmt.Sprintf("r%d", n-1-i)), r.ID)
			}
		})
	}
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Append(domain.Record{ID: "a", Response: "original"})

	got := s.List()
	got[0].Response = "mutated"

	again := s.List()
	assert.Equal(t, "original", again[0].Response)
}

func TestMemoryStore_Get(t *testing.T) {
	s := NewMemoryStore()
	s.Append(domain.Record{ID: "a", Response: "first"})
	s.Append(domain.Record{ID: "b", Response: "second"})

	r, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "second", r.Response)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
