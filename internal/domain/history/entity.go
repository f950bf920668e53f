package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

// TimeLayout is how record timestamps are shown.
const TimeLayout = "2006-01-02 15:04"

// RecordID identifier type
type RecordID string

// NewRecordID generates a new unique RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// Record is one successful analysis. It is never modified after Append.
type Record struct {
	ID         RecordID      `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Age        string        `json:"age"`
	SkinType   skin.SkinType `json:"skin_type"`
	Response   string        `json:"response"`
	ArchiveURL string        `json:"archive_url,omitempty"`
}

// Time returns the display form of Timestamp.
func (r Record) Time() string {
	return r.Timestamp.Format(TimeLayout)
}
