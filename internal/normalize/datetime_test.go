package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/normalize"
)

var testDays = normalize.Vocab{"月": "월", "火": "화", "水": "수", "木": "목", "金": "금", "土": "토", "日": "일"}

func TestDatetime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		wantDatetime string
		wantDay      string
	}{
		{
			name:         "japanese date format",
			raw:          "2025年3月15日(土) 14:00",
			wantDatetime: "2025-03-15 14:00:00",
			wantDay:      "토",
		},
		{
			name:         "slash date format",
			raw:          "2025/03/01 (토) 14:00",
			wantDatetime: "2025-03-01 14:00:00",
			wantDay:      "토",
		},
		{
			name:         "dot date format with single digits",
			raw:          "2025.3.5(토)2:30",
			wantDatetime: "2025-03-05 02:30:00",
			wantDay:      "토",
		},
		{
			name:         "no weekday",
			raw:          "2024/11/30 19:00",
			wantDatetime: "2024-11-30 19:00:00",
			wantDay:      "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Datetime(tt.raw, testDays)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDatetime, got.Datetime)
			assert.Equal(t, tt.wantDay, got.Day)
		})
	}
}

func TestDatetimeMismatch(t *testing.T) {
	t.Parallel()

	assert.Nil(t, normalize.Datetime("kickoff to be announced", testDays))
	assert.Nil(t, normalize.Datetime("", testDays))
	assert.Nil(t, normalize.Datetime("14:00", testDays))
}
