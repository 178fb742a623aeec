package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/normalize"
)

func TestInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "attendance with comma and counter", raw: "45,123人", want: intPtr(45123)},
		{name: "already clean", raw: "10000", want: intPtr(10000)},
		{name: "humidity with percent", raw: "60%", want: intPtr(60)},
		{name: "sprint count with counter", raw: "45回", want: intPtr(45)},
		{name: "korean attendance", raw: "10,519명", want: intPtr(10519)},
		{name: "non numeric", raw: "Invalid", want: nil},
		{name: "placeholder", raw: "N/A", want: nil},
		{name: "empty", raw: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Int(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "distance with unit", raw: "115.2km", want: floatPtr(115.2)},
		{name: "temperature with degree", raw: "25℃", want: floatPtr(25)},
		{name: "ascii degree suffix", raw: "18.5°C", want: floatPtr(18.5)},
		{name: "non numeric", raw: "-", want: nil},
		{name: "empty", raw: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalize.Float(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func TestAttendance(t *testing.T) {
	t.Parallel()

	got := normalize.Attendance("10,000人")
	require.NotNil(t, got)
	assert.Equal(t, 10000, *got)

	assert.Nil(t, normalize.Attendance("Invalid"))
}

func TestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "with suffix", raw: "3위", want: 3},
		{name: "plain", raw: "12", want: 12},
		{name: "non numeric defaults to zero", raw: "순위없음", want: 0},
		{name: "empty", raw: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, normalize.Rank(tt.raw))
		})
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	wins, draws, losses, ok := normalize.Record("3위 2승 1무 0패")
	require.True(t, ok)
	assert.Equal(t, 2, wins)
	assert.Equal(t, 1, draws)
	assert.Equal(t, 0, losses)

	_, _, _, ok = normalize.Record("no record here")
	assert.False(t, ok)
}

func TestPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "standard record", raw: "3위 2승 1무 0패", want: 7},
		{name: "record inside longer text", raw: "울산 1위 10승 3무 2패 승점", want: 33},
		{name: "no pattern", raw: "경기 전", want: 0},
		{name: "empty", raw: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, normalize.Points(tt.raw))
		})
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
