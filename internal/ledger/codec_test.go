package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLayout(t *testing.T) {
	l := ledgerWith(
		DayEntry{Date: "2024-01-02", Count: 3, Target: 100},
		DayEntry{Date: "2024-01-01", Count: 5, Target: 50},
	)
	l.putPlan(PlannedTarget{Date: "2024-02-01", Target: 200})

	data, err := Encode(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"entries": [
			{"date": "2024-01-01", "count": 5, "target": 50},
			{"date": "2024-01-02", "count": 3, "target": 100}
		],
		"plannedTargets": [{"date": "2024-02-01", "target": 200}]
	}`, string(data))
}

func TestDecodeRestoresLedger(t *testing.T) {
	l := ledgerWith(DayEntry{Date: "2024-01-01", Count: 5, Target: 50})
	l.putPlan(PlannedTarget{Date: "2024-02-01", Target: 200})
	data, err := Encode(l)
	require.NoError(t, err)

	got, stats := Decode(data)
	assert.Equal(t, DecodeStats{}, stats)
	assert.Equal(t, l.Entries(), got.Entries())
	assert.Equal(t, l.PlannedTargets(), got.PlannedTargets())
}

func TestDecodeEmptyAndCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		corrupt bool
	}{
		{"empty", "", false},
		{"empty object", "{}", false},
		{"null", "null", false},
		{"garbage", "not json at all", true},
		{"wrong shape", `{"entries": 42}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, stats := Decode([]byte(tt.data))
			require.NotNil(t, l)
			assert.Equal(t, 0, l.EntryCount())
			assert.Equal(t, 0, l.PlanCount())
			assert.Equal(t, tt.corrupt, stats.Corrupt)
		})
	}
}

func TestDecodeDropsInvalidRecords(t *testing.T) {
	data := `{
		"entries": [
			{"date": "2024-01-01", "count": 5, "target": 50},
			{"date": "2024/01/02", "count": 5, "target": 50},
			{"date": "2024-01-03", "count": -1, "target": 50},
			{"date": "2024-01-04", "count": 1, "target": 0},
			{"date": "2024-01-05", "count": "many", "target": 50},
			null
		],
		"plannedTargets": [
			{"date": "2024-02-01", "target": 200},
			{"date": "2024-02-02", "target": -3},
			{"date": "tomorrow", "target": 3}
		]
	}`
	l, stats := Decode([]byte(data))
	assert.False(t, stats.Corrupt)
	assert.Equal(t, 7, stats.Dropped)
	assert.Equal(t, []DayEntry{{Date: "2024-01-01", Count: 5, Target: 50}}, l.Entries())
	assert.Equal(t, []PlannedTarget{{Date: "2024-02-01", Target: 200}}, l.PlannedTargets())
}

func TestDecodeDuplicateDateLaterWins(t *testing.T) {
	data := `{"entries": [
		{"date": "2024-01-01", "count": 1, "target": 10},
		{"date": "2024-01-01", "count": 2, "target": 20}
	]}`
	l, _ := Decode([]byte(data))
	assert.Equal(t, []DayEntry{{Date: "2024-01-01", Count: 2, Target: 20}}, l.Entries())
}

func TestDecodeAcceptsLegacyLogsKey(t *testing.T) {
	data := `{"logs": [{"date": "2024-01-01", "count": 1, "target": 100}], "theme": "dark"}`
	l, stats := Decode([]byte(data))
	assert.Equal(t, 0, stats.Dropped)
	assert.Equal(t, 1, l.EntryCount())
}
