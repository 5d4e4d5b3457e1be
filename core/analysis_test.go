package core

import (
	"math"
	"testing"

	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredRevisionCount(t *testing.T) {
	above := math.MaxInt32
	above += 5
	below := math.MinInt32
	below -= 5

	tests := []struct {
		name string
		in   int
		want int32
	}{
		{"zero", 0, 0},
		{"in range", 42, 42},
		{"max", math.MaxInt32, math.MaxInt32},
		{"above max", above, math.MaxInt32},
		{"below min", below, math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storedRevisionCount(tt.in))
		})
	}
}

func TestFileIndexRecords_ClampsRevisionCount(t *testing.T) {
	huge := math.MaxInt32
	huge += 1000

	records := fileIndexRecords([]schema.FileReusabilityIndex{
		{CommitID: "abc", RevisionCount: huge, FilePath: "src/A.java", Index: -9},
		{CommitID: "abc", RevisionCount: 3, FilePath: "src/B.java", Index: 1},
	})
	require.Len(t, records, 2)

	assert.Equal(t, int32(math.MaxInt32), records[0].RevisionCount)
	assert.Equal(t, "Poor", records[0].Label)
	assert.Equal(t, "src/A.java", *records[0].FilePath)
	assert.Equal(t, int32(3), records[1].RevisionCount)
	assert.Equal(t, int32(1), records[1].Position)
}

func TestProjectIndexRecords(t *testing.T) {
	records := projectIndexRecords([]schema.ProjectReusabilityIndex{
		{CommitID: "c1", RevisionCount: 7, Index: -2},
	})
	require.Len(t, records, 1)
	assert.Equal(t, schema.IndexRecord{CommitID: "c1", RevisionCount: 7, Index: -2, Label: "Moderate"}, records[0])
}
