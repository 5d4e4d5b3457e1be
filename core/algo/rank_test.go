package algo

import (
	"math/rand/v2"
	"testing"

	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRankFiles tests file ranking logic.
func TestRankFiles(t *testing.T) {
	files := []schema.FileReusabilityIndex{
		{FilePath: "b/Mid.java", Index: -3},
		{FilePath: "a/Best.java", Index: 1.5},
		{FilePath: "c/Worst.java", Index: -9},
		{FilePath: "a/Tie.java", Index: -3},
	}

	ranked := RankFiles(files)
	require.Len(t, ranked, 4)
	assert.Equal(t, "c/Worst.java", ranked[0].FilePath)
	assert.Equal(t, "a/Tie.java", ranked[1].FilePath, "ties are ordered by file path")
	assert.Equal(t, "b/Mid.java", ranked[2].FilePath)
	assert.Equal(t, "a/Best.java", ranked[3].FilePath)
}

func TestRankFiles_AnyPermutation(t *testing.T) {
	base := []schema.FileReusabilityIndex{
		{FilePath: "A.java", Index: -1},
		{FilePath: "B.java", Index: -7.5},
		{FilePath: "C.java", Index: 0},
		{FilePath: "D.java", Index: -7.5},
		{FilePath: "E.java", Index: 3},
		{FilePath: "F.java", Index: -2.25},
	}
	expected := RankFiles(append([]schema.FileReusabilityIndex(nil), base...))

	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		shuffled := append([]schema.FileReusabilityIndex(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		ranked := RankFiles(shuffled)
		for i := 1; i < len(ranked); i++ {
			assert.LessOrEqual(t, ranked[i-1].Index, ranked[i].Index)
		}
		assert.Equal(t, expected, ranked)
	}
}

func TestRankProjects(t *testing.T) {
	projects := []schema.ProjectReusabilityIndex{
		{CommitID: "c3", Index: -2},
		{CommitID: "c1", Index: -5},
		{CommitID: "c2", Index: -2},
	}

	ranked := RankProjects(projects)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{ranked[0].CommitID, ranked[1].CommitID, ranked[2].CommitID})
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, RankFiles(nil))
	assert.Empty(t, RankProjects([]schema.ProjectReusabilityIndex{}))
}

func TestMeanIndex(t *testing.T) {
	assert.Equal(t, 0.0, MeanIndex(nil))

	files := []schema.FileReusabilityIndex{{Index: -1}, {Index: -2}, {Index: -6}}
	assert.InDelta(t, -3.0, MeanIndex(files), 1e-9)
}
