package algo

import (
	"cmp"
	"slices"

	"github.com/reusabilityapi/reusability/schema"
)

// RankFiles sorts file indices in place by index ascending, least reusable first.
// Equal indices are ordered by file path.
func RankFiles(files []schema.FileReusabilityIndex) []schema.FileReusabilityIndex {
	slices.SortStableFunc(files, func(a, b schema.FileReusabilityIndex) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.FilePath, b.FilePath),
		)
	})
	return files
}

// RankProjects sorts project indices in place by index ascending.
// Equal indices are ordered by commit ID.
func RankProjects(projects []schema.ProjectReusabilityIndex) []schema.ProjectReusabilityIndex {
	slices.SortStableFunc(projects, func(a, b schema.ProjectReusabilityIndex) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.CommitID, b.CommitID),
		)
	})
	return projects
}

// MeanIndex returns the arithmetic mean of the file indices, summed in slice order.
// It returns 0 for an empty slice.
func MeanIndex(files []schema.FileReusabilityIndex) float64 {
	if len(files) == 0 {
		return 0
	}
	var sum float64
	for _, f := range files {
		sum += f.Index
	}
	return sum / float64(len(files))
}
