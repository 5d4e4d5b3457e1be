// Package schema has the models and constants shared by all parts of reusability.
package schema

// MetricsRecord is one row returned by the upstream metrics provider.
// Depending on the endpoint it describes a single file at a commit or a whole commit.
// DIT and NOCC are counts upstream; they are carried as float64 like the others.
type MetricsRecord struct {
	Sha           string  `json:"sha"`           // Commit the metrics were computed at
	RevisionCount int     `json:"revisionCount"` // Historical revisions, passed through unchanged
	FilePath      string  `json:"filePath"`      // Empty for commit-level records
	CBO           float64 `json:"cbo"`           // Coupling Between Objects
	DIT           float64 `json:"dit"`           // Depth of Inheritance Tree
	WMC           float64 `json:"wmc"`           // Weighted Methods per Class
	RFC           float64 `json:"rfc"`           // Response For a Class
	LCOM          float64 `json:"lcom"`          // Lack of Cohesion of Methods
	NOCC          float64 `json:"nocc"`          // Number of Children
}

// FileReusabilityIndex is the reusability index of one file at one commit.
type FileReusabilityIndex struct {
	CommitID      string  `json:"commitId"`
	RevisionCount int     `json:"revisionCount"`
	FilePath      string  `json:"filePath"`
	Index         float64 `json:"index"`
}

// ProjectReusabilityIndex is the reusability index of a whole project at one commit.
type ProjectReusabilityIndex struct {
	CommitID      string  `json:"commitId"`
	RevisionCount int     `json:"revisionCount"`
	Index         float64 `json:"index"`
}

// CommitReport bundles the per-file and project-level views of a single commit.
type CommitReport struct {
	RepoURL   string                    `json:"repoUrl"`
	CommitSHA string                    `json:"commitSha"`
	Project   []ProjectReusabilityIndex `json:"project"`
	Files     []FileReusabilityIndex    `json:"files"`
}

// FormulaTerm is one weighted logarithmic term of the reusability formula.
type FormulaTerm struct {
	Metric      string  `json:"metric"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}
