package core

import (
	"bytes"
	"testing"

	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
)

func TestLogQueryHeader(t *testing.T) {
	var buf bytes.Buffer
	orig := headerWriter
	headerWriter = &buf
	t.Cleanup(func() { headerWriter = orig })

	cfg := testConfig()
	cfg.Output = schema.TextOut
	logQueryHeader(cfg, schema.FilesByCommitQuery)
	assert.Contains(t, buf.String(), "Repo: "+testRepo+" (Query: files_by_commit)")
	assert.Contains(t, buf.String(), "Target: 9fceb02")

	buf.Reset()
	cfg.FilePath = "src/A.java"
	logQueryHeader(cfg, schema.FilesByCommitAndFileQuery)
	assert.Contains(t, buf.String(), "Target: src/A.java @ 9fceb02")

	buf.Reset()
	logQueryHeader(cfg, schema.ProjectPerCommitQuery)
	assert.Contains(t, buf.String(), "Target: all commits")

	buf.Reset()
	cfg.Output = schema.JSONOut
	logQueryHeader(cfg, schema.FilesByCommitQuery)
	assert.Empty(t, buf.String())
}
