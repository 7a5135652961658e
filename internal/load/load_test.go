package load_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/internal/config"
	"tabload/internal/load"
	"tabload/internal/query"

	_ "tabload/internal/storage/sqlite"
)

const sampleCSV = `id,name,department,salary
1,Alice,Engineering,120000
2,Bob,Sales,60000
bad_row_with_one_field
3,,Engineering,70000
4,Dave,Sales,
`

// testJob builds a sqlite-backed job around a temp copy of sampleCSV.
func testJob(t *testing.T, csv string) *config.Job {
	t.Helper()
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "employees.csv")
	require.NoError(t, os.WriteFile(srcPath, []byte(csv), 0o644))

	j := &config.Job{
		Name:   "employees-test",
		Source: config.Source{Path: srcPath, Header: true},
		Target: config.Target{
			Driver:          "sqlite",
			DSN:             filepath.Join(dir, "employees.db"),
			Table:           "employees",
			AutoCreateTable: true,
		},
		Types:    map[string]string{"id": "int", "salary": "int"},
		Required: []string{"name"},
	}
	j.Normalize()
	return j
}

func countRows(t *testing.T, job *config.Job) int64 {
	t.Helper()
	repo, err := load.Open(context.Background(), job)
	require.NoError(t, err)
	defer repo.Close()

	n, err := query.NewEngine(repo, job.Target.Table).Count(context.Background(), nil)
	require.NoError(t, err)
	return n
}

func TestRun(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)

	sum, err := load.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, int64(3), sum.Rows)
	assert.Equal(t, 1, sum.Skipped, "malformed row should be skipped")
	assert.Equal(t, int64(1), sum.Dropped, "row missing required name should be dropped")
	assert.Equal(t, []string{"id", "name", "department", "salary"}, sum.Columns)
	assert.NotZero(t, sum.Fingerprint)

	assert.Equal(t, int64(3), countRows(t, job))
}

func TestRunValuesRoundTrip(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)

	_, err := load.Run(context.Background(), job)
	require.NoError(t, err)

	repo, err := load.Open(context.Background(), job)
	require.NoError(t, err)
	defer repo.Close()

	rows, err := query.NewEngine(repo, job.Target.Table).Select(context.Background(),
		query.Criteria{"name": query.Eq("Alice")}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, int64(120000), rows[0]["salary"])
	assert.Equal(t, "Engineering", rows[0]["department"])

	// empty source field loads as NULL
	rows, err = query.NewEngine(repo, job.Target.Table).Select(context.Background(),
		query.Criteria{"name": query.Eq("Dave")}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["salary"])
}

func TestRunAppendAccumulates(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)

	for i := 0; i < 2; i++ {
		_, err := load.Run(context.Background(), job)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(6), countRows(t, job))
}

func TestRunReplaceTruncatesFirst(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)
	job.Target.Mode = config.ModeReplace

	for i := 0; i < 2; i++ {
		_, err := load.Run(context.Background(), job)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), countRows(t, job))
}

func TestRunInfersSchemaWithoutTypeHints(t *testing.T) {
	t.Parallel()
	job := testJob(t, "id,name,salary\n1,Alice,120000\n2,Bob,60000\n")
	job.Types = nil
	job.Required = nil

	sum, err := load.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Rows)

	repo, err := load.Open(context.Background(), job)
	require.NoError(t, err)
	defer repo.Close()

	rows, err := query.NewEngine(repo, job.Target.Table).Select(context.Background(),
		query.Criteria{"salary": query.Gt(int64(100000))}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0]["name"])
	// inferred int columns load typed, not as text
	assert.Equal(t, int64(120000), rows[0]["salary"])
}

func TestRunMissingSource(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)
	job.Source.Path = filepath.Join(t.TempDir(), "nope.csv")

	_, err := load.Run(context.Background(), job)
	assert.Error(t, err)
}

func TestRunEmptySourceFails(t *testing.T) {
	t.Parallel()
	job := testJob(t, sampleCSV)
	job.Source.Path = filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(job.Source.Path, nil, 0o644))

	_, err := load.Run(context.Background(), job)
	assert.Error(t, err)
}
