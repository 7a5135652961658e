package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/internal/analysis"
	"tabload/internal/storage"

	_ "tabload/internal/storage/sqlite"
)

func seededRepo(t *testing.T) storage.Repository {
	t.Helper()
	ctx := context.Background()

	repo, err := storage.New(ctx, storage.Config{
		Driver: "sqlite",
		DSN:    ":memory:",
		Table:  "employees",
	})
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	require.NoError(t, repo.Exec(ctx,
		`CREATE TABLE employees (name TEXT, department TEXT, level TEXT, salary INTEGER)`))

	_, err = repo.CopyFrom(ctx,
		[]string{"name", "department", "level", "salary"},
		[][]any{
			{"Alice", "Engineering", "Senior", int64(120000)},
			{"Bob", "Sales", "Junior", int64(60000)},
			{"Carol", "Engineering", "Junior", int64(70000)},
			{"Dave", "Sales", "Senior", int64(90000)},
		})
	require.NoError(t, err)
	return repo
}

func TestGroupStats(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")

	out, err := eng.GroupStats(context.Background(), "department", "salary")
	require.NoError(t, err)
	require.Len(t, out, 2)

	// ordered by group value: Engineering before Sales
	engDept := out[0]
	assert.Equal(t, "Engineering", engDept.Keys["department"])
	assert.Equal(t, int64(2), engDept.Count)
	assert.InDelta(t, 95000, engDept.Avg, 0.01)
	assert.InDelta(t, 70000, engDept.Min, 0.01)
	assert.InDelta(t, 120000, engDept.Max, 0.01)
	assert.InDelta(t, 190000, engDept.Sum, 0.01)

	sales := out[1]
	assert.Equal(t, "Sales", sales.Keys["department"])
	assert.Equal(t, int64(2), sales.Count)
	assert.InDelta(t, 75000, sales.Avg, 0.01)
}

func TestGroupStatsSchemaQualifiedTable(t *testing.T) {
	t.Parallel()
	// sqlite's default schema, so main.employees is the seeded table
	eng := analysis.NewEngine(seededRepo(t), "main.employees")

	out, err := eng.GroupStats(context.Background(), "department", "salary")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Engineering", out[0].Keys["department"])
}

func TestGroupStatsNullKeyFormsOwnGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := seededRepo(t)

	_, err := repo.CopyFrom(ctx,
		[]string{"name", "department", "level", "salary"},
		[][]any{{"Eve", nil, "Junior", int64(50000)}})
	require.NoError(t, err)

	out, err := analysis.NewEngine(repo, "employees").GroupStats(ctx, "department", "salary")
	require.NoError(t, err)
	require.Len(t, out, 3)

	// NULL sorts before any value in sqlite
	assert.Nil(t, out[0].Keys["department"])
	assert.Equal(t, int64(1), out[0].Count)
	assert.InDelta(t, 50000, out[0].Avg, 0.01)
}

func TestGroupStatsSmallTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := storage.New(ctx, storage.Config{
		Driver: "sqlite",
		DSN:    ":memory:",
		Table:  "staff",
	})
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	require.NoError(t, repo.Exec(ctx,
		`CREATE TABLE staff (name TEXT, dept TEXT, salary INTEGER)`))
	_, err = repo.CopyFrom(ctx,
		[]string{"name", "dept", "salary"},
		[][]any{
			{"A", "Eng", int64(100)},
			{"B", "Eng", int64(200)},
			{"C", "Sales", int64(150)},
		})
	require.NoError(t, err)

	out, err := analysis.NewEngine(repo, "staff").GroupStats(ctx, "dept", "salary")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Eng", out[0].Keys["dept"])
	assert.Equal(t, int64(2), out[0].Count)
	assert.InDelta(t, 150, out[0].Avg, 0.01)

	assert.Equal(t, "Sales", out[1].Keys["dept"])
	assert.Equal(t, int64(1), out[1].Count)
	assert.InDelta(t, 150, out[1].Avg, 0.01)
}

func TestDistribution(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")

	out, err := eng.Distribution(context.Background(), []string{"department", "level"}, "salary")
	require.NoError(t, err)
	require.Len(t, out, 4)

	first := out[0]
	assert.Equal(t, "Engineering", first.Keys["department"])
	assert.Equal(t, "Junior", first.Keys["level"])
	assert.Equal(t, int64(1), first.Count)
	assert.InDelta(t, 70000, first.Avg, 0.01)
}

func TestRangeBuckets(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")

	buckets := []analysis.Bucket{
		{Label: "< 70000", Below: 70000},
		{Label: "70000 - 99999", Below: 100000},
	}
	out, err := eng.RangeBuckets(context.Background(), "salary", buckets, "100000+")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, analysis.BucketCount{Label: "< 70000", Count: 1}, out[0])
	assert.Equal(t, analysis.BucketCount{Label: "70000 - 99999", Count: 2}, out[1])
	assert.Equal(t, analysis.BucketCount{Label: "100000+", Count: 1}, out[2])
}

func TestRangeBucketsEmptyBucketReported(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")

	out, err := eng.RangeBuckets(context.Background(), "salary",
		[]analysis.Bucket{{Label: "< 1000", Below: 1000}}, "1000+")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(0), out[0].Count)
	assert.Equal(t, int64(4), out[1].Count)
}

func TestNonNumericColumnRejected(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")
	ctx := context.Background()

	_, err := eng.GroupStats(ctx, "department", "name")
	assert.ErrorIs(t, err, analysis.ErrNonNumeric)

	_, err = eng.Distribution(ctx, []string{"department"}, "level")
	assert.ErrorIs(t, err, analysis.ErrNonNumeric)

	_, err = eng.RangeBuckets(ctx, "name",
		[]analysis.Bucket{{Label: "a", Below: 1}}, "b")
	assert.ErrorIs(t, err, analysis.ErrNonNumeric)
}

func TestInvalidIdentifiersRejected(t *testing.T) {
	t.Parallel()
	eng := analysis.NewEngine(seededRepo(t), "employees")
	ctx := context.Background()

	_, err := eng.GroupStats(ctx, "department; --", "salary")
	assert.Error(t, err)

	_, err = eng.Distribution(ctx, nil, "salary")
	assert.Error(t, err)

	_, err = eng.RangeBuckets(ctx, "salary", nil, "other")
	assert.Error(t, err)
}
