package collector_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooltime/tooltime/catalog"
	"github.com/tooltime/tooltime/collector"
	"github.com/tooltime/tooltime/types"
)

type fakeEOL struct {
	mu      sync.Mutex
	records map[string][]types.VersionRecord
	calls   []string
}

func (f *fakeEOL) Fetch(product string) ([]types.VersionRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, product)
	f.mu.Unlock()
	records, ok := f.records[product]
	if !ok {
		return nil, errors.New("HTTP error. status code: 404")
	}
	return records, nil
}

type fakeRepo struct {
	releases map[string][]types.VersionRecord
	err      error
}

func (f fakeRepo) Repository(_ context.Context, repo string) (*types.RepositoryInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.RepositoryInfo{FullName: repo, Stars: 10}, nil
}

func (f fakeRepo) Releases(_ context.Context, repo string) ([]types.VersionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.releases[repo], nil
}

type fakeRegistry struct {
	name string
}

func (f fakeRegistry) Fetch(pkg string) (*types.RegistryInfo, error) {
	return &types.RegistryInfo{Registry: f.name, Package: pkg, LatestVersion: "1.0.0"}, nil
}

type fakeStatus struct{}

func (fakeStatus) Check(url string) types.ServiceStatus {
	return types.ServiceStatus{URL: url, Reachable: true, Indicator: "All Systems Operational"}
}

const testCatalog = `
categories:
  - name: languages
    tools:
      - name: python
        source: endoflife
      - name: ruby
        source: endoflife
      - name: uv
        github: astral-sh/uv
        release_pattern: github
  - name: frontend
    tools:
      - name: typescript
        npm_package: typescript
  - name: ai_services
    tools:
      - name: openai
        status_url: https://status.openai.com
        pypi_package: openai
  - name: misc
    tools:
      - name: nothing
support_policies:
  python: five years
`

func record(cycle string) types.VersionRecord {
	return types.VersionRecord{Cycle: cycle, EOL: types.EOL{Expiry: types.IndefiniteExpiry()}}
}

func TestCollector_Collect(t *testing.T) {
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	for _, workers := range []int{1, 4} {
		eol := &fakeEOL{records: map[string][]types.VersionRecord{
			"python": {record("3.13"), record("3.12")},
		}}
		c := collector.New(
			collector.WithEOL(eol),
			collector.WithRepo(fakeRepo{releases: map[string][]types.VersionRecord{
				"astral-sh/uv": {record("0.7.3")},
			}}),
			collector.WithNpm(fakeRegistry{name: "npm"}),
			collector.WithPyPI(fakeRegistry{name: "pypi"}),
			collector.WithStatus(fakeStatus{}),
			collector.WithRateLimit(1000, 10),
			collector.WithWorkers(workers),
		)

		run, err := c.Collect(context.Background(), cat)
		require.NoError(t, err)

		// ruby fails and "nothing" has no source, so neither is kept.
		assert.ElementsMatch(t, []string{"python", "uv", "typescript", "openai"}, keys(run.Snapshots))
		assert.Equal(t, 1, run.Failures)
		assert.Equal(t, 6, run.Fetched)

		python := run.Snapshots["python"]
		assert.Equal(t, "languages", python.Category)
		assert.Equal(t, "five years", python.SupportPolicy)
		assert.Len(t, python.Records, 2)

		uv := run.Snapshots["uv"]
		require.Len(t, uv.Records, 1)
		assert.Equal(t, "0.7.3", uv.Records[0].Cycle)
		assert.Equal(t, "astral-sh/uv", uv.Repository.FullName)

		assert.Equal(t, "npm", run.Snapshots["typescript"].Registry.Registry)
		openai := run.Snapshots["openai"]
		assert.Equal(t, "pypi", openai.Registry.Registry)
		assert.True(t, openai.Status.Reachable)

		assert.ElementsMatch(t, []string{"python", "ruby"}, eol.calls)
		assert.Len(t, run.Records()["python"], 2)
	}
}

func TestCollector_RepoFailureKeepsEOLRecords(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
categories:
  - name: languages
    tools:
      - name: go
        source: endoflife
        github: golang/go
        release_pattern: github
`))
	require.NoError(t, err)

	c := collector.New(
		collector.WithEOL(&fakeEOL{records: map[string][]types.VersionRecord{"go": {record("1.24")}}}),
		collector.WithRepo(fakeRepo{err: errors.New("graphql api error: bad credentials")}),
	)
	run, err := c.Collect(context.Background(), cat)
	require.NoError(t, err)

	require.Contains(t, run.Snapshots, "go")
	assert.Equal(t, "1.24", run.Snapshots["go"].Records[0].Cycle)
	assert.Nil(t, run.Snapshots["go"].Repository)
	assert.Equal(t, 2, run.Failures)
}

func TestCollector_NoFetchers(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	run, err := collector.New().Collect(context.Background(), cat)
	require.NoError(t, err)
	assert.Empty(t, run.Snapshots)
	assert.Zero(t, run.Fetched)
	assert.Zero(t, run.Failures)
}

func TestCollector_Canceled(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = collector.New(collector.WithEOL(&fakeEOL{})).Collect(ctx, cat)
	require.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string]*types.ProductSnapshot) []string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
