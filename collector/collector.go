package collector

import (
	"context"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/catalog"
	"github.com/tooltime/tooltime/types"
	"github.com/tooltime/tooltime/utils"
)

const (
	defaultRate  = 5
	defaultBurst = 1
)

type EOLFetcher interface {
	Fetch(product string) ([]types.VersionRecord, error)
}

type RepoFetcher interface {
	Repository(ctx context.Context, repo string) (*types.RepositoryInfo, error)
	Releases(ctx context.Context, repo string) ([]types.VersionRecord, error)
}

type RegistryFetcher interface {
	Fetch(pkg string) (*types.RegistryInfo, error)
}

type StatusChecker interface {
	Check(url string) types.ServiceStatus
}

type Collector struct {
	eol      EOLFetcher
	repo     RepoFetcher
	npm      RegistryFetcher
	pypi     RegistryFetcher
	status   StatusChecker
	limiter  *rate.Limiter
	workers  int
	progress bool
}

type Option func(*Collector)

func WithEOL(f EOLFetcher) Option {
	return func(c *Collector) { c.eol = f }
}

// WithRepo enables repository metadata and releases. Without it, tools are
// collected from the other sources only.
func WithRepo(f RepoFetcher) Option {
	return func(c *Collector) { c.repo = f }
}

func WithNpm(f RegistryFetcher) Option {
	return func(c *Collector) { c.npm = f }
}

func WithPyPI(f RegistryFetcher) Option {
	return func(c *Collector) { c.pypi = f }
}

func WithStatus(f StatusChecker) Option {
	return func(c *Collector) { c.status = f }
}

// WithRateLimit caps outbound requests per second across all workers.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Collector) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithWorkers(n int) Option {
	return func(c *Collector) { c.workers = n }
}

func WithProgress(enabled bool) Option {
	return func(c *Collector) { c.progress = enabled }
}

func New(opts ...Option) *Collector {
	c := &Collector{
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
		workers: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run is the outcome of one collection. Snapshots only holds tools for which
// at least one source returned data.
type Run struct {
	Snapshots map[string]*types.ProductSnapshot
	Failures  int
	Fetched   int
}

// Records returns the version records of every collected product, keyed by
// product name.
func (r Run) Records() map[string][]types.VersionRecord {
	return lo.MapValues(r.Snapshots, func(s *types.ProductSnapshot, _ string) []types.VersionRecord {
		return s.Records
	})
}

type result struct {
	snapshot *types.ProductSnapshot
	failures int
	fetched  int
}

// Collect fetches every tool of cat. A failing source never aborts the run;
// it is logged and the corresponding data is left out.
func (c *Collector) Collect(ctx context.Context, cat *catalog.Catalog) (Run, error) {
	entries := cat.Entries()
	results := make([]result, len(entries))

	var bar *pb.ProgressBar
	if c.progress {
		bar = pb.StartNew(len(entries))
	}

	if c.workers <= 1 {
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return Run{}, xerrors.Errorf("collection aborted: %w", err)
			}
			results[i] = c.collect(ctx, e, cat.SupportPolicy(e.Tool.Name))
			if bar != nil {
				bar.Increment()
			}
		}
	} else {
		tasks, wait := utils.GenWorkers(c.workers)
		for i, e := range entries {
			i, e := i, e
			tasks <- func() {
				results[i] = c.collect(ctx, e, cat.SupportPolicy(e.Tool.Name))
				if bar != nil {
					bar.Increment()
				}
			}
		}
		wait()
		if err := ctx.Err(); err != nil {
			return Run{}, xerrors.Errorf("collection aborted: %w", err)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	run := Run{Snapshots: map[string]*types.ProductSnapshot{}}
	for _, r := range results {
		run.Failures += r.failures
		run.Fetched += r.fetched
		if r.snapshot.HasData() {
			run.Snapshots[r.snapshot.Name] = r.snapshot
		}
	}
	log.Printf("Collected %d of %d tools (%d fetches, %d failures)",
		len(run.Snapshots), len(entries), run.Fetched, run.Failures)
	return run, nil
}

func (c *Collector) collect(ctx context.Context, e catalog.Entry, policy string) result {
	t := e.Tool
	res := result{snapshot: &types.ProductSnapshot{
		Name:          t.Name,
		Category:      e.Category,
		SupportPolicy: policy,
	}}
	s := res.snapshot

	fail := func(source string, err error) {
		log.Warnf("%s: %s fetch failed: %s", t.Name, source, err)
		res.failures++
	}

	if t.UsesEndOfLife() && c.eol != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			fail("endoflife", err)
		} else if records, err := c.eol.Fetch(t.Name); err != nil {
			fail("endoflife", err)
		} else {
			s.Records = records
			res.fetched++
		}
	}

	if t.GitHub != "" && c.repo != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			fail("github", err)
		} else if info, err := c.repo.Repository(ctx, t.GitHub); err != nil {
			fail("github", err)
		} else {
			s.Repository = info
			res.fetched++
		}

		if t.UsesGitHubReleases() {
			if err := c.limiter.Wait(ctx); err != nil {
				fail("github releases", err)
			} else if records, err := c.repo.Releases(ctx, t.GitHub); err != nil {
				fail("github releases", err)
			} else {
				s.Records = records
				res.fetched++
			}
		}
	}

	registries := []struct {
		name    string
		pkg     string
		fetcher RegistryFetcher
	}{
		{name: "npm", pkg: t.NpmPackage, fetcher: c.npm},
		{name: "pypi", pkg: t.PyPIPackage, fetcher: c.pypi},
	}
	for _, r := range registries {
		if r.pkg == "" || r.fetcher == nil || s.Registry != nil {
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			fail(r.name, err)
		} else if info, err := r.fetcher.Fetch(r.pkg); err != nil {
			fail(r.name, err)
		} else {
			s.Registry = info
			res.fetched++
		}
	}

	if t.StatusURL != "" && c.status != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			fail("status", err)
		} else {
			st := c.status.Check(t.StatusURL)
			s.Status = &st
			if st.Reachable {
				res.fetched++
			} else {
				res.failures++
			}
		}
	}

	return res
}
