package github

import (
	"context"
	"strings"

	githubql "github.com/shurcooL/githubv4"
	"github.com/shurcooL/graphql"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/types"
)

const maxReleases = 30

type Config struct {
	client      GithubClient
	maxReleases int
}

type GithubClient interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

func NewConfig(client GithubClient) Config {
	return Config{
		client:      client,
		maxReleases: maxReleases,
	}
}

// NewClient returns a GraphQL client authenticating with token. The token is
// passed through untouched.
func NewClient(ctx context.Context, token string) *githubql.Client {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return githubql.NewClient(oauth2.NewClient(ctx, src))
}

// Repository returns display metadata of an "owner/name" repository.
func (c Config) Repository(ctx context.Context, repo string) (*types.RepositoryInfo, error) {
	log.Printf("Fetching GitHub repository: %s", repo)

	variables, err := repoVariables(repo)
	if err != nil {
		return nil, err
	}

	var q RepositoryQuery
	if err = c.client.Query(ctx, &q, variables); err != nil {
		return nil, xerrors.Errorf("graphql api error: %w", err)
	}

	r := q.Repository
	return &types.RepositoryInfo{
		FullName:    string(r.NameWithOwner),
		Description: string(r.Description),
		URL:         string(r.Url),
		Stars:       int(r.StargazerCount),
		Forks:       int(r.ForkCount),
		Watchers:    int(r.Watchers.TotalCount),
		CreatedAt:   r.CreatedAt.Time,
	}, nil
}

// Releases returns the latest published releases of repo as version records.
// A release never expires, so its EOL is indefinite.
func (c Config) Releases(ctx context.Context, repo string) ([]types.VersionRecord, error) {
	log.Printf("Fetching GitHub releases: %s", repo)

	variables, err := repoVariables(repo)
	if err != nil {
		return nil, err
	}
	variables["total"] = graphql.Int(c.maxReleases)

	var q ReleasesQuery
	if err = c.client.Query(ctx, &q, variables); err != nil {
		return nil, xerrors.Errorf("graphql api error: %w", err)
	}
	return formatReleases(q.Repository.Releases.Nodes), nil
}

func formatReleases(releases []Release) []types.VersionRecord {
	var records []types.VersionRecord
	for _, rel := range releases {
		// drafts have no tag visible to the public
		if rel.IsDraft || rel.TagName == "" {
			continue
		}
		r := types.VersionRecord{
			Cycle:  string(rel.TagName),
			EOL:    types.EOL{Expiry: types.IndefiniteExpiry()},
			Latest: string(rel.TagName),
		}
		if rel.PublishedAt != nil {
			d := types.CivilDay(rel.PublishedAt.Time)
			r.ReleaseDate = &d
		}
		records = append(records, r)
	}
	return records
}

func repoVariables(repo string) (map[string]interface{}, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, xerrors.Errorf("invalid repository %q: want owner/name", repo)
	}
	return map[string]interface{}{
		"owner": githubql.String(owner),
		"name":  githubql.String(name),
	}, nil
}
