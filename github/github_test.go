package github

import (
	"context"
	"errors"
	"testing"
	"time"

	githubql "github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooltime/tooltime/types"
)

type MockClient struct {
	Repository RepositoryQuery
	Releases   ReleasesQuery
	Error      error
	Variables  map[string]interface{}
}

func (mc *MockClient) Query(ctx context.Context, q interface{}, variables map[string]interface{}) error {
	mc.Variables = variables
	if mc.Error != nil {
		return mc.Error
	}

	switch query := q.(type) {
	case *RepositoryQuery:
		*query = mc.Repository
	case *ReleasesQuery:
		*query = mc.Releases
	}
	return nil
}

func dateTime(s string) *githubql.DateTime {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &githubql.DateTime{Time: t}
}

func TestConfig_Repository(t *testing.T) {
	mc := &MockClient{}
	mc.Repository.Repository = Repository{
		NameWithOwner:  "astral-sh/uv",
		Description:    "An extremely fast Python package and project manager, written in Rust.",
		Url:            "https://github.com/astral-sh/uv",
		StargazerCount: 52000,
		ForkCount:      1500,
		CreatedAt:      *dateTime("2023-10-02T13:12:24Z"),
	}
	mc.Repository.Repository.Watchers.TotalCount = 180

	got, err := NewConfig(mc).Repository(context.Background(), "astral-sh/uv")
	require.NoError(t, err)

	assert.Equal(t, &types.RepositoryInfo{
		FullName:    "astral-sh/uv",
		Description: "An extremely fast Python package and project manager, written in Rust.",
		URL:         "https://github.com/astral-sh/uv",
		Stars:       52000,
		Forks:       1500,
		Watchers:    180,
		CreatedAt:   dateTime("2023-10-02T13:12:24Z").Time,
	}, got)
	assert.Equal(t, githubql.String("astral-sh"), mc.Variables["owner"])
	assert.Equal(t, githubql.String("uv"), mc.Variables["name"])
}

func TestConfig_Releases(t *testing.T) {
	mc := &MockClient{}
	mc.Releases.Repository.Releases.Nodes = []Release{
		{TagName: "v1.12.0", PublishedAt: dateTime("2025-05-14T22:10:03Z")},
		{TagName: "v1.13.0-rc1", IsDraft: true},
		{TagName: "v1.11.4", PublishedAt: dateTime("2025-04-09T08:00:00Z"), IsPrerelease: false},
		{TagName: "nightly"},
	}

	got, err := NewConfig(mc).Releases(context.Background(), "hashicorp/terraform")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "v1.12.0", got[0].Cycle)
	assert.Equal(t, "v1.12.0", got[0].Latest)
	assert.Equal(t, types.Indefinite, got[0].EOL.Kind)
	require.NotNil(t, got[0].ReleaseDate)
	assert.Equal(t, "2025-05-14", got[0].ReleaseDate.Format(types.DateLayout))

	assert.Equal(t, "nightly", got[2].Cycle)
	assert.Nil(t, got[2].ReleaseDate)
}

func TestConfig_Errors(t *testing.T) {
	mc := &MockClient{Error: errors.New("API rate limit exceeded")}
	c := NewConfig(mc)

	_, err := c.Repository(context.Background(), "golang/go")
	require.ErrorContains(t, err, "graphql api error: API rate limit exceeded")

	_, err = c.Releases(context.Background(), "golang")
	require.ErrorContains(t, err, "invalid repository")
}
