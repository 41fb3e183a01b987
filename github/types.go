package github

import (
	githubql "github.com/shurcooL/githubv4"
)

type RepositoryQuery struct {
	Repository Repository `graphql:"repository(owner: $owner, name: $name)"`
}

type Repository struct {
	NameWithOwner  githubql.String
	Description    githubql.String
	Url            githubql.String
	StargazerCount githubql.Int
	ForkCount      githubql.Int
	Watchers       struct {
		TotalCount githubql.Int
	}
	CreatedAt githubql.DateTime
}

type ReleasesQuery struct {
	Repository struct {
		Releases struct {
			Nodes []Release
		} `graphql:"releases(first: $total, orderBy: {field: CREATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type Release struct {
	TagName      githubql.String
	PublishedAt  *githubql.DateTime
	IsDraft      githubql.Boolean
	IsPrerelease githubql.Boolean
}
