package registry

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/araddon/dateparse"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/types"
	"github.com/tooltime/tooltime/utils"
)

const (
	npmURL  = "https://registry.npmjs.org"
	pypiURL = "https://pypi.org"
)

type options struct {
	url string
}

type option func(*options)

func WithURL(url string) option {
	return func(opts *options) { opts.url = url }
}

type Npm struct {
	*options
}

func NewNpm(opts ...option) Npm {
	o := &options{url: npmURL}
	for _, opt := range opts {
		opt(o)
	}
	return Npm{options: o}
}

// Fetch returns the latest published version of an npm package.
func (n Npm) Fetch(pkg string) (*types.RegistryInfo, error) {
	u := fmt.Sprintf("%s/%s", strings.TrimSuffix(n.url, "/"), url.PathEscape(pkg))
	log.Printf("Fetching npm package: %s", pkg)

	body, err := utils.FetchURL(u, "")
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch npm package %s: %w", pkg, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, xerrors.Errorf("npm package %s: invalid JSON", pkg)
	}

	latest := gjson.GetBytes(body, "dist-tags.latest").String()
	if latest == "" {
		return nil, xerrors.Errorf("npm package %s: no latest dist-tag", pkg)
	}

	var versions []string
	gjson.GetBytes(body, "versions").ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})

	info := &types.RegistryInfo{
		Registry:      "npm",
		Package:       pkg,
		LatestVersion: latest,
		LatestStable:  LatestStable(versions),
		VersionCount:  len(versions),
	}
	gjson.GetBytes(body, "time").ForEach(func(key, value gjson.Result) bool {
		if key.String() != latest {
			return true
		}
		info.PublishedAt = parseTimestamp(value.String())
		return false
	})
	return info, nil
}

type PyPI struct {
	*options
}

func NewPyPI(opts ...option) PyPI {
	o := &options{url: pypiURL}
	for _, opt := range opts {
		opt(o)
	}
	return PyPI{options: o}
}

// Fetch returns the latest published version of a PyPI project.
func (p PyPI) Fetch(pkg string) (*types.RegistryInfo, error) {
	u := fmt.Sprintf("%s/pypi/%s/json", strings.TrimSuffix(p.url, "/"), url.PathEscape(pkg))
	log.Printf("Fetching PyPI package: %s", pkg)

	body, err := utils.FetchURL(u, "")
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch PyPI package %s: %w", pkg, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, xerrors.Errorf("PyPI package %s: invalid JSON", pkg)
	}

	latest := gjson.GetBytes(body, "info.version").String()
	if latest == "" {
		return nil, xerrors.Errorf("PyPI package %s: no version in project info", pkg)
	}

	var versions []string
	gjson.GetBytes(body, "releases").ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})

	return &types.RegistryInfo{
		Registry:      "pypi",
		Package:       pkg,
		LatestVersion: latest,
		LatestStable:  LatestStable(versions),
		PublishedAt:   parseTimestamp(gjson.GetBytes(body, "urls.0.upload_time_iso_8601").String()),
		VersionCount:  len(versions),
	}, nil
}

// LatestStable returns the highest version that is valid semver and not a
// pre-release, or "" if there is none.
func LatestStable(versions []string) string {
	var best *semver.Version
	var bestRaw string
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
