package catalog

import (
	"context"
	_ "embed"
	"os"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/tooltime/tooltime/utils"
)

const (
	SourceEndOfLife      = "endoflife"
	ReleasePatternGitHub = "github"
)

//go:embed default.yaml
var defaultCatalog []byte

type Catalog struct {
	Categories      []Category        `yaml:"categories"`
	SupportPolicies map[string]string `yaml:"support_policies"`
}

type Category struct {
	Name  string `yaml:"name"`
	Tools []Tool `yaml:"tools"`
}

// Tool describes where the lifecycle data of one product comes from.
type Tool struct {
	Name           string   `yaml:"name"`
	Source         string   `yaml:"source,omitempty"`
	GitHub         string   `yaml:"github,omitempty"`
	ReleasePattern string   `yaml:"release_pattern,omitempty"`
	PackageManager string   `yaml:"package_manager,omitempty"`
	NpmPackage     string   `yaml:"npm_package,omitempty"`
	PyPIPackage    string   `yaml:"pypi_package,omitempty"`
	StatusURL      string   `yaml:"status_url,omitempty"`
	ReleaseNotes   string   `yaml:"release_notes,omitempty"`
	APIDocs        string   `yaml:"api_docs,omitempty"`
	Models         []string `yaml:"models,omitempty"`
}

func (t Tool) UsesEndOfLife() bool {
	return t.Source == SourceEndOfLife
}

func (t Tool) UsesGitHubReleases() bool {
	return t.ReleasePattern == ReleasePatternGitHub
}

// Entry is a tool together with the category it is listed under.
type Entry struct {
	Category string
	Tool     Tool
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, xerrors.Errorf("invalid built-in catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog from src, which may be a local path or any source
// go-getter understands. An empty src yields the built-in catalog.
func Load(ctx context.Context, src string) (*Catalog, error) {
	if src == "" {
		return Default()
	}

	log.Printf("Loading catalog from %s", src)
	path, err := utils.DownloadToTempFile(ctx, src)
	if err != nil {
		return nil, xerrors.Errorf("failed to download catalog: %w", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("unable to read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, xerrors.Errorf("unable to parse catalog YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	seen := map[string]bool{}
	for _, e := range c.Entries() {
		t := e.Tool
		switch {
		case t.Name == "":
			return xerrors.Errorf("category %s: tool without a name", e.Category)
		case seen[t.Name]:
			return xerrors.Errorf("duplicate tool: %s", t.Name)
		case t.Source != "" && t.Source != SourceEndOfLife:
			return xerrors.Errorf("%s: unsupported source %q", t.Name, t.Source)
		case t.ReleasePattern != "" && t.ReleasePattern != ReleasePatternGitHub:
			return xerrors.Errorf("%s: unsupported release pattern %q", t.Name, t.ReleasePattern)
		case t.UsesGitHubReleases() && t.GitHub == "":
			return xerrors.Errorf("%s: release pattern github requires a github repository", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// Entries flattens the catalog, keeping category and tool order.
func (c *Catalog) Entries() []Entry {
	return lo.FlatMap(c.Categories, func(cat Category, _ int) []Entry {
		return lo.Map(cat.Tools, func(t Tool, _ int) Entry {
			return Entry{Category: cat.Name, Tool: t}
		})
	})
}

func (c *Catalog) SupportPolicy(tool string) string {
	return c.SupportPolicies[tool]
}
