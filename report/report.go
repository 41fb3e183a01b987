package report

import (
	"time"

	"github.com/tooltime/tooltime/catalog"
	"github.com/tooltime/tooltime/collector"
	"github.com/tooltime/tooltime/lifecycle"
	"github.com/tooltime/tooltime/types"
)

const titlePrefix = "Tech Stack Update"

type Options struct {
	StaleHorizon   time.Duration
	Lookahead      time.Duration
	WarningHorizon time.Duration
}

func DefaultOptions() Options {
	return Options{
		StaleHorizon:   lifecycle.DefaultStaleHorizon,
		Lookahead:      lifecycle.DefaultLookahead,
		WarningHorizon: lifecycle.DefaultWarningHorizon,
	}
}

type Report struct {
	GeneratedAt    time.Time
	WarningHorizon int
	Categories     []CategorySection
	Warnings       []lifecycle.Warning
	Releases       []lifecycle.UpcomingRelease
}

type CategorySection struct {
	Name  string
	Tools []ToolSection
}

type ToolSection struct {
	Name          string
	Tool          catalog.Tool
	Snapshot      *types.ProductSnapshot
	Classified    lifecycle.ClassifiedSet
	LatestStable  *types.VersionRecord
	LatestLTS     *types.VersionRecord
	SupportPolicy string
}

// HasLinks reports whether the catalog lists reference material for the tool.
func (t ToolSection) HasLinks() bool {
	return t.Tool.ReleaseNotes != "" || t.Tool.APIDocs != ""
}

// ShowLTS reports whether the latest LTS differs from the latest stable
// version and deserves its own block.
func (t ToolSection) ShowLTS() bool {
	if t.LatestLTS == nil {
		return false
	}
	return t.LatestStable == nil || t.LatestStable.Cycle != t.LatestLTS.Cycle
}

// Title is the document title and default email subject for a report
// generated at now.
func Title(now time.Time) string {
	return titlePrefix + " - " + now.Format("January 2006")
}

func (r Report) Title() string {
	return Title(r.GeneratedAt)
}

// Build assembles the report in catalog order. Products missing from the run
// are left out, and so are categories left without products.
func Build(cat *catalog.Catalog, run collector.Run, now time.Time, opts Options) Report {
	r := Report{
		GeneratedAt:    now,
		WarningHorizon: int(opts.WarningHorizon / lifecycle.Day),
	}

	for _, c := range cat.Categories {
		section := CategorySection{Name: c.Name}
		for _, t := range c.Tools {
			s, ok := run.Snapshots[t.Name]
			if !ok || !s.HasData() {
				continue
			}
			policy := s.SupportPolicy
			if policy == "" {
				policy = cat.SupportPolicy(t.Name)
			}
			section.Tools = append(section.Tools, ToolSection{
				Name:          t.Name,
				Tool:          t,
				Snapshot:      s,
				Classified:    lifecycle.Classify(s.Records, now, opts.StaleHorizon, opts.Lookahead),
				LatestStable:  lifecycle.LatestStable(s.Records),
				LatestLTS:     lifecycle.LatestLTS(s.Records),
				SupportPolicy: policy,
			})
		}
		if len(section.Tools) > 0 {
			r.Categories = append(r.Categories, section)
		}
	}

	warnings, releases := lifecycle.Scan(run.Records(), now, opts.WarningHorizon)
	r.Warnings = lifecycle.SortWarnings(warnings)
	r.Releases = lifecycle.SortReleases(releases)
	return r
}

// EOLText renders an end-of-life value for people.
func EOLText(e types.EOL) string {
	switch e.Kind {
	case types.Indefinite:
		return "Supported"
	case types.Dated:
		return e.Date.Format(types.DateLayout)
	}
	return "Check vendor website"
}

// SupportText renders an active-support value for people.
func SupportText(s types.Support) string {
	switch {
	case s.Kind == types.Indefinite:
		return "Active"
	case s.Kind == types.Dated:
		return "Until " + s.Date.Format(types.DateLayout)
	case s.Raw == "false":
		return "Ended"
	}
	return "Check vendor website"
}

// StatusText is the status column of the version tables.
func StatusText(v lifecycle.ActiveVersion) string {
	if v.EOL.Kind == types.Indefinite {
		return "Active"
	}
	return "EOL by " + v.EOL.Date.Format(types.DateLayout)
}

func EndedText(r types.VersionRecord) string {
	return "Ended " + r.EOL.Date.Format(types.DateLayout)
}

func LTSText(lts bool) string {
	if lts {
		return "LTS"
	}
	return "Non-LTS"
}

func dateText(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Format(types.DateLayout)
}
