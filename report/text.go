package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/types"
)

// WriteText writes the plain-text rendition of r.
func WriteText(w io.Writer, r Report) error {
	tw := &textWriter{w: w}

	tw.println("\n=== Current Version Status ===")
	for _, c := range r.Categories {
		tw.printf("\n%s\n%s\n", strings.ToUpper(c.Name), strings.Repeat("=", len(c.Name)))
		for _, t := range c.Tools {
			tw.tool(t)
		}
	}

	tw.printf("\n=== EOL Warnings (Next %d Days) ===\n", r.WarningHorizon)
	if len(r.Warnings) == 0 {
		tw.println("No immediate EOL warnings.")
	}
	for _, warn := range r.Warnings {
		tw.printf("%s %s: EOL in %d days (%s)\n",
			warn.Product, warn.Version, warn.DaysRemaining, warn.EOLDate.Format(types.DateLayout))
	}

	tw.printf("\n=== Upcoming Releases (Next %d Days) ===\n", r.WarningHorizon)
	if len(r.Releases) == 0 {
		tw.println("No upcoming releases found.")
	}
	for _, rel := range r.Releases {
		tw.printf("%s %s: Releasing in %d days (%s)\n",
			rel.Product, rel.Version, rel.DaysUntil, rel.ReleaseDate.Format(types.DateLayout))
	}

	if tw.err != nil {
		return xerrors.Errorf("failed to write text report: %w", tw.err)
	}
	return nil
}

// textWriter remembers the first write error so the layout code stays flat.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...interface{}) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) println(s string) {
	tw.printf("%s\n", s)
}

func (tw *textWriter) tool(t ToolSection) {
	tw.printf("\n%s\n%s\n", strings.ToUpper(t.Name), strings.Repeat("-", len(t.Name)))

	if !t.Classified.Empty() {
		tw.println("")
		tab := tabwriter.NewWriter(tw.w, 0, 0, 2, ' ', 0)
		rows := []string{"VERSION\tSTATUS\tLTS"}
		for _, v := range t.Classified.Active {
			status := StatusText(v)
			if v.ApproachingEOL {
				status += " (approaching)"
			}
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s", v.Cycle, status, LTSText(v.LTS)))
		}
		for _, v := range t.Classified.RecentlyEOL {
			rows = append(rows, fmt.Sprintf("%s\t%s\t%s", v.Cycle, EndedText(v), LTSText(v.LTS)))
		}
		for _, row := range rows {
			if tw.err == nil {
				_, tw.err = fmt.Fprintln(tab, row)
			}
		}
		if tw.err == nil {
			tw.err = tab.Flush()
		}
	}

	if t.LatestStable != nil {
		tw.println("\nLatest Stable Version:")
		tw.version(*t.LatestStable, false)
	}
	if t.ShowLTS() {
		tw.println("\nLatest LTS Version:")
		tw.version(*t.LatestLTS, true)
	}

	s := t.Snapshot
	if reg := s.Registry; reg != nil {
		tw.printf("\nRegistry (%s %s):\n", reg.Registry, reg.Package)
		tw.printf("  Latest Version: %s\n", reg.LatestVersion)
		if reg.LatestStable != "" && reg.LatestStable != reg.LatestVersion {
			tw.printf("  Latest Stable: %s\n", reg.LatestStable)
		}
		tw.printf("  Release Date: %s\n", dateText(reg.PublishedAt))
	}
	if repo := s.Repository; repo != nil {
		tw.printf("\nRepository: %s\n", repo.FullName)
		tw.printf("  Stars: %d  Forks: %d  Watchers: %d\n", repo.Stars, repo.Forks, repo.Watchers)
	}
	if st := s.Status; st != nil {
		indicator := st.Indicator
		if !st.Reachable {
			indicator = "unreachable"
		}
		tw.printf("\nService Status: %s\n", indicator)
	}

	if t.SupportPolicy != "" {
		tw.printf("\nSupport Policy:\n  %s\n", t.SupportPolicy)
	}

	tool := t.Tool
	if tool.PackageManager != "" {
		tw.printf("\nPackage Manager: %s\n", tool.PackageManager)
	}
	if len(tool.Models) > 0 {
		tw.printf("\nModels: %s\n", strings.Join(tool.Models, ", "))
	}
	if t.HasLinks() {
		tw.println("\nLinks:")
		if tool.ReleaseNotes != "" {
			tw.printf("  Release Notes: %s\n", tool.ReleaseNotes)
		}
		if tool.APIDocs != "" {
			tw.printf("  API Docs: %s\n", tool.APIDocs)
		}
	}
}

func (tw *textWriter) version(v types.VersionRecord, lts bool) {
	tw.printf("  Version: %s (Released: %s)\n", v.Cycle, dateText(v.ReleaseDate))
	tw.printf("  LTS: %s\n", yesNo(lts))
	tw.printf("  Support Status: %s\n", SupportText(v.Support))
	tw.printf("  End of Life: %s\n", EOLText(v.EOL))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
