package lifecycle

import (
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tooltime/tooltime/types"
)

type Warning struct {
	Product       string
	Version       string
	EOLDate       time.Time
	DaysRemaining int
}

type UpcomingRelease struct {
	Product     string
	Version     string
	ReleaseDate time.Time
	DaysUntil   int
}

type scanResult struct {
	warnings []Warning
	releases []UpcomingRelease
}

// Scan collects EOL warnings and upcoming releases that fall within horizon
// of now. An EOL on the current day is reported; a release on the current day
// is not. Records lacking a cycle or a declared EOL are ignored, and a record
// whose EOL is not a date string is skipped entirely. Neither output is
// sorted.
func Scan(records map[string][]types.VersionRecord, now time.Time, horizon time.Duration) ([]Warning, []UpcomingRelease) {
	horizonDays := int(horizon / Day)

	products := maps.Keys(records)
	slices.Sort(products)

	var acc scanResult
	for _, product := range products {
		for _, r := range records[product] {
			acc = acc.scan(product, r, now, horizonDays)
		}
	}
	return acc.warnings, acc.releases
}

func (acc scanResult) scan(product string, r types.VersionRecord, now time.Time, horizonDays int) scanResult {
	if r.Cycle == "" || !r.EOL.Declared() || r.EOL.Malformed() {
		return acc
	}

	if r.EOL.Kind == types.Dated {
		days := DaysBetween(now, r.EOL.Date)
		if days >= 0 && days <= horizonDays {
			acc.warnings = append(acc.warnings, Warning{
				Product:       product,
				Version:       r.Cycle,
				EOLDate:       r.EOL.Date,
				DaysRemaining: days,
			})
		}
	}

	if r.ReleaseDate != nil {
		days := DaysBetween(now, *r.ReleaseDate)
		if days > 0 && days <= horizonDays {
			acc.releases = append(acc.releases, UpcomingRelease{
				Product:     product,
				Version:     r.Cycle,
				ReleaseDate: *r.ReleaseDate,
				DaysUntil:   days,
			})
		}
	}
	return acc
}

// SortWarnings orders warnings by days remaining, soonest first.
func SortWarnings(warnings []Warning) []Warning {
	sorted := slices.Clone(warnings)
	slices.SortStableFunc(sorted, func(a, b Warning) int {
		return a.DaysRemaining - b.DaysRemaining
	})
	return sorted
}

// SortReleases orders releases by days until release, soonest first.
func SortReleases(releases []UpcomingRelease) []UpcomingRelease {
	sorted := slices.Clone(releases)
	slices.SortStableFunc(sorted, func(a, b UpcomingRelease) int {
		return a.DaysUntil - b.DaysUntil
	})
	return sorted
}
