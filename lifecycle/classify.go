package lifecycle

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/tooltime/tooltime/types"
)

const Day = 24 * time.Hour

const (
	// DefaultStaleHorizon is how far back expired versions are still reported.
	DefaultStaleHorizon = 730 * Day
	// DefaultLookahead flags active versions whose EOL falls inside it.
	DefaultLookahead = 182 * Day
	// DefaultWarningHorizon bounds EOL warnings and upcoming releases.
	DefaultWarningHorizon = 90 * Day
)

type ActiveVersion struct {
	types.VersionRecord
	ApproachingEOL bool
}

// ClassifiedSet partitions the versions of one product. It is derived from
// the records and the instant passed to Classify and is never mutated.
type ClassifiedSet struct {
	Active      []ActiveVersion
	RecentlyEOL []types.VersionRecord
}

func (s ClassifiedSet) Empty() bool {
	return len(s.Active) == 0 && len(s.RecentlyEOL) == 0
}

// Classify splits records into active and recently-EOL versions as of now.
// Records whose EOL is unknown are dropped. Active versions are ordered by
// EOL date with never-expiring ones last; recently-EOL versions are ordered
// most recent first.
func Classify(records []types.VersionRecord, now time.Time, staleHorizon, lookahead time.Duration) ClassifiedSet {
	today := types.CivilDay(now)
	approachingBy := today.Add(lookahead)
	staleBefore := today.Add(-staleHorizon)

	var set ClassifiedSet
	for _, r := range records {
		switch r.EOL.Kind {
		case types.Indefinite:
			set.Active = append(set.Active, ActiveVersion{VersionRecord: r})
		case types.Dated:
			d := r.EOL.Date
			switch {
			case d.After(today):
				set.Active = append(set.Active, ActiveVersion{
					VersionRecord:  r,
					ApproachingEOL: !d.After(approachingBy),
				})
			case d.After(staleBefore):
				set.RecentlyEOL = append(set.RecentlyEOL, r)
			}
		}
	}

	slices.SortStableFunc(set.Active, func(a, b ActiveVersion) int {
		return compareEOL(a.EOL.Expiry, b.EOL.Expiry)
	})
	slices.SortStableFunc(set.RecentlyEOL, func(a, b types.VersionRecord) int {
		return b.EOL.Date.Compare(a.EOL.Date)
	})

	return set
}

// compareEOL orders dated expiries ascending and indefinite ones last.
func compareEOL(a, b types.Expiry) int {
	switch {
	case a.Kind == types.Indefinite && b.Kind == types.Indefinite:
		return 0
	case a.Kind == types.Indefinite:
		return 1
	case b.Kind == types.Indefinite:
		return -1
	}
	return a.Date.Compare(b.Date)
}

// DaysBetween returns the number of whole days from the civil day of now to d.
func DaysBetween(now, d time.Time) int {
	return int(types.CivilDay(d).Sub(types.CivilDay(now)) / Day)
}

// LatestStable returns the most recently released record. Records without a
// release date sort as the oldest.
func LatestStable(records []types.VersionRecord) *types.VersionRecord {
	sorted := byReleaseDesc(records)
	if len(sorted) == 0 {
		return nil
	}
	return &sorted[0]
}

// LatestLTS returns the most recently released LTS record, if any.
func LatestLTS(records []types.VersionRecord) *types.VersionRecord {
	for _, r := range byReleaseDesc(records) {
		if r.LTS {
			r := r
			return &r
		}
	}
	return nil
}

func byReleaseDesc(records []types.VersionRecord) []types.VersionRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b types.VersionRecord) int {
		return releaseDay(b).Compare(releaseDay(a))
	})
	return sorted
}

func releaseDay(r types.VersionRecord) time.Time {
	if r.ReleaseDate == nil {
		return time.Time{}
	}
	return *r.ReleaseDate
}
