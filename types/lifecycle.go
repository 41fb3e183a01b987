package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// VersionRecord is one release cycle of one product.
type VersionRecord struct {
	Cycle             string
	ReleaseDate       *time.Time
	EOL               EOL
	LTS               bool
	Support           Support
	Latest            string
	LatestReleaseDate *time.Time
	Link              string
}

type versionRecordJSON struct {
	Cycle             text            `json:"cycle"`
	ReleaseDate       text            `json:"releaseDate"`
	EOL               EOL             `json:"eol"`
	LTS               json.RawMessage `json:"lts"`
	Support           Support         `json:"support"`
	Latest            text            `json:"latest"`
	LatestReleaseDate text            `json:"latestReleaseDate"`
	Link              text            `json:"link"`
}

// UnmarshalJSON decodes a cycle as served by endoflife.date. Fields with an
// unexpected shape are treated as absent rather than failing the record.
func (r *VersionRecord) UnmarshalJSON(data []byte) error {
	var raw versionRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = VersionRecord{
		Cycle:             string(raw.Cycle),
		ReleaseDate:       optionalDate(string(raw.ReleaseDate)),
		EOL:               raw.EOL,
		LTS:               decodeLTS(raw.LTS),
		Support:           raw.Support,
		Latest:            string(raw.Latest),
		LatestReleaseDate: optionalDate(string(raw.LatestReleaseDate)),
		Link:              string(raw.Link),
	}
	return nil
}

// lts is either a boolean or the date the cycle entered LTS.
func decodeLTS(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		_, err := ParseDate(val)
		return err == nil
	}
	return false
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// text accepts JSON strings and numbers; anything else decodes as empty.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		*t = text(val)
	case float64:
		*t = text(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		*t = ""
	}
	return nil
}

// ProductSnapshot is everything fetched for one product during one run.
type ProductSnapshot struct {
	Name          string
	Category      string
	Records       []VersionRecord
	Registry      *RegistryInfo
	Repository    *RepositoryInfo
	Status        *ServiceStatus
	SupportPolicy string
}

// HasData reports whether any source returned something for the product.
func (s *ProductSnapshot) HasData() bool {
	if s == nil {
		return false
	}
	return len(s.Records) > 0 || s.Registry != nil || s.Repository != nil || s.Status != nil
}

type RegistryInfo struct {
	Registry      string
	Package       string
	LatestVersion string
	LatestStable  string
	PublishedAt   *time.Time
	VersionCount  int
}

type RepositoryInfo struct {
	FullName    string
	Description string
	URL         string
	Stars       int
	Forks       int
	Watchers    int
	CreatedAt   time.Time
}

type ServiceStatus struct {
	URL       string
	Reachable bool
	Indicator string
}
