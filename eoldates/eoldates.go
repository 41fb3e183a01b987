package eoldates

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/types"
	"github.com/tooltime/tooltime/utils"
)

const apiURL = "https://endoflife.date/api"

type Config struct {
	url string
}

type option func(*Config)

func WithURL(url string) option {
	return func(c *Config) {
		c.url = url
	}
}

func NewConfig(opts ...option) *Config {
	c := &Config{
		url: apiURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch returns the release cycles endoflife.date knows for product.
func (c Config) Fetch(product string) ([]types.VersionRecord, error) {
	u := fmt.Sprintf("%s/%s.json", strings.TrimSuffix(c.url, "/"), url.PathEscape(product))
	log.Printf("Fetching EOL data from %s", u)

	body, err := utils.FetchURL(u, "")
	if err != nil {
		return nil, xerrors.Errorf("unable to get EOL dates for %s: %w", product, err)
	}

	records, err := ParseCycles(body)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", product, err)
	}
	return records, nil
}

// ParseCycles decodes a cycle list. Entries that are not JSON objects are
// skipped.
func ParseCycles(body []byte) ([]types.VersionRecord, error) {
	var cycles []json.RawMessage
	if err := json.Unmarshal(body, &cycles); err != nil {
		return nil, xerrors.Errorf("unable to parse JSON: %w", err)
	}

	records := make([]types.VersionRecord, 0, len(cycles))
	for i, raw := range cycles {
		var r types.VersionRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			log.Warnf("Skipping malformed cycle #%d: %s", i, err)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
