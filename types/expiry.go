package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/xerrors"
)

const DateLayout = "2006-01-02"

type ExpiryKind int

const (
	// Unknown means the source had no usable data for the field.
	Unknown ExpiryKind = iota
	// Indefinite means the field never expires.
	Indefinite
	// Dated means the field expires on Expiry.Date.
	Dated
)

func (k ExpiryKind) String() string {
	switch k {
	case Indefinite:
		return "indefinite"
	case Dated:
		return "dated"
	default:
		return "unknown"
	}
}

// Expiry is the decoded form of the boolean-or-string fields served by
// lifecycle APIs. Raw keeps the scalar the source sent ("false", "true",
// "2025-04-30", "Unknown") and is empty when the field was null or absent.
type Expiry struct {
	Kind ExpiryKind
	Date time.Time
	Raw  string
}

func IndefiniteExpiry() Expiry {
	return Expiry{Kind: Indefinite, Raw: "false"}
}

func DateExpiry(d time.Time) Expiry {
	d = CivilDay(d)
	return Expiry{Kind: Dated, Date: d, Raw: d.Format(DateLayout)}
}

// Declared reports whether the source carried a value that is neither false
// nor null.
func (e Expiry) Declared() bool {
	switch e.Kind {
	case Dated:
		return true
	case Unknown:
		return e.Raw != ""
	}
	return false
}

// Malformed reports whether the source sent a string that is not a date.
func (e Expiry) Malformed() bool {
	return e.Kind == Unknown && e.Raw != "" && e.Raw != "true" && e.Raw != "false"
}

func (e Expiry) String() string {
	if e.Kind == Dated {
		return e.Date.Format(DateLayout)
	}
	return e.Kind.String()
}

// EOL decodes "eol": false never expires, true carries no date.
type EOL struct {
	Expiry
}

func (e *EOL) UnmarshalJSON(data []byte) error {
	e.Expiry = decodeExpiry(data, Unknown, Indefinite)
	return nil
}

// Support decodes "support": true is still supported, false has ended
// without a date.
type Support struct {
	Expiry
}

func (s *Support) UnmarshalJSON(data []byte) error {
	s.Expiry = decodeExpiry(data, Indefinite, Unknown)
	return nil
}

func decodeExpiry(data []byte, onTrue, onFalse ExpiryKind) Expiry {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return Expiry{}
	}

	switch val := v.(type) {
	case bool:
		if val {
			return Expiry{Kind: onTrue, Raw: "true"}
		}
		return Expiry{Kind: onFalse, Raw: "false"}
	case string:
		d, err := ParseDate(val)
		if err != nil {
			return Expiry{Kind: Unknown, Raw: val}
		}
		return Expiry{Kind: Dated, Date: d, Raw: val}
	}
	return Expiry{}
}

// ParseDate parses a date or timestamp and returns its UTC civil day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, xerrors.New("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, xerrors.Errorf("invalid date %q: %w", s, err)
	}
	return CivilDay(t), nil
}

// CivilDay truncates t to midnight of its UTC calendar day.
func CivilDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
