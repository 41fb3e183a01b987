package report

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/types"
)

//go:embed templates/*.tmpl
var templates embed.FS

type versionBlock struct {
	Record *types.VersionRecord
	LTS    bool
}

var funcs = template.FuncMap{
	"upper":   strings.ToUpper,
	"status":  StatusText,
	"ended":   EndedText,
	"lts":     LTSText,
	"eol":     EOLText,
	"support": SupportText,
	"date":    dateText,
	"join": func(items []string) string {
		return strings.Join(items, ", ")
	},
	"day": func(t time.Time) string {
		return t.Format(types.DateLayout)
	},
	"dict": func(r *types.VersionRecord, lts bool) versionBlock {
		return versionBlock{Record: r, LTS: lts}
	},
}

var page = template.Must(template.New("report.html.tmpl").Funcs(funcs).ParseFS(templates, "templates/report.html.tmpl"))

// RenderHTML writes r as a self-contained HTML document.
func RenderHTML(w io.Writer, r Report) error {
	if err := page.Execute(w, r); err != nil {
		return xerrors.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
