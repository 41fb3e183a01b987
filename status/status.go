package status

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/tooltime/tooltime/types"
	"github.com/tooltime/tooltime/utils"
)

// Statuspage puts the overall indicator here; other providers only have a
// meaningful <title>.
const indicatorSelector = ".page-status .status"

type Checker struct{}

func NewChecker() Checker {
	return Checker{}
}

// Check requests a status page. It never fails: an unreachable page is reported
// as such.
func (Checker) Check(url string) types.ServiceStatus {
	s := types.ServiceStatus{URL: url}

	body, err := utils.FetchURL(url, "")
	if err != nil {
		log.Warnf("Status page unreachable: %s", err)
		return s
	}
	s.Reachable = true
	s.Indicator = Indicator(body)
	return s
}

// Indicator extracts the overall status text of a status page.
func Indicator(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if text := clean(doc.Find(indicatorSelector).First().Text()); text != "" {
		return text
	}
	return clean(doc.Find("title").First().Text())
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
