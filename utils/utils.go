package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/parnurzeal/gorequest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	userAgent      = "tooltime (+https://github.com/tooltime/tooltime)"
	requestTimeout = 30 * time.Second
)

// GenWorkers starts num workers draining the returned channel. wait closes
// the channel and blocks until every queued task has run.
func GenWorkers(num int) (tasks chan<- func(), wait func()) {
	ch := make(chan func())
	var wg sync.WaitGroup
	for i := 0; i < num; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range ch {
				f()
			}
		}()
	}
	return ch, func() {
		close(ch)
		wg.Wait()
	}
}

// FetchURL returns the HTTP response body. Any 2xx status is a success.
// Upstream data sources are queried exactly once; a failure is returned to
// the caller as is.
func FetchURL(url, token string) ([]byte, error) {
	req := gorequest.New().Get(url).
		Timeout(requestTimeout).
		Set("User-Agent", userAgent)
	if token != "" {
		req.Set("Authorization", "Bearer "+token)
	}
	resp, body, errs := req.Type("text").EndBytes()
	if len(errs) > 0 {
		return nil, xerrors.Errorf("HTTP error. url: %s, err: %w", url, errs[0])
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.Errorf("HTTP error. status code: %d, url: %s", resp.StatusCode, url)
	}
	return body, nil
}

// SetLogLevel configures the package-level logrus logger.
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info", "":
		log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		return xerrors.Errorf("unknown log level: %s", level)
	}
	return nil
}
