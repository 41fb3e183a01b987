package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/collector"
	"github.com/tooltime/tooltime/report"
)

// Metrics bundles the gauges describing one report run.
type Metrics struct {
	ProductsTracked  prometheus.Gauge
	FetchFailures    prometheus.Gauge
	EOLWarnings      prometheus.Gauge
	UpcomingReleases prometheus.Gauge
	ActiveVersions   *prometheus.GaugeVec
	registry         *prometheus.Registry
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ProductsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tooltime_products_tracked",
			Help: "Number of products with data in the last run.",
		}),
		FetchFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tooltime_fetch_failures",
			Help: "Number of failed upstream fetches in the last run.",
		}),
		EOLWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tooltime_eol_warnings",
			Help: "Number of versions reaching end of life within the warning horizon.",
		}),
		UpcomingReleases: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tooltime_upcoming_releases",
			Help: "Number of releases scheduled within the warning horizon.",
		}),
		ActiveVersions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tooltime_active_versions",
			Help: "Number of active versions per product.",
		}, []string{"product"}),
		registry: registry,
	}

	registry.MustRegister(
		m.ProductsTracked,
		m.FetchFailures,
		m.EOLWarnings,
		m.UpcomingReleases,
		m.ActiveVersions,
	)

	return m
}

func (m *Metrics) Record(run collector.Run, r report.Report) {
	m.ProductsTracked.Set(float64(len(run.Snapshots)))
	m.FetchFailures.Set(float64(run.Failures))
	m.EOLWarnings.Set(float64(len(r.Warnings)))
	m.UpcomingReleases.Set(float64(len(r.Releases)))

	m.ActiveVersions.Reset()
	for _, c := range r.Categories {
		for _, t := range c.Tools {
			m.ActiveVersions.WithLabelValues(t.Name).Set(float64(len(t.Classified.Active)))
		}
	}
}

// WriteFile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return xerrors.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
