package metrics

import "github.com/prometheus/client_golang/prometheus"

// Loader counts container loads and resource fetches.
// A nil *Loader is valid and records nothing.
type Loader struct {
	loads     *prometheus.CounterVec
	artboards prometheus.Counter
	resources *prometheus.CounterVec
}

// NewLoader creates the loader metrics and registers them with reg.
func NewLoader(reg prometheus.Registerer) (*Loader, error) {
	m := &Loader{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xd_loads_total",
				Help: "Total number of XD container loads by result.",
			},
			[]string{"result"},
		),
		artboards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xd_artboards_loaded_total",
			Help: "Total number of artboards parsed from successfully loaded containers.",
		}),
		resources: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xd_resource_fetches_total",
				Help: "Total number of pattern resource fetches by result.",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.loads, m.artboards, m.resources} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveLoad records one load attempt. artboards is only counted for "ok".
func (m *Loader) ObserveLoad(result string, artboards int) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(result).Inc()
	if result == "ok" {
		m.artboards.Add(float64(artboards))
	}
}

// ObserveResource records one resource fetch.
func (m *Loader) ObserveResource(result string) {
	if m == nil {
		return
	}
	m.resources.WithLabelValues(result).Inc()
}
