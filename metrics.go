package snippet

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	runs         *prometheus.CounterVec
	failures     *prometheus.CounterVec
	durations    *prometheus.SummaryVec
	declarations prometheus.Counter
	statements   *prometheus.CounterVec
}

func setupMetrics(registerer prometheus.Registerer) *metrics {

	const prometheusLabelLanguage = "language"
	const prometheusLabelStatus = "status"

	m := &metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snippet_runs_total",
				Help: "number of interpreted snippets by detected language",
			},
			[]string{prometheusLabelLanguage},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snippet_failures_total",
				Help: "number of snippets, that could not be processed",
			},
			[]string{prometheusLabelLanguage},
		),
		durations: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "snippet_run_durations_seconds",
				Help:       "time from classification to the finished result",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{prometheusLabelLanguage},
		),
		declarations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snippet_inlined_declarations_total",
			Help: "style declarations appended to elements",
		}),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snippet_query_statements_total",
			Help: "executed query statements",
		}, []string{prometheusLabelStatus}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.runs,
			m.failures,
			m.durations,
			m.declarations,
			m.statements,
		)
	}
	return m
}
