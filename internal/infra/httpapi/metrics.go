package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 抽出結果のoutcomeラベル値
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics はHTTP層で記録する業務メトリクス
type Metrics struct {
	jobsStarted prometheus.Counter
	extractions *prometheus.CounterVec
}

// NewMetrics はメトリクスを作成してレジストリに登録する
// reg が nil の場合はデフォルトレジストリを使う
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		jobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "code_review_jobs_started_total",
			Help: "Number of repository fetch jobs started.",
		}),
		extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "code_review_extractions_total",
			Help: "Number of function extraction requests, by outcome.",
		}, []string{"outcome"}),
	}
}

// JobStarted はジョブ開始を記録する
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsStarted.Inc()
}

// ExtractionCompleted は抽出リクエストの結果を記録する
func (m *Metrics) ExtractionCompleted(outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
}
