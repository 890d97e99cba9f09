package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 操作标签
const (
	OpRetrieve = "retrieve"
	OpReplace  = "replace"
	OpBackup   = "backup"
)

// DocumentMetrics 记录文档读写与备份指标
type DocumentMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	size     prometheus.Gauge
}

// NewDocumentMetrics 在给定 registerer 上注册文档指标；reg 为空时返回空实现
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_operation_duration_seconds",
		Help:    "Duration of document operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_operation_success_total",
		Help: "Successful document operations.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_operation_failure_total",
		Help: "Failed document operations.",
	}, []string{"op"})
	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "document_size_bytes",
		Help: "Size of the last stored document in bytes.",
	})
	reg.MustRegister(duration, success, failure, size)
	return &DocumentMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		size:     size,
	}
}

// Observe 记录一次操作的耗时与结果
func (m *DocumentMetrics) Observe(op string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(op)
	m.duration.WithLabelValues(label).Observe(time.Since(started).Seconds())
	if err != nil {
		m.failure.WithLabelValues(label).Inc()
		return
	}
	m.success.WithLabelValues(label).Inc()
}

// SetSize 记录最近一次写入的文档大小
func (m *DocumentMetrics) SetSize(bytes int) {
	if m == nil || m.size == nil {
		return
	}
	m.size.Set(float64(bytes))
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
