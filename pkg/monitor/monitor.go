// Package monitor exports Prometheus metrics for model fitting and
// prediction.
//
// A Collector is created against a caller-supplied Registerer so that several
// models, or tests, can use separate registries:
//
//	reg := prometheus.NewRegistry()
//	mon := monitor.NewCollector(reg)
//	model := eigenpro.NewFastKernelRegression(eigenpro.WithMonitor(mon))
package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eigenpro"

// Collector groups the fit and predict metrics. A nil *Collector is valid
// and records nothing.
type Collector struct {
	FitDuration     *prometheus.HistogramVec
	FitsTotal       *prometheus.CounterVec
	EpochsTotal     *prometheus.CounterVec
	BatchesTotal    *prometheus.CounterVec
	PredictDuration *prometheus.HistogramVec
	PredictedRows   *prometheus.CounterVec
	StepSize        *prometheus.GaugeVec
	BatchSize       *prometheus.GaugeVec
	NComponents     *prometheus.GaugeVec
}

// NewCollector creates the metrics and registers them on reg. A nil reg
// creates unregistered metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		FitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fit_duration_seconds",
				Help:      "The duration of model fits in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15), // From 10ms to ~164s
			},
			[]string{"kernel"},
		),
		FitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "The total number of fits by outcome",
			},
			[]string{"kernel", "status"},
		),
		EpochsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "epochs_total",
				Help:      "The total number of completed training epochs",
			},
			[]string{"kernel"},
		),
		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "The total number of mini-batch updates",
			},
			[]string{"kernel"},
		),
		PredictDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "predict_duration_seconds",
				Help:      "The duration of predict calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // From 1ms to ~16s
			},
			[]string{"kernel"},
		),
		PredictedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predicted_rows_total",
				Help:      "The total number of rows predicted",
			},
			[]string{"kernel"},
		),
		StepSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "step_size",
				Help:      "Step size eta chosen by the last fit",
			},
			[]string{"kernel"},
		),
		BatchSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "Mini-batch size chosen by the last fit",
			},
			[]string{"kernel"},
		),
		NComponents: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "n_components",
				Help:      "Preconditioner rank chosen by the last fit",
			},
			[]string{"kernel"},
		),
	}
}

// ObserveSetup records the hyperparameters resolved at the start of a fit.
func (c *Collector) ObserveSetup(kernel string, eta float64, bs, nComponents int) {
	if c == nil {
		return
	}
	c.StepSize.WithLabelValues(kernel).Set(eta)
	c.BatchSize.WithLabelValues(kernel).Set(float64(bs))
	c.NComponents.WithLabelValues(kernel).Set(float64(nComponents))
}

// ObserveEpoch records a finished epoch made of batches updates.
func (c *Collector) ObserveEpoch(kernel string, batches int) {
	if c == nil {
		return
	}
	c.EpochsTotal.WithLabelValues(kernel).Inc()
	c.BatchesTotal.WithLabelValues(kernel).Add(float64(batches))
}

// ObserveFit records a finished fit. A non-nil err counts as a failure.
func (c *Collector) ObserveFit(kernel string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.FitsTotal.WithLabelValues(kernel, status).Inc()
	if err == nil {
		c.FitDuration.WithLabelValues(kernel).Observe(elapsed.Seconds())
	}
}

// ObservePredict records a finished predict call over rows inputs.
func (c *Collector) ObservePredict(kernel string, elapsed time.Duration, rows int) {
	if c == nil {
		return
	}
	c.PredictDuration.WithLabelValues(kernel).Observe(elapsed.Seconds())
	c.PredictedRows.WithLabelValues(kernel).Add(float64(rows))
}
