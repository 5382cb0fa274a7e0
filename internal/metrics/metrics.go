package metrics

import (
	"sync"
	"time"

	"syringe_rig/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	motionEventsCounter    *prometheus.CounterVec
	gcodeCommandsCounter   prometheus.Counter
	transportErrorsCounter prometheus.Counter
	motionCyclesGauge      prometheus.Gauge
	dwellDurationMetric    prometheus.Histogram
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		motionEventsCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syringe_motion_events_total",
				Help: "Total number of motion events appended to the event log, by stage.",
			},
			[]string{"stage"},
		)

		gcodeCommandsCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "syringe_gcode_commands_total",
				Help: "Total number of command lines written to the controller.",
			},
		)

		transportErrorsCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "syringe_transport_errors_total",
				Help: "Total number of failed writes or reads on the controller link.",
			},
		)

		motionCyclesGauge = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "syringe_motion_cycles",
				Help: "Completed forward+backward cycles in the current session.",
			},
		)

		dwellDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "syringe_dwell_duration_seconds",
				Help:    "Wall-clock duration of completed dwells in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		prometheus.MustRegister(
			motionEventsCounter,
			gcodeCommandsCounter,
			transportErrorsCounter,
			motionCyclesGauge,
			dwellDurationMetric,
		)

		for _, stage := range []models.Stage{models.StageStart, models.StageMoving, models.StageEnd} {
			motionEventsCounter.WithLabelValues(stage.String())
		}
	})
}

func IncMotionEvent(stage models.Stage) {
	Init()
	motionEventsCounter.WithLabelValues(stage.String()).Inc()
}

func IncGcodeCommand() {
	Init()
	gcodeCommandsCounter.Inc()
}

func IncTransportError() {
	Init()
	transportErrorsCounter.Inc()
}

func SetCycles(n int) {
	Init()
	motionCyclesGauge.Set(float64(n))
}

func ObserveDwell(d time.Duration) {
	Init()
	dwellDurationMetric.Observe(d.Seconds())
}
