package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/nbxlive/resultboard/internal/results"
)

const namespace = "resultboard"

// Outcome labels for the refresh counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder accumulates refresh statistics. It is safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	refreshes    map[string]uint64
	lastRefresh  time.Time
	lastDuration time.Duration
	entries      int
}

// NewRecorder creates an empty [Recorder].
func NewRecorder() *Recorder {
	return &Recorder{
		refreshes: map[string]uint64{
			OutcomeSuccess: 0,
			OutcomeFailure: 0,
		},
	}
}

// ObserveRefresh records one published set and how long producing it took.
func (r *Recorder) ObserveRefresh(set results.Set, took time.Duration) {
	outcome := OutcomeSuccess
	if set.Failed {
		outcome = OutcomeFailure
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes[outcome]++
	r.lastRefresh = set.UpdatedAt
	r.lastDuration = took
	r.entries = len(set.Entries)
}

// Refreshes returns the number of refreshes recorded with the given outcome.
func (r *Recorder) Refreshes(outcome string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes[outcome]
}

// Families returns the current values as Prometheus metric families.
func (r *Recorder) Families() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	refreshes := &dto.MetricFamily{
		Name: proto.String(namespace + "_refreshes_total"),
		Help: proto.String("Completed refresh attempts by outcome."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, outcome := range []string{OutcomeSuccess, OutcomeFailure} {
		refreshes.Metric = append(refreshes.Metric, &dto.Metric{
			Label: []*dto.LabelPair{{
				Name:  proto.String("outcome"),
				Value: proto.String(outcome),
			}},
			Counter: &dto.Counter{Value: proto.Float64(float64(r.refreshes[outcome]))},
		})
	}

	var lastRefresh float64
	if !r.lastRefresh.IsZero() {
		lastRefresh = float64(r.lastRefresh.UnixNano()) / 1e9
	}

	return []*dto.MetricFamily{
		refreshes,
		gauge("last_refresh_timestamp_seconds", "Unix time of the last published refresh.", lastRefresh),
		gauge("last_refresh_duration_seconds", "Duration of the last refresh attempt.", r.lastDuration.Seconds()),
		gauge("result_entries", "Entries in the currently published result set.", float64(r.entries)),
	}
}

// WriteText writes all families to w in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range r.Families() {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ContentType is the HTTP Content-Type matching [Recorder.WriteText].
func ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(namespace + "_" + name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Gauge: &dto.Gauge{Value: proto.Float64(v)},
		}},
	}
}
