// Package metrics exposes Prometheus collectors for a running Session: frame
// counts, packet dispatch latency, and connection state. A nil *Collector is
// valid everywhere a *Collector is accepted and every method is a no-op, so
// callers that don't care about metrics never have to branch on it.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus instruments for one or more Sessions.
// Register it with a prometheus.Registerer to expose it over /metrics.
type Collector struct {
	framesRead     prometheus.Counter
	framesWritten  prometheus.Counter
	packetsDecoded *prometheus.CounterVec
	decodeErrors   *prometheus.CounterVec
	dispatchTime   prometheus.Histogram
	sessionState   *prometheus.GaugeVec
}

// New builds a Collector with its instruments registered on reg. Passing a
// fresh prometheus.NewRegistry() is typical for tests; production code
// usually passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		framesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aochat",
			Name:      "frames_read_total",
			Help:      "Frames read from the chat server connection.",
		}),
		framesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aochat",
			Name:      "frames_written_total",
			Help:      "Frames written to the chat server connection.",
		}),
		packetsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aochat",
			Name:      "packets_decoded_total",
			Help:      "Server packets decoded, labeled by Go type name.",
		}, []string{"packet_type"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aochat",
			Name:      "decode_errors_total",
			Help:      "Frame bodies that failed to decode, labeled by frame type number.",
		}, []string{"frame_type"}),
		dispatchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aochat",
			Name:      "packet_dispatch_seconds",
			Help:      "Time spent in the caller-supplied packet handler.",
			Buckets:   prometheus.DefBuckets,
		}),
		sessionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "aochat",
			Name:      "session_state",
			Help:      "1 for the session's current state, 0 otherwise, labeled by state name.",
		}, []string{"state"}),
	}
	if reg != nil {
		reg.MustRegister(c.framesRead, c.framesWritten, c.packetsDecoded, c.decodeErrors, c.dispatchTime, c.sessionState)
	}
	return c
}

func (c *Collector) FrameRead() {
	if c == nil {
		return
	}
	c.framesRead.Inc()
}

func (c *Collector) FrameWritten() {
	if c == nil {
		return
	}
	c.framesWritten.Inc()
}

func (c *Collector) PacketDecoded(typeName string) {
	if c == nil {
		return
	}
	c.packetsDecoded.WithLabelValues(typeName).Inc()
}

func (c *Collector) DecodeError(frameType uint16) {
	if c == nil {
		return
	}
	c.decodeErrors.WithLabelValues(strconv.Itoa(int(frameType))).Inc()
}

// ObserveDispatch records how long a packet handler took to run.
func (c *Collector) ObserveDispatch(seconds float64) {
	if c == nil {
		return
	}
	c.dispatchTime.Observe(seconds)
}

// SetState marks state as the active session state, zeroing every other
// known state label.
func (c *Collector) SetState(states []string, current string) {
	if c == nil {
		return
	}
	for _, s := range states {
		if s == current {
			c.sessionState.WithLabelValues(s).Set(1)
		} else {
			c.sessionState.WithLabelValues(s).Set(0)
		}
	}
}
