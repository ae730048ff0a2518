package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestFrameCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.FrameRead()
	c.FrameRead()
	c.FrameWritten()

	if got := counterValue(t, c.framesRead); got != 2 {
		t.Fatalf("framesRead = %v, want 2", got)
	}
	if got := counterValue(t, c.framesWritten); got != 1 {
		t.Fatalf("framesWritten = %v, want 1", got)
	}
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	c.FrameRead()
	c.FrameWritten()
	c.PacketDecoded("LoginOK")
	c.DecodeError(7)
	c.ObserveDispatch(0.01)
	c.SetState([]string{"LoggedIn"}, "LoggedIn")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	return m.GetCounter().GetValue()
}
