package transport

import (
	"testing"

	"holophonix-engine/internal/oscwire"
)

func newTestOutbound(maxQueue int) *Outbound {
	return &Outbound{cfg: Config{MaxQueue: maxQueue, MaxBatchSize: 10}}
}

func TestEnqueueCoalescesSameKey(t *testing.T) {
	o := newTestOutbound(20)
	o.Enqueue(oscwire.Msg{Address: "/track/5/x++", Args: []float32{0.1}, AffectedIndices: []int{5}})
	o.Enqueue(oscwire.Msg{Address: "/track/5/x++", Args: []float32{0.2}, AffectedIndices: []int{5}})
	if o.Len() != 1 {
		t.Fatalf("want 1 queued message after coalescing, got %d", o.Len())
	}
	batch := o.drainBatch(10)
	if len(batch) != 1 || batch[0].Args[0] != 0.2 {
		t.Fatalf("want the latest value to survive coalescing, got %+v", batch)
	}
}

func TestEnqueueAbsoluteSupersedesAllAxes(t *testing.T) {
	o := newTestOutbound(20)
	o.Enqueue(oscwire.Msg{Address: "/track/5/x++", Args: []float32{0.1}, AffectedIndices: []int{5}})
	o.Enqueue(oscwire.Msg{Address: "/track/5/y++", Args: []float32{0.1}, AffectedIndices: []int{5}})
	o.Enqueue(oscwire.Msg{Address: "/track/5/xyz", Args: []float32{1, 2, 3}, AffectedIndices: []int{5}})
	if o.Len() != 1 {
		t.Fatalf("want the absolute message to supersede both pending axis deltas, got %d queued", o.Len())
	}
}

func TestEnqueueDistinctTracksDoNotCoalesce(t *testing.T) {
	o := newTestOutbound(20)
	o.Enqueue(oscwire.Msg{Address: "/track/1/x++", Args: []float32{0.1}, AffectedIndices: []int{1}})
	o.Enqueue(oscwire.Msg{Address: "/track/2/x++", Args: []float32{0.1}, AffectedIndices: []int{2}})
	if o.Len() != 2 {
		t.Fatalf("want 2 queued messages for distinct tracks, got %d", o.Len())
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	o := newTestOutbound(2)
	o.Enqueue(oscwire.Msg{Address: "/track/1/x++", AffectedIndices: []int{1}})
	o.Enqueue(oscwire.Msg{Address: "/track/2/x++", AffectedIndices: []int{2}})
	o.Enqueue(oscwire.Msg{Address: "/track/3/x++", AffectedIndices: []int{3}})
	if o.Len() != 2 {
		t.Fatalf("queue must stay bounded at MaxQueue, got %d", o.Len())
	}
	if o.Dropped() != 1 {
		t.Errorf("droppedCount = %d, want 1", o.Dropped())
	}
}

func TestDrainBatchRespectsFIFOOrder(t *testing.T) {
	o := newTestOutbound(20)
	o.Enqueue(oscwire.Msg{Address: "/track/1/x++", AffectedIndices: []int{1}})
	o.Enqueue(oscwire.Msg{Address: "/track/2/y++", AffectedIndices: []int{2}})
	batch := o.drainBatch(1)
	if len(batch) != 1 || batch[0].Address != "/track/1/x++" {
		t.Fatalf("want FIFO order, got %+v", batch)
	}
	if o.Len() != 1 {
		t.Fatalf("want 1 remaining item, got %d", o.Len())
	}
}
