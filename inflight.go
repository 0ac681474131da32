package checkout

import "sync/atomic"

// inflight admits one quote fetch or shipment mutation at a time. A second
// caller is turned away rather than queued.
type inflight struct {
	busy atomic.Bool
}

func (f *inflight) begin() bool {
	return f.busy.CompareAndSwap(false, true)
}

func (f *inflight) end() {
	f.busy.Store(false)
}

func (f *inflight) active() bool {
	return f.busy.Load()
}
