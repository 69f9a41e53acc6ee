package inmemory

import "sync"

type Snapshot struct {
	CommandTotal    uint64            `json:"command_total"`
	CommandApplied  uint64            `json:"command_applied"`
	CommandRejected uint64            `json:"command_rejected"`
	CommandFailure  uint64            `json:"command_failure"`
	AppliedByKind   map[string]uint64 `json:"applied_by_kind"`
	RejectedByKind  map[string]uint64 `json:"rejected_by_kind"`
}

// Recorder counts pile command outcomes for the ops KPI endpoint.
type Recorder struct {
	mu       sync.Mutex
	applied  uint64
	rejected uint64
	failure  uint64
	byKind   map[string]uint64
	rejKind  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byKind:  map[string]uint64{},
		rejKind: map[string]uint64{},
	}
}

func (r *Recorder) RecordApplied(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied++
	r.byKind[command]++
}

func (r *Recorder) RecordRejected(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.rejKind[command]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandApplied:  r.applied,
		CommandRejected: r.rejected,
		CommandFailure:  r.failure,
		CommandTotal:    r.applied + r.rejected + r.failure,
		AppliedByKind:   make(map[string]uint64, len(r.byKind)),
		RejectedByKind:  make(map[string]uint64, len(r.rejKind)),
	}
	for k, v := range r.byKind {
		out.AppliedByKind[k] = v
	}
	for k, v := range r.rejKind {
		out.RejectedByKind[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
