// Package rob implements the reorder-buffer core of an out-of-order,
// speculative, simultaneously-multithreaded CPU simulator: per-thread
// in-order retirement, multi-thread capacity policy, width-limited
// squash, and the per-cycle visibility and Speculative Taint Tracking
// (STT) passes that decide which speculative operations may safely
// expose architectural side effects.
//
// The ROB owns no instruction objects; it observes and mutates the flag
// interface defined by Inst, leaving lifecycle, execution, and
// statistics-reporting plumbing to the enclosing pipeline.
package rob

import (
	"fmt"

	"go.uber.org/zap"
)

// Status is a per-thread squash state.
type Status int

const (
	// StatusNormal means the thread is not currently being squashed.
	StatusNormal Status = iota
	// StatusSquashing means DoSquash has outstanding work for this thread.
	StatusSquashing
)

// PerThread holds the in-flight instruction list and squash state for one
// hardware thread.
type PerThread struct {
	list []Inst

	maxEntries int

	status Status

	// squashCursor indexes into list; -1 means "no cursor" (pump idle
	// or complete).
	squashCursor    int
	squashTargetSeq SeqNum
	doneSquashing   bool
}

func newPerThread() *PerThread {
	return &PerThread{
		status:        StatusNormal,
		squashCursor:  -1,
		doneSquashing: true,
	}
}

// CurrentEntries returns the number of in-flight instructions for this
// thread.
func (pt *PerThread) CurrentEntries() int { return len(pt.list) }

// MaxEntries returns the capacity allotted to this thread by the active
// policy.
func (pt *PerThread) MaxEntries() int { return pt.maxEntries }

// IsEmpty reports whether the thread currently has no in-flight
// instructions.
func (pt *PerThread) IsEmpty() bool { return len(pt.list) == 0 }

// Status reports the thread's current squash state.
func (pt *PerThread) Status() Status { return pt.status }

// DoneSquashing reports whether any in-progress squash pump has
// finished flagging all instructions younger than its target.
func (pt *PerThread) DoneSquashing() bool { return pt.doneSquashing }

// ROB is a reorder buffer for one CPU core, shared across its hardware
// threads per Config.Policy.
type ROB struct {
	cfg Config

	perThread []*PerThread

	// activeThreads is owned by the enclosing CPU and only read here.
	// Order is insignificant; only membership matters for capacity and
	// traversal.
	activeThreads []ThreadID

	totalEntries int

	globalHead Inst
	globalTail Inst

	stats Stats

	log *zap.Logger
}

// Option configures a ROB at construction time.
type Option func(*ROB)

// WithLogger attaches a structured logger used for per-cycle debug
// tracing (insert, retire, squash-pump activity). A nil logger (the
// default) disables tracing via zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(r *ROB) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs a ROB from cfg. It returns an error if cfg.Policy is not
// one of Dynamic, Partitioned, or Threshold — the one configuration error
// in this core that originates from external input rather than a caller
// bug, see DESIGN.md.
func New(cfg Config, opts ...Option) (*ROB, error) {
	if cfg.Policy < Dynamic || cfg.Policy > Threshold {
		return nil, fmt.Errorf("rob: %w", ErrInvalidPolicy)
	}
	if cfg.NumThreads <= 0 {
		return nil, fmt.Errorf("rob: NumThreads must be positive, got %d", cfg.NumThreads)
	}

	r := &ROB{
		cfg:       cfg,
		perThread: make([]*PerThread, cfg.NumThreads),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for tid := range r.perThread {
		r.perThread[tid] = newPerThread()
	}
	r.resetState()

	// Dynamic threads get full capacity immediately; Partitioned and
	// Threshold are populated by the first ResetEntries call once the
	// caller reports its active-thread set.
	if cfg.Policy == Dynamic {
		for tid := range r.perThread {
			r.perThread[tid].maxEntries = cfg.NumEntries
		}
	}

	r.log.Debug("rob constructed",
		zap.Int("num_entries", cfg.NumEntries),
		zap.Int("squash_width", cfg.SquashWidth),
		zap.Int("num_threads", cfg.NumThreads),
		zap.String("policy", cfg.Policy.String()))

	return r, nil
}

func (r *ROB) resetState() {
	for _, pt := range r.perThread {
		pt.doneSquashing = true
		pt.list = pt.list[:0]
		pt.squashCursor = -1
		pt.squashTargetSeq = 0
		pt.status = StatusNormal
	}
	r.totalEntries = 0
	r.globalHead = nil
	r.globalTail = nil
}

// thread returns the PerThread for tid, asserting it is in range.
func (r *ROB) thread(tid ThreadID) *PerThread {
	assertf(int(tid) >= 0 && int(tid) < len(r.perThread), "rob: thread id %d out of range [0,%d)", tid, len(r.perThread))
	return r.perThread[tid]
}

// SetActiveThreads installs the (externally owned) set of currently
// running thread ids. The ROB only reads this slice; it is the caller's
// responsibility to keep it current.
func (r *ROB) SetActiveThreads(active []ThreadID) {
	r.activeThreads = active
}

// ActiveThreads returns the currently installed active-thread set.
func (r *ROB) ActiveThreads() []ThreadID { return r.activeThreads }

// ResetEntries recomputes per-thread capacity from the active-thread set.
// Must be called whenever that set changes.
func (r *ROB) ResetEntries() {
	if r.cfg.Policy == Dynamic && len(r.perThread) <= 1 {
		return
	}

	active := len(r.activeThreads)
	if active == 0 {
		return
	}

	for _, tid := range r.activeThreads {
		pt := r.thread(tid)
		switch r.cfg.Policy {
		case Partitioned:
			pt.maxEntries = r.cfg.NumEntries / active
		case Threshold:
			if active == 1 {
				pt.maxEntries = r.cfg.NumEntries
			} else {
				pt.maxEntries = r.cfg.Threshold
			}
		case Dynamic:
			pt.maxEntries = r.cfg.NumEntries
		}
	}
}

// EntryAmount returns the per-thread partition size the Partitioned
// policy would assign across numThreads active threads; zero for the
// other policies.
func (r *ROB) EntryAmount(numThreads int) int {
	if r.cfg.Policy == Partitioned && numThreads > 0 {
		return r.cfg.NumEntries / numThreads
	}
	return 0
}

// CountInsts returns the total number of in-flight instructions across
// all threads.
func (r *ROB) CountInsts() int { return r.totalEntries }

// CountInstsForThread returns the number of in-flight instructions for tid.
func (r *ROB) CountInstsForThread(tid ThreadID) int {
	return r.thread(tid).CurrentEntries()
}

// IsEmpty reports whether the ROB has no in-flight instructions at all.
func (r *ROB) IsEmpty() bool { return r.totalEntries == 0 }

// IsEmptyThread reports whether tid has no in-flight instructions.
func (r *ROB) IsEmptyThread(tid ThreadID) bool { return r.thread(tid).IsEmpty() }

// FreeEntries returns the ROB-wide free capacity.
func (r *ROB) FreeEntries() int { return r.cfg.NumEntries - r.totalEntries }

// FreeEntriesForThread returns tid's free capacity under the active
// policy. Callers must consult this before InsertInst — the policy
// enforces the contract but InsertInst itself does not reject inserts.
func (r *ROB) FreeEntriesForThread(tid ThreadID) int {
	pt := r.thread(tid)
	return pt.maxEntries - pt.CurrentEntries()
}

// TakeOverFrom resets the ROB when it takes over execution from another
// core model: every thread's list and squash state, the entry count, and
// the global head and tail are cleared.
func (r *ROB) TakeOverFrom() { r.resetState() }

// DrainSanityCheck asserts that every thread's list is empty and that
// total_entries is zero.
func (r *ROB) DrainSanityCheck() {
	for tid, pt := range r.perThread {
		assertf(pt.IsEmpty(), "rob: drain sanity check failed: thread %d has %d in-flight instructions", tid, pt.CurrentEntries())
	}
	assertf(r.IsEmpty(), "rob: drain sanity check failed: total_entries=%d", r.totalEntries)
}

// GlobalHead returns the instruction with the globally-minimum sequence
// number among non-empty threads, or nil if the ROB is empty.
func (r *ROB) GlobalHead() Inst { return r.globalHead }

// GlobalTail returns the global tail: set to each newly inserted
// instruction, and recomputed over the non-empty threads when a squash
// pump flags a thread's back entry. Retirement does not update it, so
// after the tail instruction retires it still names that instruction.
func (r *ROB) GlobalTail() Inst { return r.globalTail }

// ReadHeadInst returns tid's oldest in-flight instruction, or nil if the
// thread is empty.
func (r *ROB) ReadHeadInst(tid ThreadID) Inst {
	pt := r.thread(tid)
	if pt.IsEmpty() {
		return nil
	}
	return pt.list[0]
}

// ReadTailInst returns tid's youngest in-flight instruction. The thread
// must be non-empty.
func (r *ROB) ReadTailInst(tid ThreadID) Inst {
	pt := r.thread(tid)
	assertf(!pt.IsEmpty(), "rob: ReadTailInst on empty thread %d", tid)
	return pt.list[len(pt.list)-1]
}

// FindInst returns the instruction with the given sequence number in
// tid's list, or nil if none is in flight. Not on the hot per-cycle
// path; intended for debug tooling.
func (r *ROB) FindInst(tid ThreadID, seq SeqNum) Inst {
	for _, inst := range r.thread(tid).list {
		if inst.SeqNum() == seq {
			return inst
		}
	}
	return nil
}

// IsDoneSquashing reports whether tid has no in-progress squash pump
// awaiting a further DoSquash call.
func (r *ROB) IsDoneSquashing(tid ThreadID) bool {
	return r.thread(tid).DoneSquashing()
}
