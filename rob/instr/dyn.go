// Package instr provides a concrete, independently-constructible stand-in
// for the externally-owned dynamic instruction object the rob package
// only ever observes through its Inst flag interface. It exists so tests
// and the demo CLI have something to insert into a rob.ROB without
// needing the real pipeline's instruction type.
package instr

import "github.com/cwfletcher/stt/rob"

// Dyn is a plain, directly-mutable implementation of rob.Inst. Real
// pipelines own a much richer dynamic instruction object; this type
// carries only the flags the ROB core reads and writes.
type Dyn struct {
	seq    rob.SeqNum
	thread rob.ThreadID

	srcRegs         []rob.RegIndex
	destRegs        []rob.RegIndex
	renamedSrcRegs  []rob.PhysReg
	renamedDestRegs []rob.PhysReg
	argProducers    []rob.Inst

	isLoad             bool
	isStore            bool
	isMemRef           bool
	isControl          bool
	isAccess           bool
	isNonSpeculative   bool
	isStoreConditional bool
	isMemBarrier       bool
	isWriteBarrier     bool
	strictlyOrdered    bool

	canCommit          bool
	isLoadSafeToCommit bool
	isExecuted         bool
	isIssued           bool
	isCommitted        bool
	isSquashed         bool
	fault              error
	pendingSquash      bool
	inROB              bool

	prevInstsCompleted bool
	prevBrsResolved    bool
	prevInstsCommitted bool
	prevBrsCommitted   bool

	unsquashable bool

	explicitFlow bool
	implicitFlow bool
	addrTainted  bool
	argsTainted  bool
	destTainted  bool
}

// New returns a Dyn with the given sequence number and thread, and no
// source/destination registers. Use the With* builder methods to shape
// it further; they return the receiver so calls can be chained.
func New(seq rob.SeqNum, tid rob.ThreadID) *Dyn {
	return &Dyn{seq: seq, thread: tid}
}

// WithSrcRegs sets the instruction's architectural and renamed source
// registers. Both slices must be the same length.
func (d *Dyn) WithSrcRegs(arch []rob.RegIndex, renamed []rob.PhysReg) *Dyn {
	if len(arch) != len(renamed) {
		panic("instr: WithSrcRegs: architectural and renamed slices differ in length")
	}
	d.srcRegs = arch
	d.renamedSrcRegs = renamed
	d.argProducers = make([]rob.Inst, len(arch))
	return d
}

// WithDestRegs sets the instruction's architectural and renamed
// destination registers. Both slices must be the same length.
func (d *Dyn) WithDestRegs(arch []rob.RegIndex, renamed []rob.PhysReg) *Dyn {
	if len(arch) != len(renamed) {
		panic("instr: WithDestRegs: architectural and renamed slices differ in length")
	}
	d.destRegs = arch
	d.renamedDestRegs = renamed
	return d
}

// AsLoad marks the instruction as a memory-referencing load.
func (d *Dyn) AsLoad() *Dyn { d.isLoad, d.isMemRef = true, true; return d }

// AsStore marks the instruction as a memory-referencing store.
func (d *Dyn) AsStore() *Dyn { d.isStore, d.isMemRef = true, true; return d }

// AsControl marks the instruction as a control-flow (branch) instruction.
func (d *Dyn) AsControl() *Dyn { d.isControl = true; return d }

// AsAccess marks the instruction as one whose execution may cause a
// microarchitecturally observable side effect (e.g. a speculative cache
// fill).
func (d *Dyn) AsAccess() *Dyn { d.isAccess = true; return d }

// AsNonSpeculative marks the instruction as non-speculative.
func (d *Dyn) AsNonSpeculative() *Dyn { d.isNonSpeculative = true; return d }

// AsStoreConditional marks the instruction as a store-conditional.
func (d *Dyn) AsStoreConditional() *Dyn { d.isStoreConditional = true; return d }

// AsMemBarrier marks the instruction as a memory barrier.
func (d *Dyn) AsMemBarrier() *Dyn { d.isMemBarrier = true; return d }

// AsWriteBarrier marks the instruction as a write barrier.
func (d *Dyn) AsWriteBarrier() *Dyn { d.isWriteBarrier = true; return d }

// AsStrictlyOrdered marks a load as strictly ordered.
func (d *Dyn) AsStrictlyOrdered() *Dyn { d.strictlyOrdered = true; return d }

// SetFault records a non-nil fault on this instruction.
func (d *Dyn) SetFault(err error) { d.fault = err }

// SetReadyForTest directly sets the flags a freshly-executed instruction
// would have: ready to commit, safe to commit, executed and issued. A
// convenience for tests that don't care about the execute/writeback
// stages this core doesn't model.
func (d *Dyn) SetReadyForTest() *Dyn {
	d.canCommit = true
	d.isLoadSafeToCommit = true
	d.isExecuted = true
	d.isIssued = true
	return d
}

// rob.Inst implementation.

func (d *Dyn) SeqNum() rob.SeqNum { return d.seq }
func (d *Dyn) ThreadNumber() rob.ThreadID { return d.thread }

func (d *Dyn) NumSrcRegs() int { return len(d.srcRegs) }
func (d *Dyn) NumDestRegs() int { return len(d.destRegs) }

func (d *Dyn) SrcRegIdx(i int) rob.RegIndex { return d.srcRegs[i] }
func (d *Dyn) DestRegIdx(i int) rob.RegIndex { return d.destRegs[i] }
func (d *Dyn) RenamedSrcRegIdx(i int) rob.PhysReg { return d.renamedSrcRegs[i] }
func (d *Dyn) RenamedDestRegIdx(i int) rob.PhysReg { return d.renamedDestRegs[i] }

func (d *Dyn) IsLoad() bool { return d.isLoad }
func (d *Dyn) IsStore() bool { return d.isStore }
func (d *Dyn) IsMemRef() bool { return d.isMemRef }
func (d *Dyn) IsControl() bool { return d.isControl }
func (d *Dyn) IsAccess() bool { return d.isAccess }
func (d *Dyn) IsNonSpeculative() bool { return d.isNonSpeculative }
func (d *Dyn) IsStoreConditional() bool { return d.isStoreConditional }
func (d *Dyn) IsMemBarrier() bool { return d.isMemBarrier }
func (d *Dyn) IsWriteBarrier() bool { return d.isWriteBarrier }
func (d *Dyn) StrictlyOrdered() bool { return d.strictlyOrdered }

func (d *Dyn) ReadyToCommit() bool { return d.canCommit }
func (d *Dyn) IsLoadSafeToCommit() bool { return d.isLoadSafeToCommit }
func (d *Dyn) IsExecuted() bool { return d.isExecuted }
func (d *Dyn) IsIssued() bool { return d.isIssued }
func (d *Dyn) IsCommitted() bool { return d.isCommitted }
func (d *Dyn) IsSquashed() bool { return d.isSquashed }
func (d *Dyn) Fault() error { return d.fault }

func (d *Dyn) HasPendingSquash() bool { return d.pendingSquash }
func (d *Dyn) SetPendingSquash(v bool) { d.pendingSquash = v }

func (d *Dyn) SetInROB() { d.inROB = true }
func (d *Dyn) ClearInROB() { d.inROB = false }
func (d *Dyn) SetCommitted() { d.isCommitted = true }
func (d *Dyn) SetSquashed() { d.isSquashed = true }
func (d *Dyn) SetCanCommit() { d.canCommit = true }

// InROB reports whether SetInROB has been called without a matching
// ClearInROB. Not part of rob.Inst; exposed for tests/CLI inspection.
func (d *Dyn) InROB() bool { return d.inROB }

func (d *Dyn) SetPrevInstsCompleted() { d.prevInstsCompleted = true }
func (d *Dyn) SetPrevBrsResolved() { d.prevBrsResolved = true }
func (d *Dyn) SetPrevInstsCommitted() { d.prevInstsCommitted = true }
func (d *Dyn) SetPrevBrsCommitted() { d.prevBrsCommitted = true }

func (d *Dyn) IsPrevInstsCompleted() bool { return d.prevInstsCompleted }
func (d *Dyn) IsPrevBrsResolved() bool { return d.prevBrsResolved }
func (d *Dyn) IsPrevInstsCommitted() bool { return d.prevInstsCommitted }
func (d *Dyn) IsPrevBrsCommitted() bool { return d.prevBrsCommitted }

func (d *Dyn) IsUnsquashable() bool { return d.unsquashable }
func (d *Dyn) SetUnsquashable(v bool) { d.unsquashable = v }

func (d *Dyn) HasExplicitFlow() bool { return d.explicitFlow }
func (d *Dyn) SetExplicitFlow(v bool) { d.explicitFlow = v }
func (d *Dyn) HasImplicitFlow() bool { return d.implicitFlow }
func (d *Dyn) SetImplicitFlow(v bool) { d.implicitFlow = v }
func (d *Dyn) IsAddrTainted() bool { return d.addrTainted }
func (d *Dyn) SetAddrTainted(v bool) { d.addrTainted = v }
func (d *Dyn) IsArgsTainted() bool { return d.argsTainted }
func (d *Dyn) SetArgsTainted(v bool) { d.argsTainted = v }
func (d *Dyn) IsDestTainted() bool { return d.destTainted }
func (d *Dyn) SetDestTainted(v bool) { d.destTainted = v }

func (d *Dyn) ArgProducer(i int) rob.Inst { return d.argProducers[i] }
func (d *Dyn) SetArgProducer(i int, producer rob.Inst) { d.argProducers[i] = producer }
func (d *Dyn) ClearArgProducer(i int) { d.argProducers[i] = nil }

var _ rob.Inst = (*Dyn)(nil)
