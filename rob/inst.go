package rob

// SeqNum is assigned from one global, dispatch-order counter shared by
// every hardware thread, so across the whole ROB — not just within a
// single thread's list — sequence numbers are inserted in strictly
// increasing order. InsertInst relies on this: it only recomputes the
// global head on the very first insert, trusting that every later
// insert is the new global tail by construction.
type SeqNum uint64

// ThreadID identifies one hardware thread context.
type ThreadID int

// RegIndex is an architectural register index as seen by the decoder,
// before renaming.
type RegIndex int

// Index returns the raw architectural index. Kept as a method rather than
// a bare int so call sites read the same as the rest of the flag
// interface this type adapts.
func (r RegIndex) Index() int { return int(r) }

// ZeroRegIndex is the architectural index of the always-zero register.
// Sources at this index can never be tainted and are excluded from
// arg-producer wiring.
const ZeroRegIndex = 16

// PhysReg is a renamed physical register identifier. Two PhysReg values
// are equal iff they name the same physical register.
type PhysReg uint32

// Inst is the flag-interface adapter over an externally-owned dynamic
// instruction object. The ROB mutates only the flags and arg-producer
// slots named here; it never constructs, destroys, or reference-counts
// an Inst itself — that lifecycle belongs to the enclosing pipeline.
//
// Method names mirror the flag names used throughout the design docs;
// where a single flag is conventionally both queried and mutated (e.g.
// "hasPendingSquash"), this interface splits it into a Go-idiomatic
// getter/setter pair.
type Inst interface {
	SeqNum() SeqNum
	ThreadNumber() ThreadID

	NumSrcRegs() int
	NumDestRegs() int
	SrcRegIdx(i int) RegIndex
	DestRegIdx(i int) RegIndex
	RenamedSrcRegIdx(i int) PhysReg
	RenamedDestRegIdx(i int) PhysReg

	IsLoad() bool
	IsStore() bool
	IsMemRef() bool
	IsControl() bool
	IsAccess() bool
	IsNonSpeculative() bool
	IsStoreConditional() bool
	IsMemBarrier() bool
	IsWriteBarrier() bool
	StrictlyOrdered() bool

	ReadyToCommit() bool
	IsLoadSafeToCommit() bool
	IsExecuted() bool
	IsIssued() bool
	IsCommitted() bool
	IsSquashed() bool
	Fault() error

	HasPendingSquash() bool
	SetPendingSquash(bool)

	SetInROB()
	ClearInROB()
	SetCommitted()
	SetSquashed()
	SetCanCommit()

	SetPrevInstsCompleted()
	SetPrevBrsResolved()
	SetPrevInstsCommitted()
	SetPrevBrsCommitted()
	IsPrevInstsCompleted() bool
	IsPrevBrsResolved() bool
	IsPrevInstsCommitted() bool
	IsPrevBrsCommitted() bool

	IsUnsquashable() bool
	SetUnsquashable(bool)

	HasExplicitFlow() bool
	SetExplicitFlow(bool)
	HasImplicitFlow() bool
	SetImplicitFlow(bool)
	IsAddrTainted() bool
	SetAddrTainted(bool)
	IsArgsTainted() bool
	SetArgsTainted(bool)
	IsDestTainted() bool
	SetDestTainted(bool)

	ArgProducer(i int) Inst
	SetArgProducer(i int, producer Inst)
	ClearArgProducer(i int)
}
