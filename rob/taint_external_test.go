package rob_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwfletcher/stt/rob"
	"github.com/cwfletcher/stt/rob/instr"
)

// S6: a speculative, unsquashable-pending load taints a dependent
// instruction's args until the load is marked unsquashable.
func TestTaintPropagatesFromSpeculativeLoadToDependent(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)

	dest := []rob.RegIndex{0}
	phys := []rob.PhysReg{42}

	load := instr.New(1, 0).AsLoad().AsAccess().SetReadyForTest().WithDestRegs(dest, phys)
	r.InsertInst(load)

	dependent := instr.New(2, 0).SetReadyForTest().WithSrcRegs(dest, phys)
	r.InsertInst(dependent)

	modes := rob.CPUModes{STT: true, ProtectionEnabled: true, IsFuturistic: true}

	// The load has no older instructions, so UpdateVisibleState marks it
	// unsquashable; force it back to not-unsquashable so that it is an
	// access whose own dest is tainted.
	r.UpdateVisibleState(modes)
	load.SetUnsquashable(false)
	r.ComputeTaint(modes)

	require.True(t, load.IsDestTainted(), "an access that is not yet unsquashable must be dest-tainted")
	require.True(t, dependent.HasExplicitFlow(), "dependent reads a tainted, uncommitted producer")
	require.True(t, dependent.IsArgsTainted())

	// Once the load becomes unsquashable (all older instructions completed)
	// and is no longer flagged as a risky access on its own, taint
	// should not propagate further.
	load.SetUnsquashable(true)
	r.ComputeTaint(modes)

	require.False(t, load.IsDestTainted(), "an unsquashable access is no longer dest-tainted by the access rule alone")
	require.False(t, dependent.HasExplicitFlow())
	require.False(t, dependent.IsArgsTainted())
}

func TestTaintExplicitFlowIgnoresCommittedProducer(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)

	dest := []rob.RegIndex{0}
	phys := []rob.PhysReg{1}

	load := instr.New(1, 0).AsLoad().AsAccess().SetReadyForTest().WithDestRegs(dest, phys)
	r.InsertInst(load)
	dependent := instr.New(2, 0).SetReadyForTest().WithSrcRegs(dest, phys)
	r.InsertInst(dependent)

	modes := rob.CPUModes{STT: true}
	load.SetUnsquashable(false)
	r.ComputeTaint(modes)
	require.True(t, dependent.HasExplicitFlow())

	load.SetCommitted()
	r.ComputeTaint(modes)
	require.False(t, dependent.HasExplicitFlow(), "a committed producer can no longer carry explicit flow, even if tainted")
}

func TestTaintImplicitFlowGatedByImpChannel(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)

	producerDest := []rob.RegIndex{0}
	producerPhys := []rob.PhysReg{7}
	producer := instr.New(1, 0).AsLoad().AsAccess().SetReadyForTest().WithDestRegs(producerDest, producerPhys)
	r.InsertInst(producer)
	producer.SetUnsquashable(false)

	// branch reads the tainted, uncommitted producer, so it itself
	// carries explicit flow and is eligible to leak it implicitly.
	branch := instr.New(2, 0).AsControl().SetReadyForTest().WithSrcRegs(producerDest, producerPhys)
	r.InsertInst(branch)

	after := instr.New(3, 0).SetReadyForTest()
	r.InsertInst(after)

	r.ComputeTaint(rob.CPUModes{STT: true, ImpChannel: false})
	require.True(t, branch.HasExplicitFlow())
	require.False(t, after.HasImplicitFlow())

	r.ComputeTaint(rob.CPUModes{STT: true, ImpChannel: true})
	require.True(t, after.HasImplicitFlow(), "an older control instruction with explicit flow taints via the implicit channel when enabled")
	require.False(t, after.IsArgsTainted(), "implicit flow must never feed isArgsTainted")
}

func TestTaintAddressFlowExcludesStoreDataOperand(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)

	dest := []rob.RegIndex{0}
	phys := []rob.PhysReg{9}
	load := instr.New(1, 0).AsLoad().AsAccess().SetReadyForTest().WithDestRegs(dest, phys)
	r.InsertInst(load)
	load.SetUnsquashable(false)

	// source[0] is the store's data operand (tainted producer, must be
	// excluded); source[1] is the address operand (untainted).
	storeSrcArch := []rob.RegIndex{1, 2}
	storeSrcPhys := []rob.PhysReg{9, 99}
	store := instr.New(2, 0).AsStore().SetReadyForTest().WithSrcRegs(storeSrcArch, storeSrcPhys)
	r.InsertInst(store)

	r.ComputeTaint(rob.CPUModes{STT: true})

	require.False(t, store.IsAddrTainted(), "store address taint must ignore source[0], the data operand")
}

func TestTaintNoFlowWithoutTaintedProducer(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)

	dest := []rob.RegIndex{0}
	phys := []rob.PhysReg{3}
	producer := instr.New(1, 0).SetReadyForTest().WithDestRegs(dest, phys)
	r.InsertInst(producer)
	producer.SetUnsquashable(true)

	dependent := instr.New(2, 0).SetReadyForTest().WithSrcRegs(dest, phys)
	r.InsertInst(dependent)

	r.ComputeTaint(rob.CPUModes{STT: true})

	require.False(t, dependent.HasExplicitFlow())
	require.False(t, dependent.IsArgsTainted())
	require.False(t, dependent.IsDestTainted())
}

func TestComputeTaintPanicsWithoutSTT(t *testing.T) {
	r := newTestROB(t, 32, 4, 1, rob.Dynamic)
	r.InsertInst(instr.New(1, 0))
	require.Panics(t, func() { r.ComputeTaint(rob.CPUModes{STT: false}) })
}
