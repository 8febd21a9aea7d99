package rob

// UpdateVisibleState runs the per-cycle visibility pass over every active
// thread's in-flight list, writing each instruction's prev-* flags from
// four running booleans that only ever downgrade, then deriving
// isUnsquashable from the CPU-wide speculation-safety mode flags. Must
// be called before ComputeTaint in the same tick.
func (r *ROB) UpdateVisibleState(modes CPUModes) {
	for _, tid := range r.activeThreads {
		pt := r.thread(tid)
		if pt.IsEmpty() {
			continue
		}

		prevInstsComplete := true
		prevBrsResolved := true
		prevInstsCommitted := true
		prevBrsCommitted := true

		for _, inst := range pt.list {
			if !prevInstsComplete && !prevBrsResolved {
				break
			}

			// Write this instruction's flags from the running state
			// BEFORE processing it — the flags describe the state of
			// the program prior to this instruction, not including it.
			if prevInstsComplete {
				inst.SetPrevInstsCompleted()
			}
			if prevBrsResolved {
				inst.SetPrevBrsResolved()
			}
			if prevInstsCommitted {
				inst.SetPrevInstsCommitted()
			}
			if prevBrsCommitted {
				inst.SetPrevBrsCommitted()
			}

			if inst.IsControl() {
				prevBrsCommitted = false
				if !inst.ReadyToCommit() || inst.Fault() != nil || inst.IsSquashed() {
					prevBrsResolved = false
				}
			}

			prevInstsCommitted = false

			if inst.IsNonSpeculative() || inst.IsStoreConditional() ||
				inst.IsMemBarrier() || inst.IsWriteBarrier() ||
				(inst.IsLoad() && inst.StrictlyOrdered()) {
				prevInstsComplete = false
			}
			if !(inst.ReadyToCommit() && inst.IsLoadSafeToCommit()) ||
				inst.Fault() != nil || inst.IsSquashed() {
				prevInstsComplete = false
			}

			inst.SetUnsquashable(unsquashable(inst, modes))
		}
	}
}

// unsquashable derives the isUnsquashable flag from the CPU's
// speculation-safety policy. The flags written above
// (isPrevInstsCompleted / isPrevBrsResolved) must already reflect this
// instruction's position when this is called.
func unsquashable(inst Inst, modes CPUModes) bool {
	if !modes.ProtectionEnabled {
		// Unsafe baseline: nothing is ever held back as speculative.
		return true
	}
	if modes.IsFuturistic {
		return inst.IsPrevInstsCompleted()
	}
	return inst.IsPrevBrsResolved()
}
