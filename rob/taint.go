package rob

// ComputeTaint runs the Speculative Taint Tracking pass over every active
// thread's in-flight list: explicit flow, implicit flow, and address
// flow, then derives isArgsTainted / isDestTainted. Must be called after
// UpdateVisibleState in the same tick, and only when the CPU has STT
// enabled.
func (r *ROB) ComputeTaint(modes CPUModes) {
	assertf(modes.STT, "rob: ComputeTaint called with STT disabled")

	for _, tid := range r.activeThreads {
		pt := r.thread(tid)
		if pt.IsEmpty() {
			continue
		}

		for idx, inst := range pt.list {
			explicitFlow(inst)
			implicitFlow(pt.list[:idx], inst, modes)
			addressFlow(inst)

			inst.SetArgsTainted(inst.HasExplicitFlow())

			destTainted := inst.IsArgsTainted()
			if inst.IsAccess() && !inst.IsUnsquashable() {
				destTainted = true
			}
			inst.SetDestTainted(destTainted)
		}
	}
}

// explicitFlow sets hasExplicitFlow(true) iff any of inst's sources has
// an arg-producer that is both dest-tainted and not yet committed.
func explicitFlow(inst Inst) {
	for i := 0; i < inst.NumSrcRegs(); i++ {
		producer := inst.ArgProducer(i)
		if producer == nil {
			continue
		}
		if producer.IsDestTainted() && !producer.IsCommitted() {
			inst.SetExplicitFlow(true)
			return
		}
	}
	inst.SetExplicitFlow(false)
}

// implicitFlow sets hasImplicitFlow(true) iff impChannel is enabled and
// some older, same-thread control instruction carries explicit flow.
// older must be inst's same-thread predecessors, oldest first. This
// flag is computed for observation only: it deliberately does not feed
// into isArgsTainted.
func implicitFlow(older []Inst, inst Inst, modes CPUModes) {
	if modes.ImpChannel {
		for _, prev := range older {
			if prev.IsControl() && prev.HasExplicitFlow() {
				inst.SetImplicitFlow(true)
				return
			}
		}
	}
	inst.SetImplicitFlow(false)
}

// addressFlow sets isAddrTainted for memory-referencing instructions by
// examining the subset of sources that form the effective address: all
// sources for a load, sources[1:] for a store (source 0 is the store
// data operand, excluded), asserting on any other memref form.
func addressFlow(inst Inst) {
	if !inst.IsMemRef() {
		inst.SetAddrTainted(false)
		return
	}

	start := 0
	switch {
	case inst.IsStore():
		start = 1
	case inst.IsLoad():
		start = 0
	default:
		assertf(false, "rob: addressFlow: unidentified memref instruction [sn:%d]", inst.SeqNum())
	}

	for i := start; i < inst.NumSrcRegs(); i++ {
		producer := inst.ArgProducer(i)
		if producer == nil {
			continue
		}
		if producer.IsDestTainted() && !producer.IsCommitted() {
			inst.SetAddrTainted(true)
			return
		}
	}
	inst.SetAddrTainted(false)
}
