package rob

import "go.uber.org/zap"

// InsertInst adds inst to its thread's tail, wiring arg-producer links
// for each of its source registers before the append.
//
// Preconditions: the ROB is not already at capacity (r.CountInsts() <
// r.cfg.NumEntries). Violating this is a caller bug and panics.
func (r *ROB) InsertInst(inst Inst) {
	assertf(inst != nil, "rob: InsertInst(nil)")
	r.stats.RobWrites++

	assertf(r.totalEntries != r.cfg.NumEntries, "rob: InsertInst: ROB at capacity (%d entries)", r.cfg.NumEntries)

	tid := inst.ThreadNumber()
	pt := r.thread(tid)

	wireArgProducers(pt.list, inst)

	pt.list = append(pt.list, inst)

	if r.totalEntries == 0 {
		r.globalHead = inst
	}
	r.globalTail = inst

	inst.SetInROB()

	r.totalEntries++

	r.log.Debug("insert",
		zap.Uint64("seq", uint64(inst.SeqNum())),
		zap.Int("tid", int(tid)),
		zap.Int("thread_entries", pt.CurrentEntries()))
}

// wireArgProducers scans older, same-thread instructions oldest-to-newest
// and records the most recent one whose renamed destination matches each
// of inst's renamed sources, excluding the architectural zero register.
// Later matches overwrite earlier ones, so the final producer is always
// the youngest older writer of that physical register.
func wireArgProducers(olderInThread []Inst, inst Inst) {
	for i := 0; i < inst.NumSrcRegs(); i++ {
		if inst.SrcRegIdx(i).Index() == ZeroRegIndex {
			continue
		}
		renamedSrc := inst.RenamedSrcRegIdx(i)
		for _, older := range olderInThread {
			for j := 0; j < older.NumDestRegs(); j++ {
				if renamedSrc == older.RenamedDestRegIdx(j) {
					inst.SetArgProducer(i, older)
				}
			}
		}
	}
}

// RetireHead removes tid's oldest instruction. Preconditions:
// tid has at least one in-flight instruction, and its head is
// ReadyToCommit. Both are caller invariants; violating either panics.
func (r *ROB) RetireHead(tid ThreadID) Inst {
	r.stats.RobWrites++

	pt := r.thread(tid)
	assertf(r.totalEntries > 0, "rob: RetireHead: ROB is empty")
	assertf(!pt.IsEmpty(), "rob: RetireHead: thread %d is empty", tid)

	head := pt.list[0]
	assertf(head.ReadyToCommit(), "rob: RetireHead: head [sn:%d] is not ready to commit", head.SeqNum())

	r.totalEntries--

	head.ClearInROB()
	head.SetCommitted()

	pt.list = pt.list[1:]

	// Clear any arg-producer slot on a surviving instruction that
	// pointed at the just-retired head, then clear the head's own
	// slots.
	for _, surviving := range pt.list {
		for i := 0; i < surviving.NumSrcRegs(); i++ {
			if surviving.ArgProducer(i) == head {
				surviving.ClearArgProducer(i)
			}
		}
	}
	for i := 0; i < head.NumSrcRegs(); i++ {
		head.ClearArgProducer(i)
	}

	r.UpdateHead()

	r.log.Debug("retire",
		zap.Uint64("seq", uint64(head.SeqNum())),
		zap.Int("tid", int(tid)))

	return head
}

// IsHeadReady reports whether tid's oldest instruction is ready to
// commit and its load is safe to commit. An empty thread is never ready.
func (r *ROB) IsHeadReady(tid ThreadID) bool {
	r.stats.RobReads++
	pt := r.thread(tid)
	if pt.IsEmpty() {
		return false
	}
	head := pt.list[0]
	return head.ReadyToCommit() && head.IsLoadSafeToCommit()
}

// CanCommit reports whether any active thread's head is ready to commit.
func (r *ROB) CanCommit() bool {
	for _, tid := range r.activeThreads {
		if r.IsHeadReady(tid) {
			return true
		}
	}
	return false
}
