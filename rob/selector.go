package rob

// GetResolvedPendingSquashInst returns the first (oldest) in-flight
// instruction in tid's list whose pending squash has been resolved: it
// still has a pending squash, its args are no longer tainted, and it has
// not already been squashed. Returns nil if none qualifies. This is not
// an error condition — the execution stage consults this every cycle and
// nil simply means nothing has cleared yet.
func (r *ROB) GetResolvedPendingSquashInst(tid ThreadID) Inst {
	for _, inst := range r.thread(tid).list {
		if inst.HasPendingSquash() && !inst.IsArgsTainted() && !inst.IsSquashed() {
			return inst
		}
	}
	return nil
}
