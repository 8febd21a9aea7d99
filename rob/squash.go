package rob

import "go.uber.org/zap"

// Squash begins invalidating tid's instructions younger than targetSeq.
// A no-op if the thread is empty. Otherwise it marks the thread
// Squashing, positions the squash cursor on the back of the list, and
// immediately invokes the first pump.
func (r *ROB) Squash(targetSeq SeqNum, tid ThreadID) {
	pt := r.thread(tid)
	if pt.IsEmpty() {
		r.log.Debug("squash: thread empty, no-op", zap.Int("tid", int(tid)), zap.Uint64("target_seq", uint64(targetSeq)))
		return
	}

	r.log.Debug("squash: starting", zap.Int("tid", int(tid)), zap.Uint64("target_seq", uint64(targetSeq)))

	pt.status = StatusSquashing
	pt.doneSquashing = false
	pt.squashTargetSeq = targetSeq
	pt.squashCursor = len(pt.list) - 1

	r.DoSquash(tid)
}

// DoSquash pumps at most r.cfg.SquashWidth entries of an in-progress
// squash, walking the cursor front-ward from wherever the previous pump
// left off. Must be called repeatedly until PerThread.DoneSquashing()
// is true.
//
// Precondition: Squash was previously called for tid and has not yet
// finished (the cursor is valid). Calling this with no outstanding
// squash is a caller bug.
func (r *ROB) DoSquash(tid ThreadID) {
	r.stats.RobWrites++

	pt := r.thread(tid)
	assertf(pt.squashCursor >= 0 && pt.squashCursor < len(pt.list), "rob: DoSquash: thread %d has no valid squash cursor", tid)

	r.log.Debug("squash: pumping", zap.Int("tid", int(tid)), zap.Int("cursor", pt.squashCursor))

	if pt.list[pt.squashCursor].SeqNum() < pt.squashTargetSeq {
		pt.squashCursor = -1
		pt.doneSquashing = true
		return
	}

	robTailUpdate := false

	numSquashed := 0
	for numSquashed < r.cfg.SquashWidth &&
		pt.squashCursor >= 0 &&
		pt.list[pt.squashCursor].SeqNum() > pt.squashTargetSeq {

		inst := pt.list[pt.squashCursor]
		inst.SetSquashed()
		inst.SetPendingSquash(false)
		inst.SetCanCommit()

		if pt.squashCursor == len(pt.list)-1 {
			robTailUpdate = true
		}

		if pt.squashCursor == 0 {
			pt.squashCursor = -1
			pt.doneSquashing = true
			return
		}

		pt.squashCursor--
		numSquashed++
	}

	if pt.list[pt.squashCursor].SeqNum() <= pt.squashTargetSeq {
		pt.squashCursor = -1
		pt.doneSquashing = true
	}

	if robTailUpdate {
		r.UpdateTail()
	}
}
