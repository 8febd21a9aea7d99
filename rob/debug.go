package rob

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PrintROB renders tid's in-flight list as a human-readable dump:
// sequence number, status, taint flags, and arg-producer links, one line
// per instruction. Omits static-instruction disassembly, since this core
// never owns the decoded instruction object itself.
func (r *ROB) PrintROB(tid ThreadID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ROB for thread %d\n", tid)
	for _, inst := range r.thread(tid).list {
		fmt.Fprintf(&b, "[sn:%d] squashed=%t canCommit=%t pendingSquash=%t unsquashable=%t destTainted=%t argsTainted=%t addrTainted=%t",
			inst.SeqNum(), inst.IsSquashed(), inst.ReadyToCommit(), inst.HasPendingSquash(),
			inst.IsUnsquashable(), inst.IsDestTainted(), inst.IsArgsTainted(), inst.IsAddrTainted())
		for i := 0; i < inst.NumSrcRegs(); i++ {
			if producer := inst.ArgProducer(i); producer != nil {
				fmt.Fprintf(&b, " producer[%d]=[sn:%d]", i, producer.SeqNum())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PrintAllROBs renders every active thread's list via PrintROB and also
// emits it at zap Debug level.
func (r *ROB) PrintAllROBs() string {
	var b strings.Builder
	for _, tid := range r.activeThreads {
		dump := r.PrintROB(tid)
		b.WriteString(dump)
		r.log.Debug("rob dump", zap.Int("tid", int(tid)), zap.String("dump", dump))
	}
	return b.String()
}

// RegStats returns a snapshot of the rob_reads/rob_writes counters.
func (r *ROB) RegStats() Stats { return r.stats }
