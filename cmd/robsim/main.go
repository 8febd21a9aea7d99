// Command robsim drives a rob.ROB with a synthetic instruction stream,
// demonstrating insert/retire, squash, visibility, and taint tracking
// without needing a real decode/rename/execute pipeline behind it.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwfletcher/stt/rob"
	"github.com/cwfletcher/stt/rob/instr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		numEntries  int
		squashWidth int
		numThreads  int
		policyName  string
		threshold   int
		verbose     bool
	)

	root := &cobra.Command{
		Use:   "robsim",
		Short: "Reorder-buffer and speculative-taint-tracking simulator",
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().IntVar(&numEntries, "rob-entries", 64, "total ROB capacity shared across threads")
	root.PersistentFlags().IntVar(&squashWidth, "squash-width", 8, "entries flagged per DoSquash pump")
	root.PersistentFlags().IntVar(&numThreads, "threads", 2, "number of hardware thread contexts")
	root.PersistentFlags().StringVar(&policyName, "rob-policy", "dynamic", "capacity policy: dynamic, partitioned, or threshold")
	root.PersistentFlags().IntVar(&threshold, "rob-threshold", 16, "per-thread entry cap used by the threshold policy")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level ROB tracing")

	newROB := func() (*rob.ROB, *zap.Logger, error) {
		policy, err := rob.ParsePolicy(policyName)
		if err != nil {
			return nil, nil, err
		}

		var logger *zap.Logger
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return nil, nil, fmt.Errorf("robsim: building logger: %w", err)
		}

		r, err := rob.New(rob.Config{
			NumEntries:  numEntries,
			SquashWidth: squashWidth,
			NumThreads:  numThreads,
			Policy:      policy,
			Threshold:   threshold,
		}, rob.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("robsim: constructing ROB: %w", err)
		}

		active := make([]rob.ThreadID, numThreads)
		for i := range active {
			active[i] = rob.ThreadID(i)
		}
		r.SetActiveThreads(active)
		r.ResetEntries()

		return r, logger, nil
	}

	root.AddCommand(newRunCmd(newROB))
	root.AddCommand(newInspectCmd(newROB))

	return root
}

// newRunCmd runs a synthetic tick loop: each cycle dispatches one
// ready-made instruction per active thread with free entries, retires whatever is at
// each thread's head, and periodically injects a squash to exercise the
// width-limited pump. Stops on Ctrl-C or after the requested cycle count.
func newRunCmd(newROB func() (*rob.ROB, *zap.Logger, error)) *cobra.Command {
	var (
		cycles      int
		seed        int64
		squashEvery int
		stt         bool
		impChannel  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a synthetic tick loop against the ROB",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, logger, err := newROB()
			if err != nil {
				return err
			}
			defer logger.Sync()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			rng := rand.New(rand.NewSource(seed))
			modes := rob.CPUModes{
				STT:               stt,
				ProtectionEnabled: stt,
				IsFuturistic:      true,
				ImpChannel:        impChannel,
			}

			var seq rob.SeqNum
			active := r.ActiveThreads()

			for cycle := 1; cycles == 0 || cycle <= cycles; cycle++ {
				select {
				case <-stop:
					fmt.Println("robsim: received interrupt, stopping")
					return nil
				default:
				}

				for _, tid := range active {
					if r.FreeEntriesForThread(tid) <= 0 {
						continue
					}
					seq++
					inst := instr.New(seq, tid).SetReadyForTest()
					if rng.Intn(5) == 0 {
						inst.AsControl()
					}
					if rng.Intn(7) == 0 {
						inst.AsLoad().AsAccess()
					}
					r.InsertInst(inst)
				}

				if stt {
					r.UpdateVisibleState(modes)
					r.ComputeTaint(modes)
				}

				for _, tid := range active {
					for r.IsHeadReady(tid) {
						r.RetireHead(tid)
					}
				}

				if squashEvery > 0 && cycle%squashEvery == 0 && len(active) > 0 {
					tid := active[rng.Intn(len(active))]
					if head := r.ReadHeadInst(tid); head != nil {
						target := head.SeqNum()
						r.Squash(target, tid)
						for !r.IsDoneSquashing(tid) {
							r.DoSquash(tid)
						}
					}
				}
			}

			fmt.Printf("robsim: ran %d cycles, %d entries remaining\n", cycles, r.CountInsts())
			return nil
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 1000, "number of cycles to run (0 = until interrupted)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed for the synthetic instruction mix")
	cmd.Flags().IntVar(&squashEvery, "squash-every", 0, "inject a squash at the active head every N cycles (0 = never)")
	cmd.Flags().BoolVar(&stt, "stt", false, "enable Speculative Taint Tracking each cycle")
	cmd.Flags().BoolVar(&impChannel, "imp-channel", false, "enable implicit-flow tracking (requires --stt)")

	return cmd
}

// newInspectCmd builds a small fixed scenario and prints the resulting
// ROB dump, useful for eyeballing PrintROB/PrintAllROBs output without
// running a full simulation.
func newInspectCmd(newROB func() (*rob.ROB, *zap.Logger, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "insert a handful of instructions and print the resulting ROB state",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, logger, err := newROB()
			if err != nil {
				return err
			}
			defer logger.Sync()

			active := r.ActiveThreads()
			var seq rob.SeqNum
			for _, tid := range active {
				for i := 0; i < 3; i++ {
					seq++
					r.InsertInst(instr.New(seq, tid))
				}
			}

			fmt.Print(r.PrintAllROBs())
			stats := r.RegStats()
			fmt.Printf("rob_reads=%d rob_writes=%d\n", stats.RobReads, stats.RobWrites)
			return nil
		},
	}
	return cmd
}
