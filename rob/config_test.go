package rob

import "testing"

// ═══════════════════════════════════════════════════════════════════════
// Policy parsing
// ═══════════════════════════════════════════════════════════════════════

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Policy
		wantErr bool
	}{
		{"dynamic lowercase", "dynamic", Dynamic, false},
		{"dynamic mixed case", "DyNaMiC", Dynamic, false},
		{"partitioned", "Partitioned", Partitioned, false},
		{"threshold", "THRESHOLD", Threshold, false},
		{"unknown", "roundrobin", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePolicy(%q): expected error, got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolicy(%q): unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	_, err := New(Config{NumEntries: 32, SquashWidth: 4, NumThreads: 1, Policy: Policy(99)})
	if err == nil {
		t.Fatal("New with invalid policy: expected error, got nil")
	}
}

func TestNewRejectsZeroThreads(t *testing.T) {
	_, err := New(Config{NumEntries: 32, SquashWidth: 4, NumThreads: 0, Policy: Dynamic})
	if err == nil {
		t.Fatal("New with zero threads: expected error, got nil")
	}
}

func TestDynamicPolicyGrantsFullCapacity(t *testing.T) {
	r, err := New(Config{NumEntries: 64, SquashWidth: 8, NumThreads: 4, Policy: Dynamic})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for tid := ThreadID(0); tid < 4; tid++ {
		if got := r.FreeEntriesForThread(tid); got != 64 {
			t.Errorf("thread %d free entries = %d, want 64", tid, got)
		}
	}
}

func TestPartitionedPolicySplitsCapacity(t *testing.T) {
	r, err := New(Config{NumEntries: 8, SquashWidth: 2, NumThreads: 2, Policy: Partitioned})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.SetActiveThreads([]ThreadID{0, 1})
	r.ResetEntries()

	if got := r.FreeEntriesForThread(0); got != 4 {
		t.Errorf("thread 0 free entries = %d, want 4", got)
	}
	if got := r.FreeEntriesForThread(1); got != 4 {
		t.Errorf("thread 1 free entries = %d, want 4", got)
	}
}

func TestThresholdPolicyRestoresFullCapacityWithOneActiveThread(t *testing.T) {
	r, err := New(Config{NumEntries: 32, SquashWidth: 4, NumThreads: 2, Policy: Threshold, Threshold: 6})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.SetActiveThreads([]ThreadID{0, 1})
	r.ResetEntries()
	if got := r.FreeEntriesForThread(0); got != 6 {
		t.Errorf("two active threads: thread 0 free entries = %d, want 6", got)
	}

	r.SetActiveThreads([]ThreadID{0})
	r.ResetEntries()
	if got := r.FreeEntriesForThread(0); got != 32 {
		t.Errorf("one active thread: thread 0 free entries = %d, want 32 (full capacity)", got)
	}
}
