package job

import (
	"testing"

	"github.com/smtrain/xlarun/proc"
	"github.com/smtrain/xlarun/xrt"
)

func Test_CreateProcs(t *testing.T) {
	j := Job{
		Prog:    `train`,
		Args:    []string{`--lr`, `0.1`},
		NumGPUs: 4,
		Envs:    proc.Envs{xrt.HostOrdinalEnvKey: `1`},
	}
	ps := j.CreateProcs()
	if len(ps) != 4 {
		t.Fatalf("got %d procs, want 4", len(ps))
	}
	seen := make(map[string]bool)
	for i, p := range ps {
		ordinal := p.Envs[xrt.ShardLocalOrdinalEnvKey]
		if seen[ordinal] {
			t.Errorf("duplicate local ordinal %q", ordinal)
		}
		seen[ordinal] = true
		if want := map[int]string{0: `0`, 1: `1`, 2: `2`, 3: `3`}[i]; ordinal != want {
			t.Errorf("proc %d: ordinal %q, want %q", i, ordinal, want)
		}
		if p.Envs[xrt.HostOrdinalEnvKey] != `1` {
			t.Errorf("proc %d must inherit the projected topology env", i)
		}
		if p.Prog != `train` {
			t.Errorf("proc %d: prog %q", i, p.Prog)
		}
	}
}

func Test_NewProcCudaMapping(t *testing.T) {
	restore := lookupEnv
	defer func() { lookupEnv = restore }()
	lookupEnv = func(key string) (string, bool) {
		if key == cudaVisibleDevicesKey {
			return `4,5,6,7`, true
		}
		return "", false
	}
	j := Job{Prog: `train`, NumGPUs: 4}
	p := j.NewProc(2)
	if got := p.Envs[cudaVisibleDevicesKey]; got != `6` {
		t.Errorf("local rank 2 should map to device 6, got %q", got)
	}
}

func Test_getCudaIndex(t *testing.T) {
	restore := lookupEnv
	defer func() { lookupEnv = restore }()

	lookupEnv = func(string) (string, bool) { return "", false }
	if got := getCudaIndex(3); got != 3 {
		t.Errorf("unrestricted: got %d, want 3", got)
	}

	lookupEnv = func(string) (string, bool) { return `0,1`, true }
	if got := getCudaIndex(2); got != -1 {
		t.Errorf("rank beyond visible devices: got %d, want -1", got)
	}

	lookupEnv = func(string) (string, bool) { return `x`, true }
	if got := getCudaIndex(0); got != -1 {
		t.Errorf("invalid list: got %d, want -1", got)
	}
}

func Test_Validate(t *testing.T) {
	if err := (Job{Prog: `/bin/sh`, NumGPUs: 0}).Validate(); err == nil {
		t.Error("zero devices must not validate")
	}
	if err := (Job{Prog: `/no/such/binary`, NumGPUs: 1}).Validate(); err == nil {
		t.Error("unresolvable entry point must not validate")
	}
	if err := (Job{Prog: `/bin/sh`, NumGPUs: 1}).Validate(); err != nil {
		t.Errorf("valid job rejected: %v", err)
	}
}
