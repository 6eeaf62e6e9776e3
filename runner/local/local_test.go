package local

import (
	"context"
	"testing"
	"time"

	"github.com/smtrain/xlarun/proc"
)

func shProc(name, script string, dir string) proc.Proc {
	return proc.Proc{
		Name:   name,
		Prog:   `/bin/sh`,
		Args:   []string{`-c`, script},
		LogDir: dir,
	}
}

func Test_RunAll(t *testing.T) {
	dir := t.TempDir()
	ps := []proc.Proc{
		shProc(`worker-00`, `exit 0`, dir),
		shProc(`worker-01`, `exit 0`, dir),
	}
	results, err := RunAll(context.Background(), ps, false)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.LocalRank != i {
			t.Errorf("result %d: local rank %d", i, r.LocalRank)
		}
		if r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
		}
	}
}

func Test_RunAllAggregateFailure(t *testing.T) {
	dir := t.TempDir()
	ps := []proc.Proc{
		shProc(`worker-00`, `exit 0`, dir),
		shProc(`worker-01`, `exit 1`, dir),
		shProc(`worker-02`, `sleep 0.2; exit 0`, dir),
		shProc(`worker-03`, `exit 0`, dir),
	}
	results, err := RunAll(context.Background(), ps, false)
	wf, ok := err.(WorkerFailure)
	if !ok {
		t.Fatalf("got %v, want WorkerFailure", err)
	}
	if wf.Failed != 1 || wf.Total != 4 {
		t.Errorf("got %+v, want 1/4", wf)
	}
	// siblings must not be cancelled by the failing worker
	for _, i := range []int{0, 2, 3} {
		if results[i].Err != nil {
			t.Errorf("worker %d should have run to completion: %v", i, results[i].Err)
		}
	}
}

func Test_RunAllTimeout(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// the ; forces the shell to fork sleep as a grandchild holding the
	// output pipes; the deadline must reach it, not just the shell
	ps := []proc.Proc{shProc(`worker-00`, `sleep 30; exit 0`, dir)}
	t0 := time.Now()
	_, err := RunAll(ctx, ps, false)
	if err == nil {
		t.Fatal("deadline should fail the launch")
	}
	if d := time.Since(t0); d > 5*time.Second {
		t.Errorf("deadline of 100ms took %s to fail the launch", d)
	}
}
