// Package local runs the worker processes of one host and joins them.
package local

import (
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/fatih/color"
	"github.com/smtrain/xlarun/iostream"
	"github.com/smtrain/xlarun/log"
	"github.com/smtrain/xlarun/proc"
)

// Result is the outcome of one worker after join.
type Result struct {
	Name      string
	LocalRank int
	Err       error
}

// WorkerFailure reports how many workers of a launch exited non-zero.
type WorkerFailure struct {
	Failed int
	Total  int
}

func (e WorkerFailure) Error() string {
	return fmt.Sprintf("%d/%d workers failed", e.Failed, e.Total)
}

type Runner struct {
	Name          string
	Color         *color.Color
	LogDir        string
	LogFilePrefix string
	VerboseLog    bool
}

// Run starts cmd, streams its output and waits for it. Cancelling ctx
// kills the process.
func (r Runner) Run(ctx context.Context, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	var redirectors []*iostream.StdWriters
	if r.VerboseLog {
		redirectors = append(redirectors, iostream.NewPrefixRedirector(r.Name, r.Color))
	}
	if len(r.LogFilePrefix) > 0 {
		redirectors = append(redirectors, iostream.NewFileRedirector(path.Join(r.LogDir, r.LogFilePrefix)))
	}
	ioDone := iostream.StdReaders{Stdout: stdout, Stderr: stderr}.Stream(redirectors...)
	// workers get their own process group so cancellation reaches the
	// training script's children too; otherwise grandchildren keep the
	// pipes open and the join blocks until their natural exit
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error)
	go func() {
		ioDone.Wait() // drain the pipes before reaping the process
		done <- cmd.Wait()
	}()
	select {
	case <-ctx.Done():
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// RunAll starts all procs concurrently and blocks until every one has
// terminated. A failing worker does not cancel its siblings: partial
// process states are harder to diagnose than a complete, failed run.
// The slice index is the local rank.
func RunAll(ctx context.Context, ps []proc.Proc, verbose bool) ([]Result, error) {
	results := make([]Result, len(ps))
	var wg sync.WaitGroup
	var fail int32
	for i, p := range ps {
		wg.Add(1)
		go func(i int, p proc.Proc) {
			defer wg.Done()
			r := &Runner{
				Name:          p.Name,
				Color:         iostream.PickColor(i),
				VerboseLog:    verbose,
				LogFilePrefix: strings.Replace(p.Name, "/", "-", -1),
				LogDir:        p.LogDir,
			}
			err := r.Run(ctx, p.Cmd())
			results[i] = Result{Name: p.Name, LocalRank: i, Err: err}
			if err != nil {
				log.Errorf("#<%s> exited with error: %v", p.Name, err)
				atomic.AddInt32(&fail, 1)
			} else {
				log.Debugf("#<%s> finished successfully", p.Name)
			}
		}(i, p)
	}
	wg.Wait()
	if n := int(fail); n != 0 {
		return results, WorkerFailure{Failed: n, Total: len(ps)}
	}
	return results, nil
}
