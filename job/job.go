// Package job turns one launch request into the set of local worker
// processes, one per GPU.
package job

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/proc"
	"github.com/smtrain/xlarun/xrt"
)

var errNoDevices = errors.New("num_gpus must be positive")

// Job is a single launch request: the training entry point, its
// already-forwarded arguments and the projected topology environment
// every worker inherits.
type Job struct {
	Prog    string
	Args    []string
	NumGPUs int
	Envs    proc.Envs
	LogDir  string
}

// Validate resolves the entry point and checks the device count. It is
// called before any worker is created so that an unrunnable job fails
// whole, never partially.
func (j Job) Validate() error {
	if j.NumGPUs <= 0 {
		return errNoDevices
	}
	if _, err := exec.LookPath(j.Prog); err != nil {
		return errors.Wrapf(err, "training script %q is not executable", j.Prog)
	}
	return nil
}

// NewProc creates the worker process for one local rank. Each worker
// gets its shard ordinal and is pinned to one device.
func (j Job) NewProc(localRank int) proc.Proc {
	envs := proc.Envs{
		xrt.ShardLocalOrdinalEnvKey: strconv.Itoa(localRank),
		cudaVisibleDevicesKey:       strconv.Itoa(getCudaIndex(localRank)),
	}
	allEnvs := proc.Merge(j.Envs, envs)
	allEnvs.AddIfMissing(`PYTHONUNBUFFERED`, `1`)
	return proc.Proc{
		Name:   fmt.Sprintf("worker-%02d", localRank),
		Prog:   j.Prog,
		Args:   j.Args,
		Envs:   allEnvs,
		LogDir: j.LogDir,
	}
}

// CreateProcs builds all local workers, with local ranks 0..NumGPUs-1
// in spawn order.
func (j Job) CreateProcs() []proc.Proc {
	var ps []proc.Proc
	for i := 0; i < j.NumGPUs; i++ {
		ps = append(ps, j.NewProc(i))
	}
	return ps
}
