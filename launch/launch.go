// Package launch orchestrates one node of a distributed training job:
// resource config to topology, topology to XRT environment, then one
// worker process per local GPU.
package launch

import (
	"context"

	"github.com/smtrain/xlarun/compiler"
	"github.com/smtrain/xlarun/job"
	"github.com/smtrain/xlarun/log"
	"github.com/smtrain/xlarun/plan"
	"github.com/smtrain/xlarun/runner/local"
	"github.com/smtrain/xlarun/utils"
	"github.com/smtrain/xlarun/xrt"
	"github.com/spf13/afero"
)

// Run performs the launch. ConfigError and entry-point problems surface
// before any worker starts; worker failures only after all of them have
// terminated. The returned error decides the job's exit status.
func Run(ctx context.Context, f *FlagSet, fs afero.Fs) error {
	config, err := plan.LoadResourceConfig(fs, f.ResourceConfig)
	if err != nil {
		return err
	}
	topo, err := config.Resolve(f.WorkerPort, f.MeshServicePort)
	if err != nil {
		return err
	}
	log.Infof("host %s has rank %d of %d, launching %s",
		config.CurrentHost, topo.Rank, topo.WorldSize, utils.Pluralize(f.NumGPUs, "worker", "workers"))

	if cc, err := compiler.FromEnv(); err != nil {
		log.Warnf("ignoring malformed framework params: %v", err)
	} else if cc != nil {
		if err := cc.Apply(fs); err != nil {
			return err
		}
	}

	j := job.Job{
		Prog:    f.TrainingScript,
		Args:    job.ForwardArgs(f.Args),
		NumGPUs: f.NumGPUs,
		Envs:    xrt.Project(topo, f.NumGPUs),
		LogDir:  f.LogDir,
	}
	if err := j.Validate(); err != nil {
		return err
	}
	procs := j.CreateProcs()
	log.Infof("will parallel run %d instances of %s with %q", len(procs), j.Prog, j.Args)
	results, err := local.RunAll(ctx, procs, f.VerboseLog)
	for _, r := range results {
		if r.Err != nil {
			log.Errorf("#<%s> (local rank %d): %v", r.Name, r.LocalRank, r.Err)
		}
	}
	return err
}
