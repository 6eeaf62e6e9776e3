// xla-distribute starts the same command on every host of a multi-host
// job over ssh, typically `xla-run ...` on all hosts of a resource
// config.
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/launch"
	"github.com/smtrain/xlarun/log"
	"github.com/smtrain/xlarun/plan"
	"github.com/smtrain/xlarun/proc"
	"github.com/smtrain/xlarun/runner/remote"
	"github.com/smtrain/xlarun/utils"
	"github.com/spf13/afero"
)

var (
	hostList       = flag.String("H", "", "comma separated list of <host>[:<slots>[:<public addr>]]")
	hostfile       = flag.String("hostfile", "", "path to an mpirun style hostfile")
	resourceConfig = flag.String("resource_config", launch.DefaultResourceConfigPath, "path to the cluster resource config")
	user           = flag.String("u", "", "user name for ssh")
	timeout        = flag.Duration("timeout", 0, "timeout")
	verboseLog     = flag.Bool("v", true, "show remote log")
	quiet          = flag.Bool("q", false, "don't log debug info")
	logDir         = flag.String("logdir", ".", "directory for remote log files")
)

func init() {
	flag.Parse()
	if !*quiet {
		utils.LogArgs()
		utils.LogNICInfo()
	}
}

func main() {
	args := flag.Args()
	if len(args) < 1 {
		utils.ExitErr(errors.New("missing program name"))
	}
	hl, err := hosts(afero.NewOsFs())
	if err != nil {
		utils.ExitErr(err)
	}
	log.Infof("distributing `%s` to %s", strings.Join(args, " "), utils.Pluralize(len(hl), "host", "hosts"))
	ctx, cancel := context.WithCancel(context.Background())
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	}
	defer cancel()
	t0 := time.Now()
	err = distribute(ctx, hl, args[0], args[1:])
	log.Infof("%s took %s", utils.ProgName(), time.Since(t0))
	if err != nil {
		utils.ExitErr(err)
	}
}

func hosts(fs afero.Fs) (plan.HostList, error) {
	if len(*hostList) > 0 {
		return plan.ParseHostList(*hostList)
	}
	if len(*hostfile) > 0 {
		return plan.ParseHostfile(fs, *hostfile)
	}
	config, err := plan.LoadResourceConfig(fs, *resourceConfig)
	if err != nil {
		return nil, err
	}
	var hl plan.HostList
	for _, h := range config.Hosts {
		hl = append(hl, plan.HostSpec{Host: h, Slots: 1, PublicAddr: h})
	}
	return hl, nil
}

func distribute(ctx context.Context, hl plan.HostList, prog string, args []string) error {
	var ps []proc.Proc
	for _, h := range hl {
		ps = append(ps, proc.Proc{
			Name:     h.Host,
			Hostname: h.PublicAddr,
			Prog:     prog,
			Args:     args,
		})
	}
	return remote.RunAll(ctx, *user, ps, *verboseLog, *logDir)
}
