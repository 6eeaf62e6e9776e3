package main

import (
	"context"
	"os"

	"github.com/smtrain/xlarun/launch"
	"github.com/smtrain/xlarun/log"
	"github.com/smtrain/xlarun/utils"
	"github.com/spf13/afero"
)

var f launch.FlagSet

func init() {
	if err := f.Parse(os.Args[1:]); err != nil {
		utils.ExitErr(err)
	}
	if !f.Quiet {
		utils.LogArgs()
		utils.LogSMEnv()
		utils.LogXRTEnv()
		utils.LogNICInfo()
		utils.LogCudaEnv()
		utils.LogNCCLEnv()
	}
}

func main() {
	if len(f.Logfile) > 0 {
		lf, err := os.Create(f.Logfile)
		if err != nil {
			utils.ExitErr(err)
		}
		defer lf.Close()
		log.SetOutput(lf)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
	}
	defer cancel()
	d, err := utils.Measure(func() error {
		return launch.Run(ctx, &f, afero.NewOsFs())
	})
	log.Infof("%s took %s", utils.ProgName(), d)
	if err != nil {
		utils.ExitErr(err)
	}
}
