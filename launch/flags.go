package launch

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/utils"
)

// DefaultResourceConfigPath is where the job submission layer mounts
// the cluster description.
const DefaultResourceConfigPath = `/opt/ml/input/config/resourceconfig.json`

var errMissingTrainingScript = errors.New("missing -training_script")

type FlagSet struct {
	TrainingScript  string
	NumGPUs         int
	ResourceConfig  string
	MeshServicePort int
	WorkerPort      int

	Timeout    time.Duration
	VerboseLog bool
	Quiet      bool
	Logfile    string
	LogDir     string

	// everything not consumed above, in order; input of ForwardArgs
	Args []string
}

func (f *FlagSet) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.TrainingScript, "training_script", "", "path to the training program")
	fs.IntVar(&f.NumGPUs, "num_gpus", defaultNumGPUs(), "number of worker processes, one per GPU")
	fs.StringVar(&f.ResourceConfig, "resource_config", DefaultResourceConfigPath, "path to the cluster resource config")
	fs.IntVar(&f.MeshServicePort, "mesh_service_port", 53957, "port of the XRT mesh service on the first host")
	fs.IntVar(&f.WorkerPort, "worker_port", 43857, "port of the XRT local service on every host")

	fs.DurationVar(&f.Timeout, "timeout", 0, "timeout for the whole launch, 0 means none")
	fs.BoolVar(&f.VerboseLog, "v", true, "show worker log")
	fs.BoolVar(&f.Quiet, "q", false, "don't log debug info")
	fs.StringVar(&f.Logfile, "logfile", "", "path to log file")
	fs.StringVar(&f.LogDir, "logdir", ".", "directory for worker log files")
}

func defaultNumGPUs() int {
	if n, err := strconv.Atoi(os.Getenv(`SM_NUM_GPUS`)); err == nil {
		return n
	}
	return 1
}

// Parse consumes the launcher's own flags wherever they appear and
// keeps every other token, in order, as hyper-parameter input for the
// argument forwarder. The submission layer sends both kinds interleaved
// in one flat list.
func (f *FlagSet) Parse(args []string) error {
	fs := flag.NewFlagSet(utils.ProgName(), flag.ContinueOnError)
	f.Register(fs)
	known, rest := splitKnownArgs(fs, args)
	if err := fs.Parse(known); err != nil {
		return err
	}
	f.Args = rest
	if len(f.TrainingScript) == 0 {
		return errMissingTrainingScript
	}
	return nil
}

func splitKnownArgs(fs *flag.FlagSet, args []string) (known, rest []string) {
	for i := 0; i < len(args); i++ {
		token := args[i]
		if token == `--` {
			rest = append(rest, args[i+1:]...)
			break
		}
		name, hasValue := flagName(token)
		if len(name) == 0 || fs.Lookup(name) == nil {
			rest = append(rest, token)
			continue
		}
		known = append(known, token)
		if !hasValue && !isBoolFlag(fs, name) && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	return known, rest
}

func flagName(token string) (string, bool) {
	if !strings.HasPrefix(token, "-") {
		return "", false
	}
	name := strings.TrimLeft(token, "-")
	if i := strings.Index(name, "="); i >= 0 {
		return name[:i], true
	}
	return name, false
}

func isBoolFlag(fs *flag.FlagSet, name string) bool {
	bv, ok := fs.Lookup(name).Value.(interface{ IsBoolFlag() bool })
	return ok && bv.IsBoolFlag()
}
