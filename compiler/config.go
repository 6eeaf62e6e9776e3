// Package compiler maps the training-compiler hyper-parameters sent by
// the job submission layer to the environment flags the compiler reads.
// Every flag set here is owned by the operator once set: pre-existing
// values are preserved and warned about, never overwritten.
package compiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/log"
	"github.com/spf13/afero"
)

const (
	frameworkParamsEnvKey = `SM_FRAMEWORK_PARAMS`
	outputDataDirEnvKey   = `SM_OUTPUT_DATA_DIR`
	configuredEnvKey      = `SM_TRAINING_COMPILER_CONFIGURED`

	paramPrefix     = `sagemaker_training_compiler_`
	enabledParamKey = paramPrefix + `enabled`
	debugParamKey   = paramPrefix + `debug_mode`
)

// Config is the compiler configuration requested through
// hyper-parameters.
type Config struct {
	Enabled bool
	Debug   bool
}

// ParseParams extracts the compiler configuration from the framework
// params JSON. Hyper-parameter values arrive double-encoded (every
// value is a JSON string), so each one is decoded a second time.
func ParseParams(raw string) (*Config, error) {
	var all map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", frameworkParamsEnvKey)
	}
	var c Config
	found := false
	for key, val := range all {
		if !strings.HasPrefix(key, paramPrefix) {
			continue
		}
		found = true
		switch key {
		case enabledParamKey:
			c.Enabled = truthy(val)
		case debugParamKey:
			c.Debug = truthy(val)
		}
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

// truthy mirrors how the submission layer encodes hyper-parameter
// values: each one may arrive JSON-encoded a second time, so strings
// are decoded once more and a string that is not valid JSON counts as
// its own (non-empty) value. Numbers are truthy when nonzero.
func truthy(val interface{}) bool {
	switch v := val.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		var decoded interface{}
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return len(v) > 0
		}
		return truthy(decoded)
	default:
		return false
	}
}

// FromEnv reads the hyper-parameters from the process environment. A
// nil Config means no compiler configuration was requested.
func FromEnv() (*Config, error) {
	raw := os.Getenv(frameworkParamsEnvKey)
	if len(raw) == 0 {
		log.Debugf("no framework params in environment, compiler not configured")
		return nil, nil
	}
	return ParseParams(raw)
}

func alreadyConfigured() bool {
	n, err := strconv.Atoi(os.Getenv(configuredEnvKey))
	return err == nil && n != 0
}

func debugPath() string {
	return filepath.Join(os.Getenv(outputDataDirEnvKey), "compiler")
}

// Apply projects the requested configuration into the environment the
// training compiler reads. It is idempotent across repeated launches in
// the same process environment.
func (c Config) Apply(fs afero.Fs) error {
	if alreadyConfigured() {
		log.Debugf("training compiler has already been configured")
		return nil
	}
	if !c.Enabled {
		log.Debugf("training compiler not enabled")
		return nil
	}
	log.Infof("configuring training compiler...")
	SetFlag(`GPU_NUM_DEVICES`, `1`)
	if c.Debug {
		dir := debugPath()
		log.Warnf("training compiler set to debug mode, this may impact performance; debug artifacts will be saved in %s", dir)
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create debug dir %s", dir)
		}
		setDebugFlags(dir)
	}
	SetFlag(configuredEnvKey, `1`)
	return nil
}

func setDebugFlags(dir string) {
	// auto-metrics analysis
	SetFlag(`PT_XLA_DEBUG`, `1`)
	// python stack trace for IR generation, propagated to HLO metadata
	SetFlag(`XLA_IR_DEBUG`, `1`)
	SetFlag(`XLA_HLO_DEBUG`, `1`)
	// dumped IR graphs, appended if the file exists
	SetFlag(`XLA_SAVE_TENSORS_FILE`, filepath.Join(dir, `XLA_SAVE_TENSORS_FILE.hlo`))
	SetFlag(`XLA_SAVE_TENSORS_FMT`, `hlo`)
	SetFlag(`XLA_METRICS_FILE`, filepath.Join(dir, `XLA_METRICS_FILE.txt`))
	// HLO graph dump on failed execution
	SetFlag(`XLA_SAVE_HLO_FILE`, filepath.Join(dir, `XLA_SAVE_HLO_FILE.hlo`))
	SetFlag(`XLA_DUMP_FATAL_STACK`, `1`)
	SetFlag(`XLA_DUMP_HLO_GRAPH`, `1`)
}
