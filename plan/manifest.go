package plan

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrNoHosts indicates a resource config with a missing or empty host list.
var ErrNoHosts = errors.New("resource config has no hosts")

// ResourceConfig is the cluster description provided by the job
// submission layer, e.g. /opt/ml/input/config/resourceconfig.json.
// The order of Hosts defines the global rank assignment.
type ResourceConfig struct {
	CurrentHost string   `json:"current_host"`
	Hosts       []string `json:"hosts"`
}

func ParseResourceConfig(bs []byte) (*ResourceConfig, error) {
	var config ResourceConfig
	if err := json.Unmarshal(bs, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse resource config")
	}
	if len(config.Hosts) == 0 {
		return nil, ErrNoHosts
	}
	return &config, nil
}

func LoadResourceConfig(fs afero.Fs, filename string) (*ResourceConfig, error) {
	bs, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read resource config %s", filename)
	}
	return ParseResourceConfig(bs)
}
