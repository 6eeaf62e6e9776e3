// Package xrt owns the environment contract of the XRT distributed
// runtime bootstrapped by the spawned workers.
package xrt

import (
	"strconv"

	"github.com/smtrain/xlarun/plan"
	"github.com/smtrain/xlarun/proc"
)

const (
	HostOrdinalEnvKey     = `XRT_HOST_ORDINAL`
	ShardWorldSizeEnvKey  = `XRT_SHARD_WORLD_SIZE`
	WorkersEnvKey         = `XRT_WORKERS`
	MeshServiceAddrEnvKey = `XRT_MESH_SERVICE_ADDRESS`
	GPUNumDevicesEnvKey   = `GPU_NUM_DEVICES`

	// set per worker process, not per host
	ShardLocalOrdinalEnvKey = `XRT_SHARD_LOCAL_ORDINAL`
)

// Project maps a resolved topology to the variables XRT workers use to
// discover their peers. The result is overlaid onto each child's
// inherited environment at spawn time; these keys are owned by the
// launcher and always authoritative.
func Project(t *plan.Topology, numGPUs int) proc.Envs {
	envs := proc.Envs{
		HostOrdinalEnvKey:    strconv.Itoa(t.Rank),
		ShardWorldSizeEnvKey: strconv.Itoa(t.WorldSize),
		WorkersEnvKey:        t.Workers.String(),
		GPUNumDevicesEnvKey:  strconv.Itoa(numGPUs),
	}
	if t.MeshAddr != nil {
		envs[MeshServiceAddrEnvKey] = t.MeshAddr.String()
	}
	return envs
}
