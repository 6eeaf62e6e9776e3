package xrt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smtrain/xlarun/plan"
	"github.com/smtrain/xlarun/proc"
)

func Test_Project(t *testing.T) {
	config := plan.ResourceConfig{
		CurrentHost: `algo-2`,
		Hosts:       []string{`algo-1`, `algo-2`, `algo-3`},
	}
	topo, err := config.Resolve(43857, 53957)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	got := Project(topo, 8)
	want := proc.Envs{
		HostOrdinalEnvKey:     `1`,
		ShardWorldSizeEnvKey:  `3`,
		WorkersEnvKey:         `localservice:0;algo-1:43857|localservice:1;algo-2:43857|localservice:2;algo-3:43857`,
		MeshServiceAddrEnvKey: `algo-1:53957`,
		GPUNumDevicesEnvKey:   `8`,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", d)
	}
}

func Test_ProjectSingleHost(t *testing.T) {
	config := plan.ResourceConfig{CurrentHost: `algo-1`, Hosts: []string{`algo-1`}}
	topo, err := config.Resolve(43857, 53957)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	envs := Project(topo, 1)
	if _, ok := envs[MeshServiceAddrEnvKey]; ok {
		t.Errorf("single-host projection must not set %s", MeshServiceAddrEnvKey)
	}
	if envs[HostOrdinalEnvKey] != `0` || envs[ShardWorldSizeEnvKey] != `1` {
		t.Errorf("unexpected projection: %v", envs)
	}
}
