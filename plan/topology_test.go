package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_Resolve(t *testing.T) {
	config := ResourceConfig{
		CurrentHost: `algo-2`,
		Hosts:       []string{`algo-1`, `algo-2`, `algo-3`},
	}
	topo, err := config.Resolve(43857, 53957)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if topo.Rank != 1 {
		t.Errorf("rank: got %d, want 1", topo.Rank)
	}
	if topo.WorldSize != 3 {
		t.Errorf("world size: got %d, want 3", topo.WorldSize)
	}
	want := WorkerList{
		{Ordinal: 0, Host: `algo-1`, Port: 43857},
		{Ordinal: 1, Host: `algo-2`, Port: 43857},
		{Ordinal: 2, Host: `algo-3`, Port: 43857},
	}
	if d := cmp.Diff(want, topo.Workers); d != "" {
		t.Errorf("workers mismatch (-want +got):\n%s", d)
	}
	if topo.MeshAddr == nil {
		t.Fatal("multi-host topology must have a mesh address")
	}
	if got, want := topo.MeshAddr.String(), `algo-1:53957`; got != want {
		t.Errorf("mesh addr: got %q, want %q", got, want)
	}
}

func Test_ResolveSingleHost(t *testing.T) {
	config := ResourceConfig{
		CurrentHost: `algo-1`,
		Hosts:       []string{`algo-1`},
	}
	topo, err := config.Resolve(43857, 53957)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if topo.Rank != 0 || topo.WorldSize != 1 {
		t.Errorf("got rank=%d world=%d, want 0/1", topo.Rank, topo.WorldSize)
	}
	if topo.MeshAddr != nil {
		t.Errorf("single-host topology must not have a mesh address, got %s", topo.MeshAddr)
	}
}

func Test_ResolveUnknownCurrentHost(t *testing.T) {
	config := ResourceConfig{
		CurrentHost: `algo-9`,
		Hosts:       []string{`algo-1`, `algo-2`},
	}
	topo, err := config.Resolve(43857, 53957)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if topo.Rank != 0 {
		t.Errorf("unmatched current host should fall back to rank 0, got %d", topo.Rank)
	}
}

func Test_ResolveEmpty(t *testing.T) {
	config := ResourceConfig{CurrentHost: `algo-1`}
	if _, err := config.Resolve(43857, 53957); err != ErrNoHosts {
		t.Errorf("got %v, want ErrNoHosts", err)
	}
}

func Test_ResolveDeterministic(t *testing.T) {
	config := ResourceConfig{
		CurrentHost: `algo-1`,
		Hosts:       []string{`algo-1`, `algo-2`},
	}
	a, _ := config.Resolve(43857, 53957)
	b, _ := config.Resolve(43857, 53957)
	if d := cmp.Diff(a, b); d != "" {
		t.Errorf("Resolve must be deterministic:\n%s", d)
	}
}

func Test_WorkerString(t *testing.T) {
	wl := WorkerList{
		{Ordinal: 0, Host: `algo-1`, Port: 43857},
		{Ordinal: 1, Host: `algo-2`, Port: 43857},
	}
	want := `localservice:0;algo-1:43857|localservice:1;algo-2:43857`
	if got := wl.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
