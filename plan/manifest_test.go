package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func Test_ParseResourceConfig(t *testing.T) {
	bs := []byte(`{"current_host":"algo-2","hosts":["algo-1","algo-2"]}`)
	config, err := ParseResourceConfig(bs)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := &ResourceConfig{CurrentHost: `algo-2`, Hosts: []string{`algo-1`, `algo-2`}}
	if d := cmp.Diff(want, config); d != "" {
		t.Errorf("config mismatch (-want +got):\n%s", d)
	}
}

func Test_ParseResourceConfigNoHosts(t *testing.T) {
	for _, bs := range []string{
		`{"current_host":"algo-1"}`,
		`{"current_host":"algo-1","hosts":[]}`,
	} {
		if _, err := ParseResourceConfig([]byte(bs)); errors.Cause(err) != ErrNoHosts {
			t.Errorf("%s: got %v, want ErrNoHosts", bs, err)
		}
	}
}

func Test_ParseResourceConfigMalformed(t *testing.T) {
	if _, err := ParseResourceConfig([]byte(`{`)); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func Test_LoadResourceConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	const filename = `/opt/ml/input/config/resourceconfig.json`
	afero.WriteFile(fs, filename, []byte(`{"current_host":"algo-1","hosts":["algo-1"]}`), 0644)
	config, err := LoadResourceConfig(fs, filename)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.CurrentHost != `algo-1` {
		t.Errorf("got %q, want algo-1", config.CurrentHost)
	}
	if _, err := LoadResourceConfig(fs, `/missing.json`); err == nil {
		t.Error("missing file should fail")
	}
}
