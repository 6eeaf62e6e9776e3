package proc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type Envs map[string]string

func (e Envs) AddIfMissing(k, v string) {
	if _, ok := e[k]; !ok {
		e[k] = v
	}
}

func Merge(e, f Envs) Envs {
	g := make(Envs)
	for k, v := range e {
		g[k] = v
	}
	for k, v := range f {
		g[k] = v
	}
	return g
}

// Proc represents a worker process to be launched on some host.
type Proc struct {
	Name     string
	Prog     string
	Args     []string
	Envs     Envs
	Hostname string
	LogDir   string
}

// Cmd builds the exec.Cmd for a local launch. The child inherits the
// parent environment overlaid with p.Envs.
func (p Proc) Cmd() *exec.Cmd {
	cmd := exec.Command(p.Prog, p.Args...)
	cmd.Env = updatedEnvFrom(p.Envs, os.Environ())
	return cmd
}

// Script renders the process as an env-prefixed shell command, for
// execution through a remote shell.
func (p Proc) Script() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "env \\\n")
	var keys []string
	for k := range p.Envs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "\t%s=%q \\\n", k, p.Envs[k])
	}
	fmt.Fprintf(buf, "\t%s", p.Prog)
	for _, a := range p.Args {
		fmt.Fprintf(buf, " \\\n\t%s", a)
	}
	fmt.Fprintf(buf, "\n")
	return buf.String()
}

func parseEnv(envs []string) Envs {
	m := make(Envs)
	for _, kv := range envs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			m[parts[0]] = parts[1]
		}
	}
	return m
}

func updatedEnvFrom(newValues Envs, oldEnvs []string) []string {
	envMap := parseEnv(oldEnvs)
	for k, v := range newValues {
		envMap[k] = v
	}
	var envs []string
	for k, v := range envMap {
		envs = append(envs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(envs)
	return envs
}
