package utils

import (
	"fmt"
	"net"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

func LogArgs() {
	for i, a := range os.Args {
		fmt.Printf("[arg] [%d]=%s\n", i, a)
	}
}

func LogEnvWithPrefix(prefix string, logPrefix string) {
	envs := os.Environ()
	sort.Strings(envs)
	for _, kv := range envs {
		if strings.HasPrefix(kv, prefix) {
			fmt.Printf("[%s]: %s\n", logPrefix, kv)
		}
	}
}

func LogCudaEnv() {
	LogEnvWithPrefix(`CUDA_`, `cuda-env`)
}

func LogNCCLEnv() {
	LogEnvWithPrefix(`NCCL_`, `nccl-env`)
}

func LogXRTEnv() {
	LogEnvWithPrefix(`XRT_`, `xrt-env`)
}

func LogSMEnv() {
	LogEnvWithPrefix(`SM_`, `sm-env`)
}

func LogNICInfo() error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}
	for i, nic := range ifaces {
		addrs, err := nic.Addrs()
		if err != nil {
			return err
		}
		var as []string
		for _, a := range addrs {
			as = append(as, a.String())
		}
		fmt.Printf("[nic] [%d] %s :: %s\n", i, nic.Name, strings.Join(as, ", "))
	}
	return nil
}

func ExitErr(err error) {
	fmt.Fprintf(os.Stderr, "exit on error: %v\n", err)
	os.Exit(1)
}

func Measure(f func() error) (time.Duration, error) {
	t0 := time.Now()
	err := f()
	return time.Since(t0), err
}

func ProgName() string {
	if len(os.Args) > 0 {
		return path.Base(os.Args[0])
	}
	return ""
}

func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
