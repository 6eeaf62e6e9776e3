package job

import (
	"os"
	"strconv"
	"strings"

	"github.com/smtrain/xlarun/log"
)

// https://devblogs.nvidia.com/cuda-pro-tip-control-gpu-visibility-cuda_visible_devices/
const cudaVisibleDevicesKey = `CUDA_VISIBLE_DEVICES`

var lookupEnv = os.LookupEnv

// getCudaIndex maps a local rank to a physical device index, respecting
// any CUDA_VISIBLE_DEVICES restriction already in effect.
func getCudaIndex(localRank int) int {
	val, ok := lookupEnv(cudaVisibleDevicesKey)
	if !ok {
		return localRank
	}
	ids, err := parseCudaVisibleDevices(val)
	if err != nil {
		log.Warnf("invalid value of %s: %q", cudaVisibleDevicesKey, val)
		return -1
	}
	if len(ids) <= localRank {
		log.Warnf("%s=%s is not enough for local rank %d", cudaVisibleDevicesKey, val, localRank)
		return -1
	}
	return ids[localRank]
}

func parseCudaVisibleDevices(val string) ([]int, error) {
	if len(val) == 0 {
		return nil, nil
	}
	var ids []int
	for _, p := range strings.Split(val, ",") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}
