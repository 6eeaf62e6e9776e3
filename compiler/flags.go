package compiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/smtrain/xlarun/log"
)

const xlaFlagsEnvKey = `XLA_FLAGS`

// SetFlag sets an environment variable owned by the operator. A
// pre-existing value wins; the conflict is logged, never fatal.
func SetFlag(key, value string) {
	if pre, ok := os.LookupEnv(key); ok && len(pre) > 0 {
		log.Warnf("found pre-existing configuration %s=%s", key, pre)
		return
	}
	os.Setenv(key, value)
	log.Debugf("set flag %s=%s", key, value)
}

// SetXLAFlag appends --key[=value] to the accumulating XLA_FLAGS
// variable, unless a token for the same key is already present.
func SetXLAFlag(key, value string) {
	token := `--` + key
	if len(value) > 0 {
		token = fmt.Sprintf("--%s=%s", key, value)
	}
	pre := os.Getenv(xlaFlagsEnvKey)
	if len(pre) == 0 {
		os.Setenv(xlaFlagsEnvKey, token)
		log.Debugf("set flag %s", token)
		return
	}
	for _, t := range strings.Split(pre, " ") {
		if strings.HasPrefix(t, `--`+key) {
			log.Warnf("found pre-existing configuration %s", t)
			return
		}
	}
	os.Setenv(xlaFlagsEnvKey, pre+" "+token)
	log.Debugf("set flag %s", token)
}
