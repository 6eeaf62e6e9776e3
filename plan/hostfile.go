package plan

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var errInvalidHostfile = errors.New("invalid hostfile")

// ParseHostfile parses an mpirun style hostfile:
// https://www.open-mpi.org/doc/current/man1/mpirun.1.php
func ParseHostfile(fs afero.Fs, filename string) (HostList, error) {
	bs, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read hostfile %s", filename)
	}
	return parseHostfile(string(bs))
}

func parseHostfile(text string) (HostList, error) {
	var hl HostList
	for _, line := range strings.Split(text, "\n") {
		line = trimComment(line)
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		h, err := parseHostfileLine(line)
		if err != nil {
			return nil, err
		}
		hl = append(hl, *h)
	}
	return hl, nil
}

func parseHostfileLine(line string) (*HostSpec, error) {
	parts := strings.Fields(line)
	h := HostSpec{Host: parts[0], Slots: 1, PublicAddr: parts[0]}
	for _, kv := range parts[1:] {
		kvs := strings.Split(kv, "=")
		if len(kvs) != 2 {
			return nil, errInvalidHostfile
		}
		switch k, v := kvs[0], kvs[1]; k {
		case `slots`:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, errInvalidHostfile
			}
			h.Slots = n
		case `public_addr`:
			h.PublicAddr = v
		default:
			return nil, errInvalidHostfile
		}
	}
	return &h, nil
}

func trimComment(line string) string {
	parts := strings.SplitN(line, "#", 2)
	return parts[0]
}
