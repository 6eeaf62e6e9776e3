package plan

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var errInvalidHostSpec = errors.New("invalid host spec")

// HostSpec describes one host of a launch: its manifest name, the
// number of worker slots (GPUs) and, optionally, a distinct address to
// reach it from outside (for SSH).
type HostSpec struct {
	Host       string
	Slots      int
	PublicAddr string
}

func (h HostSpec) String() string {
	return strings.Join([]string{h.Host, strconv.Itoa(h.Slots), h.PublicAddr}, ":")
}

func parseHostSpec(spec string) (*HostSpec, error) {
	parts := strings.Split(spec, ":")
	h := HostSpec{Slots: 1}
	switch len(parts) {
	case 1:
		h.Host, h.PublicAddr = parts[0], parts[0]
	case 2, 3:
		h.Host, h.PublicAddr = parts[0], parts[0]
		slots, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, errInvalidHostSpec
		}
		h.Slots = slots
		if len(parts) == 3 {
			h.PublicAddr = parts[2]
		}
	default:
		return nil, errInvalidHostSpec
	}
	if len(h.Host) == 0 {
		return nil, errInvalidHostSpec
	}
	return &h, nil
}

type HostList []HostSpec

func (hl HostList) String() string {
	var ss []string
	for _, h := range hl {
		ss = append(ss, h.String())
	}
	return strings.Join(ss, ",")
}

func (hl HostList) Cap() int {
	var cap int
	for _, h := range hl {
		cap += h.Slots
	}
	return cap
}

// ParseHostList parses a comma separated list of
// <host>[:<slots>[:<public addr>]].
func ParseHostList(hostlist string) (HostList, error) {
	var hl HostList
	for _, h := range strings.Split(hostlist, ",") {
		spec, err := parseHostSpec(h)
		if err != nil {
			return nil, err
		}
		hl = append(hl, *spec)
	}
	return hl, nil
}
