package plan

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/smtrain/xlarun/log"
)

// NetAddr is the network address of a worker or the mesh service.
type NetAddr struct {
	Host string
	Port int
}

func (a NetAddr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Worker locates one host's XRT local service.
type Worker struct {
	Ordinal int
	Host    string
	Port    int
}

func (w Worker) String() string {
	return fmt.Sprintf("localservice:%d;%s:%d", w.Ordinal, w.Host, w.Port)
}

type WorkerList []Worker

func (wl WorkerList) String() string {
	var ss []string
	for _, w := range wl {
		ss = append(ss, w.String())
	}
	return strings.Join(ss, "|")
}

// Topology is the resolved structure of one distributed launch: this
// host's rank, the total number of hosts, the location of every worker
// and, for multi-host jobs, the mesh service used for rendezvous.
type Topology struct {
	Rank      int
	WorldSize int
	Workers   WorkerList
	MeshAddr  *NetAddr
}

// Resolve computes the launch topology from the resource config. The
// rank is the index of CurrentHost in Hosts; a current host that does
// not appear in the list falls back to rank 0, which is only sound for
// single-host jobs and is therefore reported loudly.
func (c ResourceConfig) Resolve(workerPort, meshPort int) (*Topology, error) {
	if len(c.Hosts) == 0 {
		return nil, ErrNoHosts
	}
	rank := -1
	var workers WorkerList
	for i, host := range c.Hosts {
		if rank < 0 && host == c.CurrentHost {
			rank = i
		}
		workers = append(workers, Worker{Ordinal: i, Host: host, Port: workerPort})
	}
	if rank < 0 {
		log.Warnf("current host %q not found in hosts %q, falling back to rank 0", c.CurrentHost, c.Hosts)
		rank = 0
	}
	t := &Topology{
		Rank:      rank,
		WorldSize: len(c.Hosts),
		Workers:   workers,
	}
	if t.WorldSize > 1 {
		t.MeshAddr = &NetAddr{Host: c.Hosts[0], Port: meshPort}
	}
	return t, nil
}
