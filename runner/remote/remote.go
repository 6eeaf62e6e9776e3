// Package remote fans a command out over the hosts of a launch via ssh.
package remote

import (
	"context"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/iostream"
	"github.com/smtrain/xlarun/log"
	"github.com/smtrain/xlarun/proc"
	"github.com/smtrain/xlarun/ssh"
	"golang.org/x/sync/errgroup"
)

// RunAll executes every proc on its own host and waits for all of them.
// Failures do not stop the other hosts; the first error is returned
// after the join.
func RunAll(ctx context.Context, user string, ps []proc.Proc, verbose bool, logDir string) error {
	var g errgroup.Group
	for i, p := range ps {
		i, p := i, p
		g.Go(func() error { return runOne(ctx, user, i, p, verbose, logDir) })
	}
	return g.Wait()
}

func runOne(ctx context.Context, user string, i int, p proc.Proc, verbose bool, logDir string) error {
	t0 := time.Now()
	client, err := ssh.New(ssh.Config{Host: p.Hostname, User: user})
	if err != nil {
		log.Errorf("#<%s> failed to create ssh client: %v", p.Name, err)
		return err
	}
	defer client.Close()
	var redirectors []*iostream.StdWriters
	if verbose {
		redirectors = append(redirectors, iostream.NewPrefixRedirector(p.Name, iostream.PickColor(i)))
	}
	if len(logDir) > 0 {
		redirectors = append(redirectors, iostream.NewFileRedirector(path.Join(logDir, p.Name)))
	}
	if err := client.Watch(ctx, p.Script(), redirectors...); err != nil {
		log.Errorf("#<%s> exited with error: %v, took %s", p.Name, err, time.Since(t0))
		return errors.Wrapf(err, "#<%s>", p.Name)
	}
	log.Infof("#<%s> finished successfully, took %s", p.Name, time.Since(t0))
	return nil
}
