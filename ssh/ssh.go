// Package ssh is a thin wrapper for golang.org/x/crypto/ssh, used to
// start the launcher on the other hosts of a multi-host job.
package ssh

import (
	"context"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/smtrain/xlarun/iostream"
	"golang.org/x/crypto/ssh"
)

var defaultTimeout = 8 * time.Second

// Config is a pair of user and host.
type Config struct {
	User string
	Host string
}

func withDefaultPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "22")
}

func withDefaultUser(name string) string {
	if len(name) == 0 {
		if u, err := user.Current(); err == nil {
			return u.Username
		}
	}
	return name
}

func completeConfig(config Config) Config {
	return Config{
		User: withDefaultUser(config.User),
		Host: withDefaultPort(config.Host),
	}
}

func defaultKeyFile() (ssh.Signer, error) {
	u, err := user.Current()
	if err != nil {
		return nil, err
	}
	bs, err := os.ReadFile(filepath.Join(u.HomeDir, ".ssh", "id_rsa"))
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(bs)
}

// Client is a wrapper for ssh.Client.
type Client struct {
	config Config
	client *ssh.Client
}

func New(config Config) (*Client, error) {
	config = completeConfig(config)
	key, err := defaultKeyFile()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ssh key")
	}
	clientConfig := &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(key),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         defaultTimeout,
	}
	client, err := ssh.Dial("tcp", config.Host, clientConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", config.Host)
	}
	return &Client{config: config, client: client}, nil
}

func (c *Client) String() string {
	return c.config.User + "@" + c.config.Host
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Watch runs cmd on the remote host, streaming its output through the
// redirectors. Cancelling ctx kills the remote command.
func (c *Client) Watch(ctx context.Context, cmd string, redirectors ...*iostream.StdWriters) error {
	session, err := c.client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()
	stdout, err := session.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		return err
	}
	if err := session.RequestPty("xterm", 80, 40, nil); err != nil {
		return err
	}
	ioDone := iostream.StdReaders{Stdout: stdout, Stderr: stderr}.Stream(redirectors...)
	if err := session.Start(cmd); err != nil {
		return err
	}
	done := make(chan error)
	go func() {
		ioDone.Wait()
		done <- session.Wait()
	}()
	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}
