package iostream

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

var warn = color.New(color.FgRed, color.Bold)

var palette = []*color.Color{
	color.New(color.FgGreen),
	color.New(color.FgBlue),
	color.New(color.FgYellow),
	color.New(color.FgCyan),
}

// PickColor assigns worker i a stable terminal color.
func PickColor(i int) *color.Color {
	return palette[i%len(palette)]
}

type prefixWriter struct {
	prefix string
	w      io.Writer
}

func (p prefixWriter) Write(bs []byte) (int, error) {
	fmt.Fprintf(p.w, "[%s] %s", p.prefix, string(bs))
	return len(bs), nil
}

// NewPrefixRedirector writes both streams to the terminal, each line
// prefixed with the colored worker name.
func NewPrefixRedirector(name string, c *color.Color) *StdWriters {
	colored := name
	if c != nil {
		colored = c.Sprint(name)
	}
	return &StdWriters{
		Stdout: &prefixWriter{prefix: colored + "::stdout", w: os.Stdout},
		Stderr: &prefixWriter{prefix: colored + "::" + warn.Sprint("stderr"), w: os.Stderr},
	}
}

type lazyFile struct {
	name string
	f    io.WriteCloser
}

// NewLazyFile creates the file on first write, so empty streams leave
// no log files behind.
func NewLazyFile(filename string) io.WriteCloser {
	return &lazyFile{name: filename}
}

func (f *lazyFile) Write(bs []byte) (int, error) {
	if f.f == nil {
		if err := os.MkdirAll(filepath.Dir(f.name), 0755); err != nil {
			return 0, err
		}
		var err error
		if f.f, err = os.Create(f.name); err != nil {
			return 0, err
		}
	}
	return f.f.Write(bs)
}

func (f *lazyFile) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// NewFileRedirector mirrors both streams to <prefix>-std{out,err}.log.
func NewFileRedirector(prefix string) *StdWriters {
	return &StdWriters{
		Stdout: NewLazyFile(prefix + `-stdout.log`),
		Stderr: NewLazyFile(prefix + `-stderr.log`),
	}
}
