// Package browser opens the admin console and the public display on the
// machine running the server.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Commander starts an external command without waiting for it
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start executes a command and starts it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = RealCommander{}

// launchers maps GOOS to the command and leading arguments that open a URL
var launchers = map[string][]string{
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// Open opens the specified URL in the default browser
func Open(url string) error {
	return OpenWithCommander(url, defaultCommander, runtime.GOOS)
}

// OpenWithCommander opens the URL using the specified commander and OS
func OpenWithCommander(url string, commander Commander, goos string) error {
	launcher, ok := launchers[goos]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", goos)
	}
	args := append(append([]string{}, launcher[1:]...), url)
	return commander.Start(launcher[0], args...)
}

// OpenAll opens each URL in turn and returns every failure joined
func OpenAll(urls ...string) error {
	var errs []error
	for _, u := range urls {
		if err := Open(u); err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", u, err))
		}
	}
	return errors.Join(errs...)
}
