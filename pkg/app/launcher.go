// Package app provides the small App/Launcher scaffolding main.go uses to
// start and wait on the services that make up the process (today: just the
// HTTP server, but kept general so a future background worker has a home).
package app

import (
	"fmt"
	"sync"

	"github.com/ordermesh/orderflow/pkg/console"
	"github.com/ordermesh/orderflow/pkg/mlog"
)

// App is anything that can be run under a Launcher until it decides to
// return (normal exit, signal, or fatal error).
type App interface {
	Run(launcher *Launcher) error
}

// LauncherOption configures a Launcher.
type LauncherOption func(l *Launcher)

// WithLogger attaches a logger to the Launcher.
func WithLogger(logger mlog.Logger) LauncherOption {
	return func(l *Launcher) { l.Logger = logger }
}

// RunApp registers a named App to be started when the Launcher runs.
func RunApp(name string, a App) LauncherOption {
	return func(l *Launcher) { l.apps[name] = a }
}

// Launcher runs a fixed set of named Apps concurrently and blocks until all
// of them return.
type Launcher struct {
	Logger mlog.Logger
	apps   map[string]App
	wg     sync.WaitGroup
}

// NewLauncher builds a Launcher from the given options.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		Logger: &mlog.NoneLogger{},
		apps:   make(map[string]App),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run starts every registered App in its own goroutine and waits for all of
// them to finish.
func (l *Launcher) Run() {
	fmt.Println(console.Title("orderflow launcher"))
	l.Logger.Infof("starting %d app(s)", len(l.apps))

	l.wg.Add(len(l.apps))

	for name, a := range l.apps {
		go func(name string, a App) {
			defer l.wg.Done()

			l.Logger.Infof("app (%s) starting", name)

			if err := a.Run(l); err != nil {
				l.Logger.Errorf("app (%s) exited with error: %v", name, err)
			}

			l.Logger.Infof("app (%s) finished", name)
		}(name, a)
	}

	l.wg.Wait()
	l.Logger.Info("launcher terminated")
}
