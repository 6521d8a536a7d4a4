/*
meshview opens a window and renders the OBJ models listed in its
configuration with an orbit camera and a text overlay.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/testbed"
)

func main() {
	if err := run(); err != nil {
		core.LogFatal("meshview: %+v", err)
	}
}

func run() (err error) {
	path, err := engine.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := engine.LoadConfig(path)
	if err != nil {
		return err
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := e.Shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		// The loop owns the window; ask it to stop instead of tearing down from here.
		if _, ok := <-sigCh; ok {
			e.Stop()
		}
	}()

	return e.Run()
}
