// This file is part of Maplebus.
//
// Maplebus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Maplebus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Maplebus.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/preferences"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/modalflag"
	"github.com/jetsetilly/maplebus/prefs"
	"github.com/jetsetilly/maplebus/version"
)

// requests made of the main thread by the goroutine running the mode
type request int

const (
	// end the program. the value is the exit status
	requestExit request = iota

	// the mode handles the interrupt signal from now on
	requestReleaseInterrupt
)

type message struct {
	req   request
	value int
}

// GuiCreator is a GUI that is created, serviced and destroyed on the main
// thread, as SDL requires.
type GuiCreator interface {
	Service()
	Destroy(io.Writer)
}

type creation struct {
	gui GuiCreator
	err error
}

// mainThread is how a mode talks to main().
type mainThread struct {
	messages chan message
	creators chan func() (GuiCreator, error)
	created  chan creation
}

func (mt *mainThread) exit(status int) {
	mt.messages <- message{req: requestExit, value: status}
}

func (mt *mainThread) releaseInterrupt() {
	mt.messages <- message{req: requestReleaseInterrupt}
}

// createGUI blocks until the main thread has run the creator.
func (mt *mainThread) createGUI(creator func() (GuiCreator, error)) (GuiCreator, error) {
	mt.creators <- creator
	c := <-mt.created
	return c.gui, c.err
}

// #mainthread
func main() {
	mt := &mainThread{
		messages: make(chan message),
		creators: make(chan func() (GuiCreator, error)),
		created:  make(chan creation),
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go launch(mt, os.Args[1:])

	var gui GuiCreator
	destroy := func() {
		if gui != nil {
			gui.Destroy(os.Stderr)
			gui = nil
		}
	}

	status := 0
	running := true
	for running {
		select {
		case <-interrupt:
			fmt.Println("\r")
			destroy()
			running = false

		case creator := <-mt.creators:
			destroy()
			g, err := creator()
			if err == nil {
				gui = g
			}
			mt.created <- creation{gui: gui, err: err}

		case msg := <-mt.messages:
			switch msg.req {
			case requestExit:
				destroy()
				status = msg.value
				running = false
			case requestReleaseInterrupt:
				signal.Stop(interrupt)
			}

		default:
			if gui != nil {
				gui.Service()
			} else {
				time.Sleep(time.Millisecond)
			}
		}
	}

	fmt.Print("\r")
	os.Exit(status)
}

// launch runs the selected mode. it is started as a goroutine by main()
func launch(mt *mainThread, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("POLL", "VMU", "JVS", "BRIDGE", "DUMP", "PREFS")
	showVersion := md.AddBool("version", false, "print version and exit")
	overrides := md.AddString("prefs", "", "preference overrides. for example: \"maple.bus.1.main::keyboard; maple.swapmsb::true\"")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		mt.exit(0)
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		mt.exit(10)
		return
	}

	if *showVersion {
		v, rev, _ := version.Version()
		fmt.Printf("%s %s %s\n", version.ApplicationName, v, rev)
		mt.exit(0)
		return
	}

	if err := prefs.SetOverrides(*overrides); err != nil {
		fmt.Printf("* error: %v\n", err)
		mt.exit(10)
		return
	}

	modes := map[string]func(*modalflag.Modes) error{
		"POLL":   func(md *modalflag.Modes) error { return poll(md, mt) },
		"VMU":    vmu,
		"JVS":    jvsRequest,
		"BRIDGE": bridgeCheck,
		"DUMP":   dump,
		"PREFS":  showPrefs,
	}

	if err := modes[md.Mode()](md); err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		mt.exit(20)
		return
	}

	mt.exit(0)
}

// the environment for the main bus. preferences are read from disk with
// any command line overrides applied
func newEnvironment() (*environment.Environment, error) {
	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}
	for _, k := range prefs.UnusedOverrides() {
		logger.Logf(logger.Allow, "prefs", "unknown preference in override: %s", k)
	}
	return environment.NewEnvironment(nil, p), nil
}

// the log is echoed to stdout if echo is true
func setEcho(echo bool) {
	if echo {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}
}

func showPrefs(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}
	fmt.Print(env.Prefs.String())
	logger.Write(os.Stdout)

	return nil
}
