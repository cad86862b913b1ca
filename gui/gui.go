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

// Package gui brings together the SDL input and the VMU screen into a single
// user interface. SDL requires that windows are created and events are
// handled by the main thread, so the GUI is created and serviced by the main
// thread while the bus runs in its own goroutine.
package gui

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/gui/sdlinput"
	"github.com/jetsetilly/maplebus/gui/sdllcd"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/userinput"
	"github.com/veandco/go-sdl2/sdl"
)

// GUI defines the operations that the main thread performs on a user
// interface.
type GUI interface {
	// Service() should not pause or loop longer than necessary. It must only
	// be called by the main thread.
	Service()

	// cleanup resources used by the gui
	Destroy(output io.Writer)
}

// Options select the parts of the SDL interface to create.
type Options struct {
	// read input from SDL game controllers
	Input bool

	// open a window for the VMU screen. the title usually names the slot
	LCD      bool
	LCDTitle string
}

// SDL implements the GUI interface.
type SDL struct {
	perm logger.Permission

	Input *sdlinput.Input
	LCD   *sdllcd.LCD

	quit atomic.Bool
}

// NewSDL initialises SDL and creates the parts of the interface requested by
// the options. Must be called by the main thread.
func NewSDL(perm logger.Permission, ctrl *userinput.Controllers, opts Options) (*SDL, error) {
	err := sdl.Init(sdl.INIT_EVENTS)
	if err != nil {
		return nil, curated.Errorf("gui: %v", err)
	}

	g := &SDL{perm: perm}

	if opts.Input {
		g.Input, err = sdlinput.NewInput(perm, ctrl)
		if err != nil {
			g.Destroy(io.Discard)
			return nil, err
		}
	}

	if opts.LCD {
		g.LCD, err = sdllcd.NewLCD(opts.LCDTitle)
		if err != nil {
			g.Destroy(io.Discard)
			return nil, err
		}
		if g.Input != nil {
			g.Input.SetWindow(g.LCD.Window())
		}
	}

	return g, nil
}

// Display returns the VMU screen or nil if there is no LCD window.
func (g *SDL) Display() devices.Display {
	if g.LCD == nil {
		return nil
	}
	return g.LCD
}

// Rumbler returns the force feedback output for the player. Returns nil if
// input is not being read from SDL.
func (g *SDL) Rumbler(player int) devices.Rumbler {
	if g.Input == nil {
		return nil
	}
	return g.Input.Rumbler(player)
}

// Quit returns true once the user has asked to quit.
func (g *SDL) Quit() bool {
	return g.quit.Load()
}

// Service implements the GUI interface.
func (g *SDL) Service() {
	if g.Input != nil {
		if g.Input.Service() {
			g.quit.Store(true)
		}
	} else {
		// events must still be drained for the window to respond
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			if _, ok := ev.(*sdl.QuitEvent); ok {
				g.quit.Store(true)
			}
		}
	}

	if g.LCD != nil {
		err := g.LCD.Render()
		if err != nil {
			logger.Log(g.perm, "gui", err)
		}
	}
}

// Destroy implements the GUI interface.
func (g *SDL) Destroy(output io.Writer) {
	if g.LCD != nil {
		g.LCD.Destroy()
		g.LCD = nil
	}
	if g.Input != nil {
		g.Input.Destroy()
		g.Input = nil
	}
	sdl.Quit()
	fmt.Fprintln(output, "gui closed")
}
