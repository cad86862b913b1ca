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
	"os"
	"os/signal"
	"time"

	"github.com/jetsetilly/maplebus/audio/micsource"
	"github.com/jetsetilly/maplebus/gui"
	"github.com/jetsetilly/maplebus/hardware/maple"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/modalflag"
	"github.com/jetsetilly/maplebus/poller"
	"github.com/jetsetilly/maplebus/statsview"
	"github.com/jetsetilly/maplebus/userinput"
	"github.com/jetsetilly/maplebus/wavwriter"
)

// the sample rate of the microphone tap. the microphone is usually sampled
// at 11025Hz
const tapRate = 11025

func poll(md *modalflag.Modes, mt *mainThread) error {
	md.NewMode()

	frames := md.AddInt("frames", 600, "number of frames to run. zero runs until quit")
	useSDL := md.AddBool("sdl", false, "read input from SDL game controllers")
	lcd := md.AddBool("lcd", false, "show the VMU screen in a window")
	mic := md.AddString("mic", "", "WAV or MP3 file to feed to the microphone")
	loop := md.AddBool("loop", false, "loop the microphone file")
	tap := md.AddString("tap", "", "record the microphone samples to a WAV file")
	load := md.AddString("load", "", "load bus state before running")
	save := md.AddString("save", "", "save bus state after running")
	stats := md.AddString("statsview", "", "address of the runtime statistics server (eg. "+statsview.DefaultAddress+")")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setEcho(*log)

	if *stats != "" {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		defer statsview.Launch(os.Stdout, *stats)()
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}

	ctrl := userinput.NewControllers()
	host := &maple.FileHost{Input: ctrl}

	if *mic != "" {
		src, err := micsource.Load(env, *mic, *loop)
		if err != nil {
			return err
		}
		host.Sound = src

		if *tap != "" {
			ww, err := wavwriter.New(env, *tap, tapRate)
			if err != nil {
				return err
			}
			defer func() {
				if err := ww.Close(); err != nil {
					logger.Log(env, "poll", err)
				}
			}()
			src.AttachTap(ww)
		}
	} else if *tap != "" {
		return fmt.Errorf("-tap requires -mic")
	}

	var scr *gui.SDL
	if *useSDL || *lcd {
		g, err := mt.createGUI(func() (GuiCreator, error) {
			return gui.NewSDL(env, ctrl, gui.Options{
				Input:    *useSDL,
				LCD:      *lcd,
				LCDTitle: "maplebus VMU A1",
			})
		})
		if err != nil {
			return err
		}
		scr = g.(*gui.SDL)

		host.Rumbler = scr.Rumbler

		// only the first VMU is shown
		host.Display = func(bus int, port int) devices.Display {
			if bus == 0 && port == 0 {
				return scr.Display()
			}
			return nil
		}
	}

	pl, err := poller.NewPoller(env, host)
	if err != nil {
		return err
	}

	if *load != "" {
		data, err := os.ReadFile(*load)
		if err != nil {
			return err
		}
		err = pl.Maple.Load(data)
		if err != nil {
			return err
		}
	}

	pl.OnReplies(func(replies []poller.Reply) {
		for _, r := range replies {
			logger.Logf(env, "poll", "%s", r)
		}
	})

	fmt.Println(pl.Maple.Registry)

	// frames are paced to real time when there is a window to look at
	var tick <-chan time.Time
	if scr != nil {
		t := time.NewTicker(time.Second / 60)
		defer t.Stop()
		tick = t.C
	}

	// an interrupt ends the loop rather than the program so that the save
	// file is still written
	mt.releaseInterrupt()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	running := true
	for running && (*frames == 0 || pl.Frames < *frames) {
		if scr != nil && scr.Quit() {
			break
		}
		pl.Frame()

		select {
		case <-interrupt:
			running = false
		default:
			if tick != nil {
				<-tick
			}
		}
	}

	fmt.Printf("%d frames. %d passes. last pass: %s\n", pl.Frames, pl.Interrupts[maple.InterruptDMADone], pl.Maple.LastPass)

	if *save != "" {
		err = os.WriteFile(*save, pl.Maple.Save(), 0o644)
		if err != nil {
			return err
		}
	}

	return nil
}
