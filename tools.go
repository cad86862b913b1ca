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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/maple"
	"github.com/jetsetilly/maplebus/hardware/maple/bridge"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/jvs"
	"github.com/jetsetilly/maplebus/modalflag"
	"github.com/jetsetilly/maplebus/poller"
)

func vmu(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("INFO", "FORMAT", "LCD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "INFO":
		return vmuInfo(md)
	case "FORMAT":
		return vmuFormat(md)
	case "LCD":
		return vmuLCD(md)
	}

	return nil
}

func vmuInfo(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single VMU image is required for %s mode", md)
	}

	img, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	return writeVMUInfo(os.Stdout, img)
}

func writeVMUInfo(w io.Writer, img []byte) error {
	if len(img) != devices.VMUSize {
		return fmt.Errorf("not a VMU image: %d bytes", len(img))
	}

	mi, ok := devices.ReadMediaInfo(img)
	if !ok {
		fmt.Fprintln(w, "image is not formatted")
		return nil
	}
	fmt.Fprintln(w, mi)

	var used int
	for _, e := range devices.Directory(img) {
		fmt.Fprintln(w, e)
		used += int(e.Blocks)
	}
	fmt.Fprintf(w, "%d blocks used of %d\n", used, mi.SaveAreaBlocks)

	return nil
}

func vmuFormat(md *modalflag.Modes) error {
	md.NewMode()
	force := md.AddBool("force", false, "overwrite an existing file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single filename is required for %s mode", md)
	}
	fn := md.GetArg(0)

	if !*force {
		_, err := os.Stat(fn)
		if err == nil {
			return fmt.Errorf("%s already exists. use -force to overwrite", fn)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	img, err := devices.DefaultVMUImage()
	if err != nil {
		return err
	}

	return os.WriteFile(fn, img, 0o644)
}

func vmuLCD(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single save state file is required for %s mode", md)
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}
	env.Label = environment.Scratch

	pl, err := poller.NewPoller(env, &maple.MemoryHost{})
	if err != nil {
		return err
	}
	err = pl.Maple.Load(data)
	if err != nil {
		return err
	}

	var found bool
	pl.Maple.Registry.Devices(func(addr maple.Address, d devices.Device) {
		if v, ok := d.(interface{ LCD() []byte }); ok {
			found = true
			fmt.Printf("%s\n%s", addr, renderLCD(v.LCD()))
		}
	})
	if !found {
		return fmt.Errorf("no VMU in save state")
	}

	return nil
}

// renderLCD draws the decoded LCD image with two rows of pixels per line of
// text. a zero byte is a lit pixel
func renderLCD(img []byte) string {
	lit := func(x, y int) bool {
		i := y*devices.LCDWidth + x
		return i < len(img) && img[i] == 0x00
	}

	var s strings.Builder
	for y := 0; y < devices.LCDHeight; y += 2 {
		for x := 0; x < devices.LCDWidth; x++ {
			switch top, bot := lit(x, y), lit(x, y+1); {
			case top && bot:
				s.WriteRune('█')
			case top:
				s.WriteRune('▀')
			case bot:
				s.WriteRune('▄')
			default:
				s.WriteRune(' ')
			}
		}
		s.WriteRune('\n')
	}
	return s.String()
}

// parse hex bytes given as separate arguments or as one quoted argument
func hexFrame(args []string) (codec.Frame, error) {
	f, _, err := bridge.DecodeLine(strings.Join(args, " "))
	return f, err
}

func jvsRequest(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("the request is a Maple frame as hex bytes. for example, JVS ID request:\n  maplebus JVS 82 20 00 00")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setEcho(*log)

	f, err := hexFrame(md.RemainingArgs())
	if err != nil {
		return err
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}

	hub := jvs.NewHub(devices.Config{Env: env, Bus: 0, Port: codec.MainPort})
	defer hub.Destroy()

	reply := hub.RawDMA(f.Bytes(), 0)
	for len(reply) >= 4 {
		n := 4 + int(reply[3])*4
		if n > len(reply) {
			n = len(reply)
		}
		if binary.LittleEndian.Uint32(reply) == codec.NoDevice {
			fmt.Println("no reply")
			break
		}
		words := codec.BytesToWords(reply[:n])
		r, err := codec.DecodeFrame(words)
		if err != nil {
			return err
		}
		fmt.Print(bridge.EncodeLine(r))
		reply = reply[n:]
	}

	return nil
}

// vibration used to check a real vibration pack. full power with a short
// duration
const checkVibration = 0x00040700

func bridgeCheck(md *modalflag.Modes) error {
	md.NewMode()
	tty := md.AddString("tty", "", "serial device of the adaptor")
	tcp := md.AddBool("tcp", false, "connect to the bridge server on the local machine")
	bus := md.AddInt("bus", 0, "bus number")
	port := md.AddInt("port", 0, "expansion port of the device")
	kind := md.AddString("kind", "vmu", "device to mirror: vmu or purupuru")
	pull := md.AddString("pull", "", "copy the image of a real VMU to a file")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setEcho(*log)

	if *bus < 0 || *bus >= maple.NumBuses || *port < 0 || *port >= codec.MainPort {
		return fmt.Errorf("no such slot: bus %d port %d", *bus, *port)
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}

	var link *bridge.Link
	switch {
	case *tcp:
		link, err = bridge.DialTCP(env, *bus)
	case *tty != "":
		link, err = bridge.OpenTTY(env, *tty)
	default:
		err = fmt.Errorf("one of -tty or -tcp is required")
	}
	if err != nil {
		return err
	}
	defer link.Close()

	cfg := devices.Config{Env: env, Bus: *bus, Port: *port, Link: link}
	addr := codec.Recipient(*bus, *port)
	sender := uint8(*bus << 6)

	reply, err := link.Exchange(codec.Frame{Command: codec.DeviceRequest, Recipient: addr, Sender: sender})
	if err != nil {
		return err
	}
	fmt.Printf("device request: %s", bridge.EncodeLine(reply))
	if reply.Command != codec.DeviceStatus || len(reply.Payload) == 0 {
		return fmt.Errorf("no device at %s", devices.LogicalPort(*bus, *port))
	}
	fn := reply.Payload[0]

	switch *kind {
	case "vmu":
		if fn&codec.FuncStorage != codec.FuncStorage {
			return fmt.Errorf("device at %s is not a VMU", devices.LogicalPort(*bus, *port))
		}

		reply, err = link.Exchange(codec.Frame{
			Command:   codec.GetMediaInfo,
			Recipient: addr,
			Sender:    sender,
			Payload:   []uint32{codec.FuncStorage, 0},
		})
		if err != nil {
			return err
		}
		fmt.Printf("media info: %s", bridge.EncodeLine(reply))

		if *pull != "" {
			m := devices.NewMirrorVMU(cfg, true)
			defer m.Destroy()
			link.OnRefresh(func() {
				fmt.Println("refresh requested by adaptor")
			})
			n := m.Pull()
			if n != devices.VMUNumBlocks {
				return fmt.Errorf("read %d of %d blocks", n, devices.VMUNumBlocks)
			}
			err = os.WriteFile(*pull, m.Flash(), 0o644)
			if err != nil {
				return err
			}
			return writeVMUInfo(os.Stdout, m.Flash())
		}

	case "purupuru":
		if fn&codec.FuncVibration != codec.FuncVibration {
			return fmt.Errorf("device at %s is not a vibration pack", devices.LogicalPort(*bus, *port))
		}

		m := devices.NewMirrorPurupuru(cfg)
		defer m.Destroy()

		in := make([]byte, 8)
		binary.LittleEndian.PutUint32(in, codec.FuncVibration)
		binary.LittleEndian.PutUint32(in[4:], checkVibration)
		status, _ := m.Dispatch(codec.SetCondition, in)
		fmt.Printf("vibration: %s (%s)\n", codec.StatusName(status), devices.DecodeVibration(checkVibration, 1000))

	default:
		return fmt.Errorf("unsupported mirror kind: %s", *kind)
	}

	return nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	load := md.AddString("load", "", "load bus state before dumping")
	out := md.AddString("out", "", "output file. stdout if not specified")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}
	env.Label = environment.Scratch

	pl, err := poller.NewPoller(env, &maple.MemoryHost{})
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

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	pl.Maple.Dump(w)

	return nil
}
