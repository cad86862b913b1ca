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

package devices_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/test"
)

// size of the identification block without the version string
const identSize = 4 + 12 + 1 + 1 + 30 + 60 + 2 + 2

type fixedInput struct {
	in devices.Input
}

func (f *fixedInput) Input(_ int) devices.Input {
	return f.in
}

type rumble struct {
	power       float32
	inclination float32
	duration    uint32
	calls       int
}

func (r *rumble) SetVibration(power float32, inclination float32, duration uint32) {
	r.power = power
	r.inclination = inclination
	r.duration = duration
	r.calls++
}

type display struct {
	img []byte
}

func (d *display) SetImage(img []byte) {
	d.img = append([]byte{}, img...)
}

func newEnv() *environment.Environment {
	env := environment.NewEnvironment(nil, nil)
	env.Normalise()
	return env
}

func newConfig() devices.Config {
	return devices.Config{
		Env:  newEnv(),
		Bus:  0,
		Port: codec.MainPort,
	}
}

func words(w ...uint32) []byte {
	return codec.WordsToBytes(w)
}

func le32(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset:])
}

func snapshot(d devices.Device) []byte {
	s := savestate.NewSerializer()
	d.Serialize(s)
	return append([]byte{}, s.Data()...)
}

func restore(t *testing.T, d devices.Device, data []byte) {
	t.Helper()
	ds, err := savestate.NewDeserializer(data)
	test.DemandSuccess(t, err)
	d.Deserialize(ds)
	test.ExpectSuccess(t, ds.Finish())
}

var allKinds = []devices.Kind{
	devices.KindController,
	devices.KindTwinStick,
	devices.KindAsciiStick,
	devices.KindControllerXL,
	devices.KindVMU,
	devices.KindPurupuru,
	devices.KindMicrophone,
	devices.KindKeyboard,
	devices.KindMouse,
	devices.KindLightGun,
	devices.KindRFID,
	devices.KindMirrorVMU,
	devices.KindMirrorPurupuru,
}

func TestControllerDeviceRequest(t *testing.T) {
	c := devices.NewController(newConfig(), devices.KindController)

	status, out := c.Dispatch(codec.DeviceRequest, nil)
	test.ExpectEquality(t, status, codec.DeviceStatus)
	test.DemandEquality(t, len(out), identSize)
	test.ExpectEquality(t, le32(out, 0), codec.FuncInput)
	test.ExpectEquality(t, le32(out, 4), uint32(0xfe060f00))
	test.ExpectEquality(t, out[16], uint8(0xff))
	test.ExpectBytes(t, out[18:38], []byte("Dreamcast Controller"))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[108:]), uint16(0x01ae))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[110:]), uint16(0x01f4))

	// the extended version string is added for all status
	status, out = c.Dispatch(codec.AllStatusReq, nil)
	test.ExpectEquality(t, status, codec.DeviceStatusAll)
	test.ExpectSuccess(t, len(out) > identSize)
	test.ExpectSuccess(t, bytes.HasPrefix(out[identSize:], []byte("Version 1.010")))
}

func TestControllerVariants(t *testing.T) {
	caps := map[devices.Kind]uint32{
		devices.KindController:   0xfe060f00,
		devices.KindTwinStick:    0xfefe0000,
		devices.KindAsciiStick:   0xff070000,
		devices.KindControllerXL: 0xffff3f00,
	}

	for k, v := range caps {
		c := devices.NewController(newConfig(), k)
		test.ExpectEquality(t, c.Kind(), k)
		_, out := c.Dispatch(codec.DeviceRequest, nil)
		test.ExpectEquality(t, le32(out, 4), v, k)
	}
}

func TestUnknownCommand(t *testing.T) {
	for _, k := range allKinds {
		d, err := devices.Create(k, newConfig())
		test.DemandSuccess(t, err)
		status, out := d.Dispatch(0x55, words(0x01020304))
		test.ExpectEquality(t, status, codec.UnknownCmd, k)
		test.ExpectEquality(t, len(out), 0, k)
	}
}

func TestResetIdempotence(t *testing.T) {
	for _, k := range allKinds {
		d, err := devices.Create(k, newConfig())
		test.DemandSuccess(t, err)

		before := snapshot(d)
		for i := 0; i < 2; i++ {
			status, out := d.Dispatch(codec.DeviceReset, nil)
			test.ExpectEquality(t, status, codec.DeviceReply, k)
			test.ExpectEquality(t, len(out), 0, k)
		}
		test.ExpectBytes(t, snapshot(d), before, k)
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	block := make([]byte, 128)
	for i := range block {
		block[i] = uint8(i) ^ 0xa5
	}

	// commands applied before the snapshot and the command used to compare
	// the original with the restored device
	type exchange struct {
		cmd  uint8
		data []byte
	}
	mutate := map[devices.Kind][]exchange{
		devices.KindVMU: {
			{codec.BlockWrite, blockWrite(0, 1, block)},
		},
		devices.KindPurupuru: {
			{codec.BlockWrite, words(codec.FuncVibration, 0, 0x00050000)},
			{codec.SetCondition, words(codec.FuncVibration, 0x000a0300)},
		},
		devices.KindMicrophone: {
			{codec.MICControl, micControl(0x03, 0x1f)},
		},
		devices.KindRFID: {
			{0xd4, nil},
			{0xb1, []byte{0x01, 0x02, 0, 0, 9, 8, 7, 6, 5, 4, 3, 2}},
			{0xd1, []byte{0x30, 0, 0, 0}},
			{0xd9, nil},
		},
	}
	compare := map[devices.Kind]exchange{
		devices.KindVMU:      {codec.BlockRead, blockRead(0)},
		devices.KindPurupuru: {codec.GetCondition, words(codec.FuncVibration)},
		devices.KindRFID:     {0xa1, nil},
		devices.KindMouse:    {codec.GetCondition, words(codec.FuncInput)},
		devices.KindKeyboard: {codec.GetCondition, words(codec.FuncInput)},
		devices.KindLightGun: {codec.DeviceRequest, nil},
	}

	for _, k := range allKinds {
		cfg := newConfig()
		cfg.Storage = devices.NewMemoryStorage()

		d, err := devices.Create(k, cfg)
		test.DemandSuccess(t, err)

		if k == devices.KindRFID {
			d.(*devices.RFID).InsertCard()
		}
		for _, x := range mutate[k] {
			d.Dispatch(x.cmd, x.data)
		}

		data := snapshot(d)

		// the restored device shares storage with the original
		e, err := devices.Create(k, cfg)
		test.DemandSuccess(t, err)
		restore(t, e, data)
		test.ExpectBytes(t, snapshot(e), data, k)

		if x, ok := compare[k]; ok {
			ds, dout := d.Dispatch(x.cmd, x.data)
			es, eout := e.Dispatch(x.cmd, x.data)
			test.ExpectEquality(t, es, ds, k)
			test.ExpectBytes(t, eout, dout, k)
		}
	}

	// card state survives the round trip
	cfg := newConfig()
	cfg.Storage = devices.NewMemoryStorage()
	c := devices.NewRFID(cfg)
	c.InsertCard()
	for _, x := range mutate[devices.KindRFID] {
		c.Dispatch(x.cmd, x.data)
	}
	r := devices.NewRFID(cfg)
	restore(t, r, snapshot(c))
	test.ExpectSuccess(t, r.Inserted())
	test.ExpectSuccess(t, r.Locked())
	test.ExpectBytes(t, r.CardData()[4:12], []byte{9, 8, 7, 6, 5, 4, 3, 2})
	test.ExpectBytes(t, r.CardData(), c.CardData())

	// full card contents are readable after D4
	_, out := r.Dispatch(0xa1, nil)
	test.ExpectEquality(t, len(out), 4+devices.CardSize)

	// the storage write of the original reaches the restored vmu
	cfg = newConfig()
	cfg.Port = 0
	cfg.Storage = devices.NewMemoryStorage()
	v := devices.NewVMU(cfg)
	v.Dispatch(codec.BlockWrite, blockWrite(3, 0, block))
	w := devices.NewVMU(cfg)
	restore(t, w, snapshot(v))
	_, out = w.Dispatch(codec.BlockRead, blockRead(3))
	test.DemandEquality(t, len(out), 8+devices.VMUBlockSize)
	test.ExpectBytes(t, out[8:8+128], block)
}

func TestOppositeDirections(t *testing.T) {
	inp := &fixedInput{in: devices.NeutralInput()}
	cfg := newConfig()
	cfg.Input = inp

	c := devices.NewController(cfg, devices.KindControllerXL)

	// up and down pressed together are both released
	inp.in.KCode = devices.ReleasedKCode &^ (devices.DPadUp | devices.DPadDown)
	b := c.Buttons(inp.in)
	test.ExpectEquality(t, uint32(b)&(devices.DPadUp|devices.DPadDown), devices.DPadUp|devices.DPadDown)

	// left alone is unchanged
	inp.in.KCode = devices.ReleasedKCode &^ devices.DPadLeft
	b = c.Buttons(inp.in)
	test.ExpectEquality(t, uint32(b)&devices.DPadLeft, uint32(0))

	// second dpad
	inp.in.KCode = devices.ReleasedKCode &^ (devices.DPad2Left | devices.DPad2Right)
	b = c.Buttons(inp.in)
	test.ExpectEquality(t, uint32(b)&(devices.DPad2Left|devices.DPad2Right), devices.DPad2Left|devices.DPad2Right)

	// the standard controller masks the second dpad entirely
	s := devices.NewController(cfg, devices.KindController)
	inp.in.KCode = devices.ReleasedKCode &^ (devices.DPadLeft | devices.DPadRight | devices.ButtonA)
	b = s.Buttons(inp.in)
	test.ExpectEquality(t, uint32(b)&(devices.DPadLeft|devices.DPadRight), devices.DPadLeft|devices.DPadRight)
	test.ExpectEquality(t, uint32(b)&devices.ButtonA, uint32(0))
}

func TestControllerCondition(t *testing.T) {
	inp := &fixedInput{in: devices.NeutralInput()}
	inp.in.Trigger[devices.TriggerR] = 0x40
	inp.in.Trigger[devices.TriggerL] = 0xff
	inp.in.Joy[devices.AxisX1] = 0xff
	inp.in.Joy[devices.AxisY1] = 0xff

	cfg := newConfig()
	cfg.Input = inp
	c := devices.NewController(cfg, devices.KindController)

	status, out := c.Dispatch(codec.GetCondition, words(codec.FuncInput))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.DemandEquality(t, len(out), 12)
	test.ExpectEquality(t, le32(out, 0), codec.FuncInput)
	test.ExpectEquality(t, out[6], uint8(0x40))
	test.ExpectEquality(t, out[7], uint8(0xff))

	// diagonal is limited to a magnitude of 128
	test.ExpectApproximate(t, int(out[8]), 0x80+91, 0.02)
	test.ExpectApproximate(t, int(out[9]), 0x80+91, 0.02)

	// unused axes
	test.ExpectEquality(t, out[10], uint8(0x80))
	test.ExpectEquality(t, out[11], uint8(0x80))
}

func blockWrite(block int, phase int, data []byte) []byte {
	b := words(codec.FuncStorage, codec.Swap32(uint32(block)|uint32(phase)<<16))
	return append(b, data...)
}

func blockRead(block int) []byte {
	return words(codec.FuncStorage, codec.Swap32(uint32(block)))
}

func TestVMUBlockWriteRead(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	store := devices.NewMemoryStorage()
	cfg.Storage = store

	v := devices.NewVMU(cfg)

	// a blank VMU is formatted and saved
	test.ExpectEquality(t, len(store.Data), devices.VMUSize)
	test.ExpectSuccess(t, devices.Formatted(v.Flash()))

	data := make([]byte, 128)
	for i := range data {
		data[i] = uint8(i) ^ 0x5a
	}

	status, out := v.Dispatch(codec.BlockWrite, blockWrite(0, 0, data))
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.ExpectEquality(t, len(out), 0)

	status, out = v.Dispatch(codec.BlockRead, blockRead(0))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.DemandEquality(t, len(out), 8+devices.VMUBlockSize)
	test.ExpectEquality(t, le32(out, 0), codec.FuncStorage)
	test.ExpectBytes(t, out[8:8+128], data)

	// the write reached storage
	test.ExpectBytes(t, store.Data[:128], data)

	// phase 3 is the last quarter of the block
	status, _ = v.Dispatch(codec.BlockWrite, blockWrite(1, 3, data))
	test.ExpectEquality(t, status, codec.DeviceReply)
	_, out = v.Dispatch(codec.BlockRead, blockRead(1))
	test.ExpectBytes(t, out[8+384:], data)
}

func TestVMUWriteFailure(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	store := devices.NewMemoryStorage()
	cfg.Storage = store

	v := devices.NewVMU(cfg)
	before := v.Flash()

	store.Fail = errors.New("disk full")
	status, _ := v.Dispatch(codec.BlockWrite, blockWrite(10, 0, bytes.Repeat([]byte{0xaa}, 128)))
	test.ExpectEquality(t, status, codec.FileError)
	test.ExpectBytes(t, v.Flash(), before)

	// overflow of the image
	store.Fail = nil
	status, _ = v.Dispatch(codec.BlockWrite, blockWrite(255, 3, bytes.Repeat([]byte{0xaa}, 256)))
	test.ExpectEquality(t, status, codec.FileError)
	test.ExpectBytes(t, v.Flash(), before)
}

func TestVMUMediaInfo(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	v := devices.NewVMU(cfg)

	status, out := v.Dispatch(codec.GetMediaInfo, words(codec.FuncStorage))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.DemandEquality(t, len(out), 4+24)
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[4:]), uint16(0xff))

	mi, ok := devices.ReadMediaInfo(v.Flash())
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, mi.FileInfoBlock, uint16(0xfd))
	test.ExpectEquality(t, mi.SaveAreaBlocks, uint16(0x1f))

	status, out = v.Dispatch(codec.GetMediaInfo, words(codec.FuncLCD, 0))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.ExpectBytes(t, out[4:], []byte{47, 31, 0x10, 2})

	status, _ = v.Dispatch(codec.GetMediaInfo, words(codec.FuncLCD, 1))
	test.ExpectEquality(t, status, codec.UnknownCmd)

	status, _ = v.Dispatch(codec.GetMediaInfo, words(codec.FuncMouse))
	test.ExpectEquality(t, status, codec.UnknownFunction)
}

func TestVMULCD(t *testing.T) {
	disp := &display{}
	cfg := newConfig()
	cfg.Port = 0
	cfg.Display = disp
	v := devices.NewVMU(cfg)

	lcd := make([]byte, 192)

	// last byte of the first row is the leftmost eight pixels
	lcd[5] = 0x01
	status, _ := v.Dispatch(codec.BlockWrite, append(words(codec.FuncLCD, 0), lcd...))
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.DemandEquality(t, len(disp.img), devices.LCDWidth*devices.LCDHeight)
	test.ExpectEquality(t, disp.img[0], uint8(0x00))
	test.ExpectEquality(t, disp.img[1], uint8(0xff))
	test.ExpectEquality(t, disp.img[devices.LCDWidth], uint8(0xff))

	// deserialisation pushes a non-blank LCD to the display
	data := snapshot(v)
	disp.img = nil
	restore(t, v, data)
	test.ExpectEquality(t, disp.img[0], uint8(0x00))
}

func TestVMUClock(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	cfg.Now = func() time.Time {
		return time.Date(2001, time.March, 4, 5, 6, 7, 0, time.UTC)
	}
	v := devices.NewVMU(cfg)

	status, out := v.Dispatch(codec.BlockRead, words(codec.FuncClock, 0))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.ExpectBytes(t, out[4:], []byte{2001 % 256, 2001 / 256, 3, 4, 5, 6, 7, 0})

	status, _ = v.Dispatch(codec.BlockRead, words(codec.FuncClock, 1))
	test.ExpectEquality(t, status, codec.TransmitAgain)

	status, _ = v.Dispatch(codec.BlockWrite, words(codec.FuncClock, 0, 0, 0))
	test.ExpectEquality(t, status, codec.DeviceReply)

	status, _ = v.Dispatch(codec.BlockWrite, words(codec.FuncClock, 0, 0))
	test.ExpectEquality(t, status, codec.TransmitAgain)
}

func TestVMUFullSaveAfterRestore(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	store := devices.NewMemoryStorage()
	cfg.Storage = store
	v := devices.NewVMU(cfg)

	data := snapshot(v)

	// storage diverges from the image
	clear(store.Data)
	restore(t, v, data)

	v.Dispatch(codec.BlockWrite, blockWrite(0, 0, make([]byte, 128)))
	test.ExpectBytes(t, store.Data, v.Flash())
}

func TestVMUDigest(t *testing.T) {
	cfg := newConfig()
	cfg.Port = 0
	a := devices.NewVMU(cfg)
	b := devices.NewVMU(cfg)
	test.ExpectEquality(t, a.Digest(), b.Digest())

	a.Dispatch(codec.BlockWrite, blockWrite(0, 0, []byte{1, 2, 3, 4}))
	test.ExpectInequality(t, a.Digest(), b.Digest())
}

func TestPurupuru(t *testing.T) {
	r := &rumble{}
	cfg := newConfig()
	cfg.Port = 1
	cfg.Rumbler = r
	p := devices.NewPurupuru(cfg)

	// auto stop time
	status, _ := p.Dispatch(codec.BlockWrite, words(codec.FuncVibration, 0, 0x00030000))
	test.ExpectEquality(t, status, codec.DeviceReply)
	_, out := p.Dispatch(codec.BlockRead, words(codec.FuncVibration))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[10:]), uint16(3))

	// power 7, frequency 10, no inclination
	vibset := uint32(0x000a0700)
	status, _ = p.Dispatch(codec.SetCondition, words(codec.FuncVibration, vibset))
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.ExpectEquality(t, r.calls, 1)
	test.ExpectApproximate(t, r.power, 1.0, 0.001)
	test.ExpectEquality(t, r.inclination, float32(0))
	test.ExpectEquality(t, r.duration, uint32(100))

	_, out = p.Dispatch(codec.GetCondition, words(codec.FuncVibration))
	test.ExpectEquality(t, le32(out, 4), vibset)

	// serialisation preserves vibset and the auto stop time
	data := snapshot(p)
	q := devices.NewPurupuru(newConfig())
	restore(t, q, data)
	test.ExpectBytes(t, snapshot(q), data)
}

func TestDecodeVibration(t *testing.T) {
	// continuous with no frequency uses the auto stop time
	v := devices.DecodeVibration(0x00000301, 5000)
	test.ExpectApproximate(t, v.Power, 3.0/7.0, 0.001)
	test.ExpectEquality(t, v.DurationMS, uint32(5000))

	// convergent inclination
	v = devices.DecodeVibration(0x020a8701, 5000)
	test.ExpectSuccess(t, v.Inclination < 0)
	test.ExpectEquality(t, v.DurationMS, uint32(1000*2*7/10))

	// duration is clamped to the auto stop time
	v = devices.DecodeVibration(0xff010f00, 250)
	test.ExpectEquality(t, v.DurationMS, uint32(250))
}

func TestMouse(t *testing.T) {
	inp := &fixedInput{in: devices.NeutralInput()}
	inp.in.MouseX = 10
	inp.in.MouseY = -2000
	inp.in.Wheel = 2000
	cfg := newConfig()
	cfg.Input = inp
	m := devices.NewMouse(cfg)

	status, out := m.Dispatch(codec.GetCondition, words(codec.FuncMouse))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.DemandEquality(t, len(out), 4+4+16)
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[8:]), uint16(0x20a))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[10:]), uint16(0))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[12:]), uint16(0x3ff))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[14:]), uint16(0x200))

	_ = cfg.Env.Prefs.MouseInvertY.Set(true)
	_, out = m.Dispatch(codec.GetCondition, words(codec.FuncMouse))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[10:]), uint16(0x3ff))
}

func TestKeyboard(t *testing.T) {
	inp := &fixedInput{in: devices.NeutralInput()}
	inp.in.Shift = 0x02
	inp.in.Keys = [6]uint8{0x04, 0x05}
	cfg := newConfig()
	cfg.Input = inp
	k := devices.NewKeyboard(cfg)

	_, out := k.Dispatch(codec.DeviceRequest, nil)
	test.ExpectEquality(t, le32(out, 0), codec.FuncKeyboard)
	test.ExpectBytes(t, out[4:8], []byte{2, 5, 0, 0x80})

	status, out := k.Dispatch(codec.GetCondition, words(codec.FuncKeyboard))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.ExpectBytes(t, out[4:], []byte{0x02, 0, 0x04, 0x05, 0, 0, 0, 0})
}

type pointer struct {
	x, y int
}

func (p *pointer) LightgunPosition(x int, y int) {
	p.x = x
	p.y = y
}

func TestLightGun(t *testing.T) {
	inp := &fixedInput{in: devices.NeutralInput()}
	ptr := &pointer{}
	cfg := newConfig()
	cfg.Input = inp
	cfg.Pointer = ptr
	g := devices.NewLightGun(cfg)

	_, out := g.Dispatch(codec.DeviceRequest, nil)
	test.ExpectEquality(t, le32(out, 0), codec.FuncLightGun|codec.FuncInput)
	test.ExpectEquality(t, out[16], uint8(0x01))

	inp.in.AbsX = 100
	inp.in.AbsY = 200
	test.ExpectSuccess(t, g.Occupy())
	test.ExpectEquality(t, ptr.x, 100)
	test.ExpectEquality(t, ptr.y, 200)

	// reload moves the gun off screen and pulls the trigger
	inp.in.KCode = devices.ReleasedKCode &^ devices.ButtonReload
	test.ExpectSuccess(t, g.Occupy())
	test.ExpectEquality(t, ptr.x, -1)
	test.ExpectEquality(t, ptr.y, -1)

	_, out = g.Dispatch(codec.GetCondition, words(codec.FuncInput))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[4:])&uint16(devices.ButtonA), uint16(0))
	test.ExpectEquality(t, le32(out, 8), uint32(0x80808080))
}

type sound struct {
	started  int
	stopped  int
	eightKHz bool
}

func (s *sound) Start(eightKHz bool) error {
	s.started++
	s.eightKHz = eightKHz
	return nil
}

func (s *sound) Stop() {
	s.stopped++
}

func (s *sound) Record(samples []int16) int {
	for i := 0; i < 3; i++ {
		samples[i] = int16(i + 1)
	}
	return 3
}

func micControl(sub uint8, dt1 uint8) []byte {
	return append(words(codec.FuncMic), sub, dt1, 0, 0)
}

func TestMicrophone(t *testing.T) {
	snd := &sound{}
	cfg := newConfig()
	cfg.Port = 0
	cfg.Sound = snd
	m := devices.NewMicrophone(cfg)

	// start sampling at 8kHz
	status, _ := m.Dispatch(codec.MICControl, micControl(0x02, 0x84))
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.ExpectSuccess(t, m.Sampling())
	test.ExpectEquality(t, snd.started, 1)
	test.ExpectSuccess(t, snd.eightKHz)

	status, out := m.Dispatch(codec.MICControl, micControl(0x01, 0))
	test.ExpectEquality(t, status, codec.DataTransfer)
	test.ExpectEquality(t, out[4], uint8(0x05))
	test.ExpectEquality(t, out[5], uint8(0x0f))
	test.ExpectEquality(t, out[7], uint8(3))
	test.DemandEquality(t, len(out), 8+8)
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[8:]), uint16(1))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[12:]), uint16(3))

	// serialisation of a sampling microphone restarts the recording
	data := snapshot(m)
	restore(t, m, data)
	test.ExpectEquality(t, snd.stopped, 1)
	test.ExpectEquality(t, snd.started, 2)

	// gain
	status, _ = m.Dispatch(codec.MICControl, micControl(0x03, 0x1f))
	test.ExpectEquality(t, status, codec.DeviceReply)

	// reset stops sampling and restores defaults
	status, _ = m.Dispatch(codec.DeviceReset, nil)
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.ExpectFailure(t, m.Sampling())
	test.ExpectEquality(t, snd.stopped, 2)
	_, out = m.Dispatch(codec.MICControl, micControl(0x01, 0))
	test.ExpectEquality(t, out[5], uint8(0x0f))

	status, _ = m.Dispatch(codec.MICControl, micControl(0x99, 0))
	test.ExpectEquality(t, status, codec.UnknownFunction)

	status, _ = m.Dispatch(codec.MICControl, words(codec.FuncStorage, 0))
	test.ExpectEquality(t, status, codec.UnknownFunction)
}

func TestRFID(t *testing.T) {
	cfg := newConfig()
	store := devices.NewMemoryStorage()
	cfg.Storage = store
	c := devices.NewRFID(cfg)

	// no card
	status, out := c.Dispatch(0x90, nil)
	test.ExpectEquality(t, status, uint8(0xfe))
	test.ExpectEquality(t, le32(out, 0), uint32(1))

	// a new card is generated
	c.InsertCard()
	test.ExpectSuccess(t, c.Inserted())
	card := c.CardData()
	test.ExpectEquality(t, card[0], uint8(0x10))
	test.ExpectEquality(t, card[127], uint8(0xff))

	// serial numbers only until D4
	_, out = c.Dispatch(0xa1, nil)
	test.ExpectEquality(t, le32(out, 0), uint32(0))
	test.ExpectEquality(t, len(out), 4+8)
	c.Dispatch(0xd4, nil)
	_, out = c.Dispatch(0xa1, nil)
	test.ExpectEquality(t, len(out), 4+devices.CardSize)

	// write two words at offset 8
	status, _ = c.Dispatch(0xb1, []byte{0x02, 0x02, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8})
	test.ExpectEquality(t, status, uint8(0xfe))
	test.ExpectBytes(t, c.CardData()[8:16], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	test.ExpectBytes(t, store.Data[8:16], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	// decrement the second counter
	before := c.CardData()[18]
	c.Dispatch(0xd1, []byte{0x0c, 0, 0, 0})
	test.ExpectEquality(t, c.CardData()[18], before-1)

	// locked cards can not be ejected
	_, out = c.Dispatch(0xd9, nil)
	test.ExpectEquality(t, le32(out, 0), uint32(0x40))
	c.InsertCard()
	test.ExpectSuccess(t, c.Inserted())

	// unlock ejects
	c.Dispatch(0xda, nil)
	test.ExpectFailure(t, c.Inserted())
	test.ExpectFailure(t, c.Locked())

	// reinserted card is loaded from storage
	c.InsertCard()
	test.ExpectBytes(t, c.CardData()[8:16], []byte{1, 2, 3, 4, 5, 6, 7, 8})
}

func TestRFIDRawDMA(t *testing.T) {
	c := devices.NewRFID(newConfig())
	f := codec.Frame{Command: 0x90, Recipient: 0x20, Sender: 0x00}
	b := c.RawDMA(f.Bytes(), 0x01)

	// recipient and sender are not exchanged. the attached mask is added
	test.ExpectBytes(t, b[:4], []byte{0xfe, 0x21, 0x00, 0x01})
}

type link struct {
	sent  []codec.Frame
	reply codec.Frame
	err   error
}

func (l *link) Send(f codec.Frame) error {
	l.sent = append(l.sent, f)
	return l.err
}

func (l *link) Exchange(f codec.Frame) (codec.Frame, error) {
	l.sent = append(l.sent, f)
	return l.reply, l.err
}

func TestPassthrough(t *testing.T) {
	lnk := &link{
		reply: codec.Frame{Command: codec.DeviceStatus, Recipient: 0x00, Sender: 0x20, Payload: []uint32{codec.FuncInput}},
	}
	cfg := newConfig()
	cfg.Link = lnk
	p := devices.NewPassthrough(cfg)

	req := codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20, Sender: 0x00}
	b := p.RawDMA(req.Bytes(), 0)
	test.ExpectBytes(t, b, lnk.reply.Bytes())
	test.DemandEquality(t, len(lnk.sent), 1)
	test.ExpectEquality(t, lnk.sent[0].Command, codec.DeviceRequest)

	// link failure is the same as no device
	lnk.err = errors.New("no link")
	b = p.RawDMA(req.Bytes(), 0)
	test.ExpectBytes(t, b, []byte{0xff, 0xff, 0xff, 0xff})
}

func TestMirrorVMU(t *testing.T) {
	lnk := &link{}
	cfg := newConfig()
	cfg.Port = 0
	cfg.Link = lnk
	store := devices.NewMemoryStorage()
	cfg.Storage = store

	m := devices.NewMirrorVMU(cfg, true)

	// the real VMU is the only copy so nothing is written to storage
	test.ExpectEquality(t, len(store.Data), 0)

	status, _ := m.Dispatch(codec.BlockWrite, blockWrite(2, 0, []byte{9, 9, 9, 9}))
	test.ExpectEquality(t, status, codec.DeviceReply)
	test.DemandEquality(t, len(lnk.sent), 1)
	test.ExpectEquality(t, lnk.sent[0].Command, codec.BlockWrite)
	test.ExpectEquality(t, lnk.sent[0].Recipient, uint8(0x01))
	test.ExpectBytes(t, m.Flash()[2*devices.VMUBlockSize:2*devices.VMUBlockSize+4], []byte{9, 9, 9, 9})

	// clock reads are not forwarded
	m.Dispatch(codec.BlockRead, words(codec.FuncClock, 0))
	test.ExpectEquality(t, len(lnk.sent), 1)

	// alarm is forwarded
	m.Dispatch(codec.SetCondition, words(codec.FuncClock, 0))
	test.ExpectEquality(t, len(lnk.sent), 2)

	// pulling reads every block
	blk := make([]uint32, 2+devices.VMUBlockSize/4)
	blk[2] = 0x04030201
	lnk.reply = codec.Frame{Command: codec.DataTransfer, Payload: blk}
	test.ExpectEquality(t, m.Pull(), devices.VMUNumBlocks)
	test.ExpectBytes(t, m.Flash()[:4], []byte{1, 2, 3, 4})
}

func TestMirrorPurupuru(t *testing.T) {
	lnk := &link{}
	cfg := newConfig()
	cfg.Port = 1
	cfg.Link = lnk
	m := devices.NewMirrorPurupuru(cfg)

	m.Dispatch(codec.GetCondition, words(codec.FuncVibration))
	test.ExpectEquality(t, len(lnk.sent), 0)
	m.Dispatch(codec.SetCondition, words(codec.FuncVibration, 0x000a0700))
	test.ExpectEquality(t, len(lnk.sent), 1)
	test.ExpectEquality(t, lnk.sent[0].Recipient, uint8(0x02))
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds {
		p, ok := devices.ParseKind(k.String())
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, p, k)
	}
	k, ok := devices.ParseKind("")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, devices.KindNone)

	_, ok = devices.ParseKind("gamepad")
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, devices.KindVMU.IsExpansion())
	test.ExpectFailure(t, devices.KindController.IsExpansion())
}
