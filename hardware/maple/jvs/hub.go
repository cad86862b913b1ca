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

package jvs

import (
	"fmt"

	"github.com/OneOfOne/xxhash"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// AllNodes is the node ID that addresses every board in the chain.
const AllNodes = 0xff

// hub geometry
const (
	EEPROMSize   = 128
	firmwareSize = 0x10000
	numChannels  = 32
	receiveSize  = 258
	repeatSize   = 256

	// size of a single JVS packet
	packetSize = 256
)

// known firmware builds
const (
	firmwareCT     = 0xa7c50459
	firmwareHOTD2  = 0xae841e36
	firmwareHOTD2P = 0xa6784e26
)

// the identification string of the hub. split over two reply frames
var hubID = func() [56]byte {
	var id [56]byte
	copy(id[:], "315-6149    COPYRIGHT SEGA ENTERPRISES CO,LTD.  1998")
	return id
}()

// Pipe is the RS422 serial port of the hub.
type Pipe interface {
	Available() int
	Read() uint8
	Write(uint8)
}

// Hub is the Maple to JVS bridge of the arcade board.
type Hub struct {
	cfg devices.Config
	tag string

	boards []*Board

	// quirk modes enabled by the uploaded firmware
	crazyMode bool
	hotd2p    bool

	// repeat commands for each node. the first byte is the length
	repeat [numChannels][repeatSize]byte

	recv    [numChannels][receiveSize]byte
	recvLen [numChannels]uint32

	eeprom [EEPROMSize]byte

	// firmware is allocated on the first upload chunk and released once the
	// upload is complete
	firmware []byte

	// DIP switch bank read by subcommand 0x31. bit 0 of the sixth switch
	// selects VGA
	dips [7]uint8

	pipe Pipe
}

// NewHub is the preferred method of initialisation for the Hub type. The
// board chain is selected by the maple.jvs.board preference.
func NewHub(cfg devices.Config) *Hub {
	cfg.Normalise()

	h := &Hub{
		cfg:  cfg,
		tag:  "jvs",
		dips: [7]uint8{0xff, 0xff, 0xff, 0x00, 0xff, 0xf9, 0xff},
	}

	chain := cfg.Env.Prefs.JVSBoard.Get().(string)
	h.boards = NewChain(cfg.Env, cfg.Input, chain)
	if cfg.Env.Prefs.JVSLightgunAnalog.Get().(bool) {
		h.boards[0].LightgunAsAnalog = true
	}

	h.loadEEPROM()

	return h
}

// NewHubWithBoards creates a hub with the specified chain of boards.
func NewHubWithBoards(cfg devices.Config, boards []*Board) *Hub {
	h := NewHub(cfg)
	h.boards = boards
	return h
}

// Kind implements the devices.Device interface.
func (h *Hub) Kind() devices.Kind {
	return devices.KindJVS
}

// Boards returns the boards in chain order.
func (h *Hub) Boards() []*Board {
	return h.boards
}

// SetPipe connects the RS422 port. A nil pipe disconnects it.
func (h *Hub) SetPipe(p Pipe) {
	h.pipe = p
}

// SetDrivingSimSlave sets the DIP switches for a linked driving cabinet. Zero
// is a standalone cabinet.
func (h *Hub) SetDrivingSimSlave(n int) {
	h.dips[5] = 0xf9
	switch n {
	case 1:
		h.dips[5] |= 0x02
	case 2:
		h.dips[5] |= 0x04
	}
}

// EEPROM returns a copy of the EEPROM.
func (h *Hub) EEPROM() []byte {
	b := make([]byte, EEPROMSize)
	copy(b, h.eeprom[:])
	return b
}

// QuirkModes returns the state of the quirk modes enabled by the firmware.
func (h *Hub) QuirkModes() (crazy bool, hotd2p bool) {
	return h.crazyMode, h.hotd2p
}

func (h *Hub) loadEEPROM() {
	data, err := h.cfg.Storage.ReadAll()
	if err != nil {
		logger.Logf(h.cfg.Env, h.tag, "could not load eeprom: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}
	if len(data) != EEPROMSize {
		logger.Logf(h.cfg.Env, h.tag, "eeprom is of incorrect length (%d)", len(data))
	}
	copy(h.eeprom[:], data)
}

func (h *Hub) saveEEPROM() {
	err := h.cfg.Storage.WriteRange(0, h.eeprom[:])
	if err != nil {
		logger.Logf(h.cfg.Env, h.tag, "could not save eeprom: %v", err)
	}
}

// the level of the sense line seen by the hub. the last node in the chain
// reports a different value
func (h *Hub) senseLine(node uint8) uint8 {
	if int(node) == len(h.boards) {
		return 0x8e
	}
	return 0x8f
}

// Dispatch implements the devices.Device interface. Only the first reply
// frame is returned. Use RawDMA() to receive every frame.
func (h *Hub) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	f := codec.Frame{
		Command:   cmd,
		Recipient: codec.Recipient(h.cfg.Bus, codec.MainPort),
		Sender:    uint8(h.cfg.Bus << 6),
		Payload:   codec.BytesToWords(in),
	}

	out := h.RawDMA(f.Bytes(), 0)
	if len(out) < 4 {
		return codec.DeviceReply, nil
	}
	n := min(int(out[3])*4, len(out)-4)
	return out[0], out[4 : 4+n]
}

// RawDMA implements the devices.RawDevice interface. A request can result in
// zero or more reply frames.
func (h *Hub) RawDMA(frame []byte, attached uint8) []byte {
	if len(frame) < 4 {
		logger.Logf(h.cfg.Env, h.tag, "short frame (%d bytes)", len(frame))
		return codec.WordsToBytes([]uint32{codec.NoDevice})
	}

	cmd := frame[0]
	reci := frame[1]
	send := frame[2]
	in := frame[4:]

	if reci&0x20 == 0x20 {
		reci |= attached
	}

	w := &replyWriter{
		w:    codec.NewWriter(codec.MaxReplyBytes),
		send: send,
		reci: reci,
	}

	switch cmd {
	case codec.JVSSelfTest:
		w.reply(codec.JVSSelfTestReply, 1)
		w.w.W32(0)

	// no identification block. the I/O board identifies through JVSGetId
	case codec.DeviceRequest:
		w.reply(codec.DeviceStatus, 0)

	case codec.AllStatusReq:
		w.reply(codec.DeviceStatusAll, 0)

	case codec.DeviceReset, codec.DeviceKill:
		w.reply(codec.DeviceReply, 0)

	case codec.JVSCommand:
		h.command(in, w)

	case codec.JVSUploadFirm:
		h.upload(in, w)

	case codec.JVSGetId:
		w.reply(codec.JVSGetIdReply, 7)
		w.w.WBytes(hubID[:28])
		w.reply(codec.JVSGetIdReply, 5)
		w.w.WBytes(hubID[28:48])

	default:
		logger.Logf(h.cfg.Env, h.tag, "unknown command %02x", cmd)
		w.reply(codec.UnknownCmd, 0)
	}

	if err := w.w.Err(); err != nil {
		logger.Logf(h.cfg.Env, h.tag, "command %02x: %v", cmd, err)
	}

	return w.w.Data()
}

// replyWriter adds reply frames to the output of a single DMA request.
type replyWriter struct {
	w    *codec.Writer
	send uint8
	reci uint8
}

// reply writes the header of a reply frame. the payload follows with
// subsequent writes and must be exactly words*4 bytes long
func (r *replyWriter) reply(status uint8, words uint8) {
	r.w.W8(status)
	r.w.W8(r.send)
	r.w.W8(r.reci)
	r.w.W8(words)
}

func (h *Hub) upload(in []byte, w *replyWriter) {
	at := func(i int) uint8 {
		if i < len(in) {
			return in[i]
		}
		return 0
	}

	if h.firmware == nil {
		h.firmware = make([]byte, firmwareSize)
	}

	// end of upload
	if at(1) == 0xff {
		hash := xxhash.Checksum32(h.firmware)
		logger.Logf(h.cfg.Env, h.tag, "firmware hash %08x", hash)
		h.firmwareLoaded(hash)
		h.firmware = nil
		w.reply(codec.DeviceReply, 0)
		return
	}

	xfer := 0x18
	if at(0) == 0xff {
		xfer = 0x1c
	}
	addr := int(at(2))<<8 | int(at(3))
	if len(in) > 4 {
		chunk := in[4:min(4+xfer, len(in))]
		copy(h.firmware[addr:], chunk)
	}

	var sum uint8
	for i := 0; i < 0x1c; i++ {
		sum += at(i)
	}

	w.reply(codec.JVSUploadFirm, 1)
	w.w.W32(uint32(sum))
	w.reply(codec.DeviceReply, 0)
}

func (h *Hub) firmwareLoaded(hash uint32) {
	h.hotd2p = hash == firmwareHOTD2P
	h.crazyMode = hash == firmwareCT || hash == firmwareHOTD2 || h.hotd2p
	for i := range h.repeat {
		h.repeat[i][0] = 0
	}
}

// the request for a single node. the data is clamped to the length of the
// command frame
type request struct {
	node    uint8
	channel uint8
	data    []byte
}

func (h *Hub) clampRequest(in []byte, offset int, length int) []byte {
	if offset > len(in) {
		offset = len(in)
	}
	end := offset + length
	if end > len(in) {
		logger.Logf(h.cfg.Env, h.tag, "request length %d exceeds data (%d)", length, len(in)-offset)
		end = len(in)
	}
	return in[offset:end]
}

func (h *Hub) command(in []byte, w *replyWriter) {
	if len(in) == 0 {
		w.reply(codec.JVSReply, 0)
		return
	}

	at := func(i int) uint8 {
		if i < len(in) {
			return in[i]
		}
		return 0
	}

	subcode := in[0]

	// the firmware of some games swaps the meaning of these subcommands
	if h.crazyMode {
		switch subcode {
		case 0x13:
			subcode = 0x17
		case 0x17:
			subcode = 0x13
		}
	}

	var req request
	if len(in) >= 3 {
		if subcode != 0x13 && len(in) >= 8 {
			req.node = in[6]
			req.channel = in[5] & 0x1f
			req.data = h.clampRequest(in, 8, int(in[7]))
		} else {
			req.node = in[1]
			req.data = h.clampRequest(in, 3, int(in[2]))
		}
	}

	// the acknowledgement sent after a transmission
	ack := func(code uint8, sense uint8) {
		w.reply(codec.JVSReply, 1)
		w.w.W8(code)
		w.w.W8(req.channel)
		w.w.W8(sense)
		w.w.W8(0)
	}

	switch subcode {
	case 0x13:
		// store repeat request
		if len(req.data) > 0 && req.node > 0 && req.node <= 0x1f {
			logger.Logf(h.cfg.Env, h.tag, "node %d: storing %d repeat bytes", req.node, len(req.data))
			h.repeat[req.node-1][0] = uint8(len(req.data))
			copy(h.repeat[req.node-1][1:], req.data)
		}
		w.reply(codec.JVSReply, 1)
		w.w.W8(in[0] + 1)
		w.w.W8(0)
		w.w.W8(uint8(len(req.data) + 1))
		w.w.W8(0)

	case 0x15:
		// receive
		h.receive(at(1)&0x1f, w)
		if h.hotd2p {
			h.send(req.node, req.channel, true, req.data, false)
			ack(0x18, h.senseLine(req.node))
		}

	case 0x17:
		// transmit without repeat
		h.recvLen[req.channel] = 0
		h.send(req.node, req.channel, false, req.data, false)
		ack(0x18, 0x8e)

	case 0x19:
		// transmit with the repeat request first
		h.recvLen[req.channel] = 0
		h.send(req.node, req.channel, true, req.data, true)
		ack(0x18, h.senseLine(req.node))

	case 0x21:
		// transmit with repeat
		h.recvLen[req.channel] = 0
		h.send(req.node, req.channel, true, req.data, false)
		ack(0x18, h.senseLine(req.node))

	case 0x35, 0x27:
		// 0x35 is receive followed by a multiple transmit
		if subcode == 0x35 {
			h.receive(req.channel, w)
		}

		h.recvLen[req.channel] = 0

		count := int(at(6))
		idx := 7
		var node uint8
		for i := 0; i < count; i++ {
			node = at(idx)
			n := int(at(idx + 1))
			h.send(node, req.channel, true, h.clampRequest(in, idx+2, n), false)
			idx += n + 2
		}
		ack(0x26, h.senseLine(node))

	case 0x33:
		// receive then transmit with repeat
		h.receive(req.channel, w)
		h.send(req.node, req.channel, true, req.data, false)
		ack(0x18, h.senseLine(req.node))

	case 0x0b:
		// EEPROM write
		addr := int(at(1)) % EEPROMSize
		size := min(EEPROMSize-addr, int(at(2)))
		copy(h.eeprom[addr:addr+size], h.clampRequest(in, 4, size))
		h.saveEEPROM()
		w.reply(codec.JVSReply, 1)
		w.w.WBytes(h.eeprom[:4])

	case 0x03:
		// EEPROM read. the data is padded to the full size of the EEPROM
		addr := int(at(1)) % EEPROMSize
		w.reply(codec.JVSReply, EEPROMSize/4)
		w.w.WBytes(h.eeprom[addr:])
		w.w.WBytes(make([]byte, addr))

	case 0x31:
		// DIP switches
		w.reply(codec.JVSReply, 5)
		w.w.W8(0x32)
		w.w.WBytes(h.dips[:])
		w.w.W32(0)
		w.w.W32(0)
		w.w.W32(0)

	case 0x01:
		w.reply(codec.JVSReply, 1)
		w.w.W8(0x02)
		w.w.W8(0)
		w.w.W8(0)
		w.w.W8(0)

	case 0x41:
		// RS422 reset
		if h.pipe != nil {
			for h.pipe.Available() > 0 {
				h.pipe.Read()
			}
		}

	case 0x47:
		// RS422 send
		if h.pipe != nil {
			h.pipe.Write(at(4))
		}

	case 0x4d:
		// RS422 receive. 0xff means no data
		var avail int
		if h.pipe != nil {
			avail = min(h.pipe.Available(), 0xfe)
		}
		w.reply(codec.JVSReply, uint8(1+(avail+3)/4))
		w.w.W8(0)
		w.w.W8(0)
		w.w.W8(0)
		if avail == 0 {
			w.w.W8(0xff)
		} else {
			w.w.W8(uint8(avail))
		}
		for i := 0; i < (avail+3)/4*4; i++ {
			if i < avail {
				w.w.W8(h.pipe.Read())
			} else {
				w.w.W8(0)
			}
		}

	case 0x49, 0x4b, 0x4f:
		// other RS422 subcommands are accepted with no reply

	default:
		logger.Logf(h.cfg.Env, h.tag, "unknown subcommand %02x", subcode)
		w.reply(codec.UnknownCmd, 0)
	}
}

// send a request to a node, or to all nodes, and buffer the replies.
func (h *Hub) send(node uint8, channel uint8, useRepeat bool, data []byte, repeatFirst bool) {
	buf := make([]byte, 0, packetSize*2)
	buf = append(buf, data...)

	if node == AllNodes {
		for i := range h.boards {
			h.sendOne(uint8(i+1), channel, buf)
		}
		return
	}

	if node < 1 || node > numChannels {
		return
	}

	if n := int(h.repeat[node-1][0]); useRepeat && n > 0 {
		rep := h.repeat[node-1][1 : 1+n]
		if repeatFirst {
			buf = append(append(make([]byte, 0, len(rep)+len(buf)), rep...), buf...)
		} else {
			buf = append(buf, rep...)
		}
	}

	if len(buf) > packetSize {
		logger.Logf(h.cfg.Env, h.tag, "node %d: request truncated (%d bytes)", node, len(buf))
		buf = buf[:packetSize]
	}

	h.sendOne(node, channel, buf)
}

func (h *Hub) sendOne(node uint8, channel uint8, data []byte) {
	if node < 1 || int(node) > len(h.boards) {
		return
	}

	out := h.boards[node-1].Handle(data)
	if len(out) == 0 {
		return
	}

	l := h.recvLen[channel]
	if int(l)+len(out)+3 > receiveSize {
		logger.Logf(h.cfg.Env, h.tag, "channel %d: receive buffer full", channel)
		return
	}

	buf := h.recv[channel][l:]
	if h.crazyMode {
		buf[0] = 0x00
		buf[1] = uint8(len(out))
		copy(buf[2:], out)
		h.recvLen[channel] += uint32(len(out)) + 2
	} else {
		buf[0] = node
		buf[1] = 0x00
		buf[2] = uint8(len(out))
		copy(buf[3:], out)
		h.recvLen[channel] += uint32(len(out)) + 3
	}
}

// Pending returns the buffered replies for a channel.
func (h *Hub) Pending(channel int) []byte {
	channel &= numChannels - 1
	b := make([]byte, h.recvLen[channel])
	copy(b, h.recv[channel][:])
	return b
}

// write the buffered replies for a channel and empty the buffer
func (h *Hub) receive(channel uint8, w *replyWriter) {
	l := int(h.recvLen[channel])

	// the fixed part of the payload is 19 bytes
	words := (19 + l + 3) / 4
	if l == 0 {
		w.reply(codec.JVSReply, 5)
		w.w.W8(0x32)
	} else {
		w.reply(codec.JVSReply, uint8(words))
		w.w.W8(0x16)
	}
	w.w.W8(0xff)
	w.w.W8(0xff)
	w.w.W8(0xff)
	w.w.W32(0xffffff00)
	w.w.W32(0)
	w.w.W32(0)

	if l == 0 {
		w.w.W32(0)
		return
	}

	w.w.W8(0)
	w.w.W8(channel)
	if h.crazyMode {
		w.w.W8(0x8e)
	} else {
		// the first byte of the buffer is the node of the first reply
		w.w.W8(h.senseLine(h.recv[channel][0]))
	}
	w.w.WBytes(h.recv[channel][:l])
	w.w.WBytes(make([]byte, words*4-19-l))

	h.recvLen[channel] = 0
}

// Serialize implements the devices.Device interface.
func (h *Hub) Serialize(s *savestate.Serializer) {
	s.Bool(h.crazyMode)
	s.Bool(h.hotd2p)
	for i := range h.repeat {
		s.Bytes(h.repeat[i][:])
	}
	for _, l := range h.recvLen {
		s.U32(l)
	}
	for i := range h.recv {
		s.Bytes(h.recv[i][:])
	}
	s.Bytes(h.eeprom[:])

	s.U32(uint32(len(h.boards)))
	for _, b := range h.boards {
		b.Serialize(s)
	}
}

// Deserialize implements the devices.Device interface. The chain is rebuilt
// with the number of boards in the state. Boards beyond the length of the
// current chain are the default model.
func (h *Hub) Deserialize(d *savestate.Deserializer) {
	h.crazyMode = d.Bool()
	h.hotd2p = d.Bool()
	for i := range h.repeat {
		d.Bytes(h.repeat[i][:])
	}
	for i := range h.recvLen {
		h.recvLen[i] = min(d.U32(), receiveSize)
	}
	for i := range h.recv {
		d.Bytes(h.recv[i][:])
	}
	d.Bytes(h.eeprom[:])

	n := int(d.U32())
	if n > numChannels {
		d.Fail(curated.Errorf(savestate.Corrupt, fmt.Sprintf("%d boards in jvs chain", n)))
		return
	}

	boards := make([]*Board, n)
	for i := range boards {
		m := Model837_13551
		first := 0
		if i < len(h.boards) {
			m = h.boards[i].model
			first = h.boards[i].firstPlayer
		}
		boards[i] = NewBoard(h.cfg.Env, h.cfg.Input, m, uint8(i+1), first)
		boards[i].Deserialize(d)
	}
	h.boards = boards
}

// Destroy implements the devices.Device interface.
func (h *Hub) Destroy() {
}
