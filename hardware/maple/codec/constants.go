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

package codec

// Command codes sent to a device.
const (
	DeviceRequest  uint8 = 0x01
	AllStatusReq   uint8 = 0x02
	DeviceReset    uint8 = 0x03
	DeviceKill     uint8 = 0x04
	GetCondition   uint8 = 0x09
	GetMediaInfo   uint8 = 0x0a
	BlockRead      uint8 = 0x0b
	BlockWrite     uint8 = 0x0c
	GetLastError   uint8 = 0x0d
	SetCondition   uint8 = 0x0e
	MICControl     uint8 = 0x0f
	ARGunControl   uint8 = 0x10
	JVSUploadFirm  uint8 = 0x80
	JVSGetId       uint8 = 0x82
	JVSSelfTest    uint8 = 0x84
	JVSCommand     uint8 = 0x86
	RefreshRequest uint8 = 0xff
)

// Status codes returned by a device.
const (
	JVSNone          uint8 = 0x00
	DeviceStatus     uint8 = 0x05
	DeviceStatusAll  uint8 = 0x06
	DeviceReply      uint8 = 0x07
	DataTransfer     uint8 = 0x08
	JVSGetIdReply    uint8 = 0x83
	JVSSelfTestReply uint8 = 0x85
	JVSReply         uint8 = 0x87
	ARGunError       uint8 = 0xf9
	LCDError         uint8 = 0xfa
	FileError        uint8 = 0xfb
	TransmitAgain    uint8 = 0xfc
	UnknownCmd       uint8 = 0xfd
	UnknownFunction  uint8 = 0xfe
	NoResponse       uint8 = 0xff
)

// StatusName returns a short name for the status code.
func StatusName(status uint8) string {
	switch status {
	case JVSNone:
		return "none"
	case DeviceStatus:
		return "device status"
	case DeviceStatusAll:
		return "device status all"
	case DeviceReply:
		return "device reply"
	case DataTransfer:
		return "data transfer"
	case JVSGetIdReply:
		return "jvs id"
	case JVSSelfTestReply:
		return "jvs self test"
	case JVSReply:
		return "jvs reply"
	case ARGunError:
		return "ar gun error"
	case LCDError:
		return "lcd error"
	case FileError:
		return "file error"
	case TransmitAgain:
		return "transmit again"
	case UnknownCmd:
		return "unknown command"
	case UnknownFunction:
		return "unknown function"
	case NoResponse:
		return "no response"
	}
	return "unknown"
}

// Function codes. A device reports the functions it supports in the first
// word of its identification block. Commands that are specific to a function
// begin with the function code.
const (
	FuncInput      uint32 = 0x01000000
	FuncStorage    uint32 = 0x02000000
	FuncLCD        uint32 = 0x04000000
	FuncClock      uint32 = 0x08000000
	FuncMic        uint32 = 0x10000000
	FuncARGun      uint32 = 0x20000000
	FuncKeyboard   uint32 = 0x40000000
	FuncLightGun   uint32 = 0x80000000
	FuncVibration  uint32 = 0x00010000
	FuncMouse      uint32 = 0x00020000
	FuncStorageExt uint32 = 0x00040000
	FuncCamera     uint32 = 0x00080000
	FuncRFID       uint32 = 0x00100000
)

// NoDevice is the single word returned in place of a reply when there is no
// device at the address.
const NoDevice uint32 = 0xffffffff

// MaxReplyBytes is the largest payload a device can return. The word count
// in the frame header is a single byte.
const MaxReplyBytes = 255 * 4
