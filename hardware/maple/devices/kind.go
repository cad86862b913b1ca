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

package devices

import "fmt"

// Kind identifies the variant of a device. The numeric value is recorded in
// save states and must not change.
type Kind uint8

// List of valid Kind values.
const (
	KindController Kind = iota
	KindTwinStick
	KindAsciiStick
	KindControllerXL
	KindVMU
	KindPurupuru
	KindMicrophone
	KindKeyboard
	KindMouse
	KindLightGun
	KindRFID
	KindJVS
	KindPassthrough
	KindMirrorVMU
	KindMirrorPurupuru

	KindNone Kind = 0xff
)

var kindNames = map[Kind]string{
	KindController:     "controller",
	KindTwinStick:      "twinstick",
	KindAsciiStick:     "asciistick",
	KindControllerXL:   "controllerxl",
	KindVMU:            "vmu",
	KindPurupuru:       "purupuru",
	KindMicrophone:     "microphone",
	KindKeyboard:       "keyboard",
	KindMouse:          "mouse",
	KindLightGun:       "lightgun",
	KindRFID:           "rfid",
	KindJVS:            "jvs",
	KindPassthrough:    "passthrough",
	KindMirrorVMU:      "mirrorvmu",
	KindMirrorPurupuru: "mirrorpurupuru",
	KindNone:           "none",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind %d", k)
}

// ParseKind returns the Kind with the name used in the preferences file. The
// empty string is the same as "none".
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindNone, true
	}
	for k, n := range kindNames {
		if n == s {
			return k, true
		}
	}
	return KindNone, false
}

// IsExpansion returns true if the kind can only be attached to a sub-port.
func (k Kind) IsExpansion() bool {
	switch k {
	case KindVMU, KindPurupuru, KindMicrophone, KindMirrorVMU, KindMirrorPurupuru:
		return true
	}
	return false
}
