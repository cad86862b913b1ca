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

import "github.com/jetsetilly/maplebus/hardware/maple/codec"

// Rumbler is the force feedback output of the vibration pack.
type Rumbler interface {
	// power is in the range 0.0 to 1.0. inclination is the rate of change
	// of power per millisecond and may be zero
	SetVibration(power float32, inclination float32, durationMS uint32)
}

// Beeper is the piezo buzzer of the VMU. Both arguments being zero silences
// the buzzer.
type Beeper interface {
	Beep(alarmWidth uint8, alarmDuty uint8)
}

// LCD dimensions.
const (
	LCDWidth  = 48
	LCDHeight = 32
)

// Display is the VMU screen. The image is LCDWidth*LCDHeight bytes, one byte
// per pixel in row order. A value of 0x00 is a black pixel and 0xff is white.
type Display interface {
	SetImage(img []byte)
}

// SoundSource supplies samples to the microphone.
type SoundSource interface {
	Start(eightKHz bool) error
	Stop()

	// Record fills the buffer with signed 16 bit samples and returns the
	// number of samples written
	Record(samples []int16) int
}

// Pointer receives the screen position of the light gun.
type Pointer interface {
	LightgunPosition(x int, y int)
}

// Link is a connection to real Maple hardware.
type Link interface {
	// Send a frame without waiting for a reply
	Send(f codec.Frame) error

	// Exchange sends a frame and waits for the reply
	Exchange(f codec.Frame) (codec.Frame, error)
}

type nullCollaborator struct{}

func (nullCollaborator) SetVibration(_ float32, _ float32, _ uint32) {}
func (nullCollaborator) Beep(_ uint8, _ uint8)                       {}
func (nullCollaborator) SetImage(_ []byte)                           {}
func (nullCollaborator) Start(_ bool) error                          { return nil }
func (nullCollaborator) Stop()                                       {}
func (nullCollaborator) Record(_ []int16) int                        { return 0 }
func (nullCollaborator) LightgunPosition(_ int, _ int)               {}
