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

// Package preferences collates the preference values of the Maple bus
// emulation.
package preferences

import (
	"fmt"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/prefs"
	"github.com/jetsetilly/maplebus/resources"
)

// NumBuses is the number of Maple buses on the console.
const NumBuses = 4

// NumExpansion is the number of expansion slots on a main device.
const NumExpansion = 2

// Platform values.
const (
	PlatformConsole = "console"
	PlatformArcade  = "arcade"
)

// MainKinds is the list of device kinds that can be attached to port 5 of a
// bus. The empty string is the same as "none".
var MainKinds = []string{"controller", "controllerxl", "twinstick", "asciistick", "keyboard", "mouse", "lightgun", "jvs", "rfid", "none"}

// ExpansionKinds is the list of device kinds that can be attached to a sub-port.
var ExpansionKinds = []string{"vmu", "purupuru", "microphone", "none"}

// JVSBoards is the list of I/O board chain models.
var JVSBoards = []string{"837-13551", "837-13938", "dual", "837-13844", "837-13551-4p"}

// Keyboard language values. The list is not exhaustive.
const (
	KeyboardJP = 1
	KeyboardUS = 2
	KeyboardUK = 3
	KeyboardDE = 4
	KeyboardFR = 5
)

// Bus preferences for a single Maple bus.
type Bus struct {
	Main      prefs.String
	Expansion [NumExpansion]prefs.String
}

// Preferences defines and collates all the preference values used by the
// Maple bus.
type Preferences struct {
	dsk *prefs.Disk

	Platform prefs.String
	Bus      [NumBuses]Bus

	// the MMSEL register is reset to zero rather than one. payload words are
	// byte swapped
	SwapMSB prefs.Bool

	// maximum number of descriptors processed in a single DMA pass
	MaxDescriptors prefs.Int

	// check descriptor and destination addresses against the MDAPRO register
	StrictAddressing prefs.Bool

	// directory containing VMU images and other device storage. an empty
	// string means the default location in the resources directory
	VMUPath prefs.String

	JVSBoard            prefs.String
	JVSLightgunAnalog   prefs.Bool
	ArcadeKeyboards     prefs.Bool
	KeyboardLang        prefs.Int
	MouseInvertY        prefs.Bool
	MicrophoneGainBoost prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

// NewTransientPreferences returns a Preferences instance with default values
// that is never saved to disk.
func NewTransientPreferences() *Preferences {
	// creating preferences with an empty path never fails
	p, _ := newPreferences("")
	return p
}

func inList(list []string) func(prefs.Value) error {
	return func(v prefs.Value) error {
		s := v.(string)
		if s == "" {
			return nil
		}
		for _, k := range list {
			if s == k {
				return nil
			}
		}
		return fmt.Errorf("preferences: unrecognised value (%s)", s)
	}
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Platform.SetHookPre(inList([]string{PlatformConsole, PlatformArcade}))
	for b := range p.Bus {
		p.Bus[b].Main.SetHookPre(inList(MainKinds))
		for e := range p.Bus[b].Expansion {
			p.Bus[b].Expansion[e].SetHookPre(inList(ExpansionKinds))
		}
	}
	p.JVSBoard.SetHookPre(inList(JVSBoards))
	p.MaxDescriptors.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("preferences: descriptor limit must be positive")
		}
		return nil
	})

	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("maple.platform", &p.Platform)
	if err != nil {
		return nil, err
	}
	for b := range p.Bus {
		err = p.dsk.Add(fmt.Sprintf("maple.bus.%d.main", b), &p.Bus[b].Main)
		if err != nil {
			return nil, err
		}
		for e := range p.Bus[b].Expansion {
			err = p.dsk.Add(fmt.Sprintf("maple.bus.%d.expansion.%d", b, e), &p.Bus[b].Expansion[e])
			if err != nil {
				return nil, err
			}
		}
	}
	err = p.dsk.Add("maple.swapmsb", &p.SwapMSB)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.maxdescriptors", &p.MaxDescriptors)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.strictaddressing", &p.StrictAddressing)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.vmu.path", &p.VMUPath)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.jvs.board", &p.JVSBoard)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.jvs.lightgunanalog", &p.JVSLightgunAnalog)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.arcade.keyboards", &p.ArcadeKeyboards)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.keyboard.lang", &p.KeyboardLang)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.mouse.invertY", &p.MouseInvertY)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("maple.microphone.boost", &p.MicrophoneGainBoost)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.Platform.Set(PlatformConsole)
	for b := range p.Bus {
		_ = p.Bus[b].Main.Set("none")
		for e := range p.Bus[b].Expansion {
			_ = p.Bus[b].Expansion[e].Set("none")
		}
	}

	// a standard controller with a VMU and a vibration pack on the first bus
	_ = p.Bus[0].Main.Set("controller")
	_ = p.Bus[0].Expansion[0].Set("vmu")
	_ = p.Bus[0].Expansion[1].Set("purupuru")

	_ = p.SwapMSB.Set(false)
	_ = p.MaxDescriptors.Set(4096)
	_ = p.StrictAddressing.Set(false)
	_ = p.VMUPath.Set("")
	_ = p.JVSBoard.Set("837-13551")
	_ = p.JVSLightgunAnalog.Set(false)
	_ = p.ArcadeKeyboards.Set(false)
	_ = p.KeyboardLang.Set(KeyboardUS)
	_ = p.MouseInvertY.Set(false)
	_ = p.MicrophoneGainBoost.Set(false)
}

// StoragePath returns the directory in which device storage files should be
// kept.
func (p *Preferences) StoragePath() (string, error) {
	if s := p.VMUPath.String(); s != "" {
		return s, nil
	}
	return resources.JoinPath("vmu")
}

// Reset all Maple preferences to the default values.
func (p *Preferences) Reset() error {
	p.SetDefaults()
	return nil
}

// Load current Maple preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current Maple preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
