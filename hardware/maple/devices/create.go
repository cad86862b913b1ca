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

import "github.com/jetsetilly/maplebus/curated"

// UnknownKind is the error pattern for a Kind that Create() can not build.
const UnknownKind = "devices: unknown kind: %v"

// Create a device of the specified kind. The JVS hub is not created by this
// function because it lives in its own package.
func Create(kind Kind, cfg Config) (Device, error) {
	switch kind {
	case KindController, KindTwinStick, KindAsciiStick, KindControllerXL:
		return NewController(cfg, kind), nil
	case KindVMU:
		return NewVMU(cfg), nil
	case KindPurupuru:
		return NewPurupuru(cfg), nil
	case KindMicrophone:
		return NewMicrophone(cfg), nil
	case KindKeyboard:
		return NewKeyboard(cfg), nil
	case KindMouse:
		return NewMouse(cfg), nil
	case KindLightGun:
		return NewLightGun(cfg), nil
	case KindRFID:
		return NewRFID(cfg), nil
	case KindPassthrough:
		return NewPassthrough(cfg), nil
	case KindMirrorVMU:
		return NewMirrorVMU(cfg, false), nil
	case KindMirrorPurupuru:
		return NewMirrorPurupuru(cfg), nil
	}
	return nil, curated.Errorf(UnknownKind, kind)
}
