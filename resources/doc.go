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
// Package resources locates the files Maplebus keeps between sessions:
// the preferences file, VMU images, RFID cards and the arcade EEPROM.
//
// Development builds keep everything in .maplebus below the working
// directory. Builds with the "release" tag use a maplebus directory in the
// user's configuration directory instead, unless a .maplebus directory is
// present in the working directory.
package resources
