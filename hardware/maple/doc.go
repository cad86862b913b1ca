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

// Package maple is the Maple bus of the console. The Maple type is the DMA
// controller. It walks the list of DMA descriptors in memory, dispatches the
// command frames to the devices in the Registry and writes the replies back
// to memory when the pass completes.
//
// The completion of a pass is delayed by the time it takes to transfer the
// frames over the bus. The delay is handled by the scheduler and the
// InterruptDMADone interrupt is raised when the replies have been written.
//
// A pass is started by writing to the MDST register or, when the MDTSEL
// register is set, by VBlank(). Passes are synchronous. A pass must not be
// started while another pass is in progress and devices must not be plugged
// or unplugged while a pass is in progress.
//
// Devices are created by CreateDevices() according to the preferences. Each
// device is given its collaborators by the Host implementation given to
// NewMaple(). The device implementations are in the devices and jvs
// sub-packages.
package maple
