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

// zlib compressed image of a freshly formatted VMU. the decompressed image is
// exactly the size of the flash memory
var vmuDefault = []byte{
	0x78, 0x9c, 0xed, 0xd2, 0x31, 0x4e, 0x02, 0x61, 0x10, 0x06, 0xd0, 0x8f,
	0x04, 0x28, 0x4c, 0x2c, 0x28, 0x2d, 0x0c, 0xa5, 0x57, 0xe0, 0x16, 0x56,
	0x16, 0x76, 0x14, 0x1e, 0xc4, 0x03, 0x50, 0x98, 0x50, 0x40, 0x69, 0xc1,
	0x51, 0x28, 0xbc, 0x8e, 0x8a, 0x0a, 0xeb, 0xc2, 0xcf, 0x66, 0x13, 0x1a,
	0x13, 0xa9, 0x30, 0x24, 0xe6, 0xbd, 0xc9, 0x57, 0xcc, 0x4c, 0x33, 0xc5,
	0x2c, 0xb3, 0x48, 0x6e, 0x67, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x4e,
	0xaf, 0xdb, 0xe4, 0x7a, 0xd2, 0xcf, 0x53, 0x16, 0x6d, 0x46, 0x99, 0xb6,
	0xc9, 0x78, 0x9e, 0x3c, 0x5f, 0x9c, 0xfb, 0x3c, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x5f, 0xd5, 0x45, 0xfd,
	0xef, 0xaa, 0xca, 0x6b, 0xde, 0xf2, 0x9e, 0x55, 0x3e, 0xf2, 0x99, 0xaf,
	0xac, 0xb3, 0x49, 0x95, 0xef, 0xd4, 0xa9, 0x9a, 0xdd, 0xdd, 0x0f, 0x9d,
	0x52, 0xca, 0xc3, 0x91, 0x7f, 0xb9, 0x9a, 0x0f, 0x6e, 0x92, 0xfb, 0xee,
	0xa1, 0x2f, 0x6d, 0x76, 0xe9, 0x64, 0x9b, 0xcb, 0xf4, 0xf2, 0x92, 0x61,
	0x33, 0x79, 0xfc, 0xeb, 0xb7, 0xe5, 0x44, 0xf6, 0x77, 0x19, 0x06, 0xef,
}
