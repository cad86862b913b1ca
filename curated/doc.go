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
// Package curated provides the error type used throughout Maplebus.
//
// An error made with Errorf() keeps the pattern it was made from, so callers
// can test for a class of failure without parsing the message. Packages
// export their patterns as constants:
//
//	const BadBlock = "vmu: block %d out of range"
//
//	err := curated.Errorf(BadBlock, 300)
//	curated.Is(err, BadBlock)   // true
//
// Wrapping an error in another curated error hides it from Is() but not from
// Has(), which searches the whole chain:
//
//	err = curated.Errorf("maple: %v", err)
//	curated.Is(err, BadBlock)   // false
//	curated.Has(err, BadBlock)  // true
//
// IsAny() separates expected errors (curated) from unexpected ones.
//
// Messages are treated as chains of parts joined by ": ". When a package
// wraps an error that already starts with its own prefix the repeated part is
// dropped, so "maple: maple: vmu: failed" reads "maple: vmu: failed".
package curated
