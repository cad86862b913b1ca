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

// Package wavwriter records microphone samples to disk as a WAV file. Note
// that the samples are buffered in memory in their entirety and written to
// disk by Close(). It is therefore probably only suitable for testing
// purposes.
package wavwriter

import (
	"os"
	"sync"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/youpy/go-wav"
)

// WavWriter implements the micsource.Tap interface.
type WavWriter struct {
	perm     logger.Permission
	filename string
	rate     uint32

	crit   sync.Mutex
	buffer []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type. The
// rate is the sample rate written to the file header.
func New(perm logger.Permission, filename string, rate uint32) (*WavWriter, error) {
	if rate == 0 {
		return nil, curated.Errorf("wavwriter: %v", "sample rate must not be zero")
	}

	aw := &WavWriter{
		perm:     perm,
		filename: filename,
		rate:     rate,
		buffer:   make([]wav.Sample, 0),
	}

	return aw, nil
}

// Write implements the micsource.Tap interface.
func (aw *WavWriter) Write(samples []int16) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	for _, s := range samples {
		w := wav.Sample{}
		w.Values[0] = int(s)
		aw.buffer = append(aw.buffer, w)
	}
}

// Len returns the number of samples recorded so far.
func (aw *WavWriter) Len() int {
	aw.crit.Lock()
	defer aw.crit.Unlock()
	return len(aw.buffer)
}

// Close writes the recorded samples to the file as 16 bit mono.
func (aw *WavWriter) Close() (rerr error) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 1, aw.rate, 16)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	logger.Logf(aw.perm, "wavwriter", "writing %d samples to %s", len(aw.buffer), aw.filename)
	err = enc.WriteSamples(aw.buffer)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
