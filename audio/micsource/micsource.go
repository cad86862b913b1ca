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

// Package micsource supplies microphone samples from an audio file. WAV and
// MP3 files are supported. The file is decoded in full when it is loaded and
// is resampled to the rate requested by the microphone as it is played.
package micsource

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/logger"
)

// UnsupportedFile is the error pattern for a file that can not be decoded.
const UnsupportedFile = "micsource: unsupported file: %s"

// sample rates of the microphone
const (
	rateNormal   = 11025
	rateEightKHz = 8000
)

// Tap receives the samples delivered to the microphone.
type Tap interface {
	Write(samples []int16)
}

// Source implements the devices.SoundSource interface.
type Source struct {
	perm logger.Permission

	crit sync.Mutex

	// mono samples in the range -1.0 to 1.0
	data []float32
	rate float64

	// position in the data. fractional because the output rate is rarely the
	// same as the source rate
	pos float64

	outRate float64
	running bool

	// playback restarts at the beginning when the end of the data is reached
	loop bool

	tap Tap
}

// NewSource creates a Source from mono samples in the range -1.0 to 1.0.
func NewSource(perm logger.Permission, data []float32, rate float64, loop bool) *Source {
	return &Source{
		perm:    perm,
		data:    data,
		rate:    rate,
		loop:    loop,
		outRate: rateNormal,
	}
}

// Load decodes the file. The type of file is decided by the extension.
func Load(perm logger.Permission, filename string, loop bool) (*Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("micsource: %v", err)
	}
	defer f.Close()

	var data []float32
	var rate float64

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		data, rate, err = decodeWAV(f)
	case ".mp3":
		data, rate, err = decodeMP3(f)
	default:
		return nil, curated.Errorf(UnsupportedFile, filename)
	}
	if err != nil {
		return nil, err
	}

	logger.Logf(perm, "mic", "%s: %d samples at %.0fHz", filepath.Base(filename), len(data), rate)
	return NewSource(perm, data, rate, loop), nil
}

func decodeWAV(r io.ReadSeeker) ([]float32, float64, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, 0, curated.Errorf(UnsupportedFile, "not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, curated.Errorf("micsource: wav: %v", err)
	}

	return mono(buf), float64(dec.SampleRate), nil
}

// mono takes the first channel of the buffer and scales it by the bit depth
// of the source
func mono(buf *audio.IntBuffer) []float32 {
	chans := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		chans = buf.Format.NumChannels
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	scale := float32(int(1) << (depth - 1))

	data := make([]float32, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		data = append(data, float32(buf.Data[i])/scale)
	}
	return data
}

// the decoded MP3 stream is always 16 bit little endian stereo
func decodeMP3(r io.Reader) ([]float32, float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, curated.Errorf("micsource: mp3: %v", err)
	}

	var data []float32
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			data = append(data, float32(v)/32768)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, 0, curated.Errorf("micsource: mp3: %v", err)
		}
	}

	return data, float64(dec.SampleRate()), nil
}

// AttachTap sets the Tap to receive delivered samples. A nil value removes
// the tap.
func (s *Source) AttachTap(tap Tap) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.tap = tap
}

// Start implements the devices.SoundSource interface.
func (s *Source) Start(eightKHz bool) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	s.outRate = rateNormal
	if eightKHz {
		s.outRate = rateEightKHz
	}
	s.running = true

	logger.Logf(s.perm, "mic", "capture started at %.0fHz", s.outRate)
	return nil
}

// Stop implements the devices.SoundSource interface.
func (s *Source) Stop() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.running = false
}

// Rewind to the beginning of the data.
func (s *Source) Rewind() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.pos = 0
}

// Record implements the devices.SoundSource interface. Once the end of the
// data is reached silence is recorded, unless the source is looping.
func (s *Source) Record(samples []int16) int {
	s.crit.Lock()
	defer s.crit.Unlock()

	if !s.running {
		return 0
	}

	step := s.rate / s.outRate
	for i := range samples {
		idx := int(s.pos)
		if idx >= len(s.data) {
			if s.loop && len(s.data) > 0 {
				s.pos = 0
				idx = 0
			} else {
				samples[i] = 0
				continue
			}
		}
		samples[i] = toInt16(s.data[idx])
		s.pos += step
	}

	if s.tap != nil {
		s.tap.Write(samples)
	}

	return len(samples)
}

func toInt16(v float32) int16 {
	v *= 32767
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
