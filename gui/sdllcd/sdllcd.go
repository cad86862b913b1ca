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

// Package sdllcd shows the screen of a VMU in an SDL window.
//
// The LCD type implements the devices.Display interface. SetImage() can be
// called from any goroutine. The window is only updated by Render(), which
// must be called by the main thread.
package sdllcd

import (
	"sync"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/veandco/go-sdl2/sdl"
)

// the number of window pixels for each LCD pixel
const pixelScale = 6

// bytes per pixel in the texture
const depth = 4

// the colours of the VMU screen. a lit pixel is dark
var (
	colourLit   = [depth]byte{0x08, 0x18, 0x30, 0xff}
	colourUnlit = [depth]byte{0x9c, 0xbc, 0xa8, 0xff}
)

// LCD is a window showing the VMU screen.
type LCD struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	crit    sync.Mutex
	image   [devices.LCDWidth * devices.LCDHeight]byte
	updated bool

	pixels []byte
}

// NewLCD creates the window. The title usually names the VMU slot.
func NewLCD(title string) (*LCD, error) {
	err := sdl.InitSubSystem(sdl.INIT_VIDEO)
	if err != nil {
		return nil, curated.Errorf("sdllcd: %v", err)
	}

	lcd := &LCD{
		pixels: make([]byte, devices.LCDWidth*devices.LCDHeight*depth),
	}

	lcd.window, err = sdl.CreateWindow(title, int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		devices.LCDWidth*pixelScale, devices.LCDHeight*pixelScale, uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, curated.Errorf("sdllcd: %v", err)
	}

	lcd.renderer, err = sdl.CreateRenderer(lcd.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		lcd.Destroy()
		return nil, curated.Errorf("sdllcd: %v", err)
	}

	lcd.texture, err = lcd.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), devices.LCDWidth, devices.LCDHeight)
	if err != nil {
		lcd.Destroy()
		return nil, curated.Errorf("sdllcd: %v", err)
	}

	// the screen is blank until the first image arrives
	for i := range lcd.image {
		lcd.image[i] = 0xff
	}
	lcd.updated = true

	return lcd, nil
}

// Window returns the SDL window.
func (lcd *LCD) Window() *sdl.Window {
	return lcd.window
}

// SetImage implements the devices.Display interface.
func (lcd *LCD) SetImage(img []byte) {
	lcd.crit.Lock()
	defer lcd.crit.Unlock()
	copy(lcd.image[:], img)
	lcd.updated = true
}

// Render draws the most recent image. Nothing is drawn if the image has not
// changed since the previous call.
func (lcd *LCD) Render() error {
	lcd.crit.Lock()
	if !lcd.updated {
		lcd.crit.Unlock()
		return nil
	}
	expand(lcd.pixels, lcd.image[:])
	lcd.updated = false
	lcd.crit.Unlock()

	err := lcd.texture.Update(nil, lcd.pixels, devices.LCDWidth*depth)
	if err != nil {
		return curated.Errorf("sdllcd: %v", err)
	}
	err = lcd.renderer.Clear()
	if err != nil {
		return curated.Errorf("sdllcd: %v", err)
	}
	err = lcd.renderer.Copy(lcd.texture, nil, nil)
	if err != nil {
		return curated.Errorf("sdllcd: %v", err)
	}
	lcd.renderer.Present()

	return nil
}

// Destroy the window.
func (lcd *LCD) Destroy() {
	if lcd.texture != nil {
		_ = lcd.texture.Destroy()
	}
	if lcd.renderer != nil {
		_ = lcd.renderer.Destroy()
	}
	if lcd.window != nil {
		_ = lcd.window.Destroy()
	}
}

// expand the one byte per pixel image to texture pixels. any value other
// than white is a lit pixel
func expand(pixels []byte, img []byte) {
	for i, v := range img {
		c := colourLit
		if v == 0xff {
			c = colourUnlit
		}
		copy(pixels[i*depth:], c[:])
	}
}
