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

package bridge

import (
	"bufio"
	"io"
	"sync"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/logger"
)

// LinkError is the error pattern for a failed read or write.
const LinkError = "bridge: %v"

// the number of lines read while waiting for a reply before giving up. refresh
// messages and unparseable lines count towards the limit
const maxLinesPerExchange = 8

// Link implements the devices.Link interface over a line based connection to
// real Maple hardware.
type Link struct {
	perm logger.Permission
	tag  string

	conn io.ReadWriteCloser
	rd   *bufio.Reader

	// exchanges are not interleaved
	crit sync.Mutex

	refresh func()
}

// NewLink creates a Link for an already open connection. The tag is used
// when logging.
func NewLink(perm logger.Permission, tag string, conn io.ReadWriteCloser) *Link {
	return &Link{
		perm: perm,
		tag:  tag,
		conn: conn,
		rd:   bufio.NewReader(conn),
	}
}

// OnRefresh sets the function to call when the peer sends the refresh
// message. The function is called by the goroutine waiting for a reply.
func (l *Link) OnRefresh(f func()) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.refresh = f
}

// Send implements the devices.Link interface.
func (l *Link) Send(f codec.Frame) error {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.send(f)
}

func (l *Link) send(f codec.Frame) error {
	_, err := io.WriteString(l.conn, EncodeLine(f))
	if err != nil {
		return curated.Errorf(LinkError, err)
	}
	return nil
}

// Exchange implements the devices.Link interface.
func (l *Link) Exchange(f codec.Frame) (codec.Frame, error) {
	l.crit.Lock()
	defer l.crit.Unlock()

	err := l.send(f)
	if err != nil {
		return codec.Frame{}, err
	}

	for i := 0; i < maxLinesPerExchange; i++ {
		line, err := l.rd.ReadString('\n')
		if err != nil {
			return codec.Frame{}, curated.Errorf(LinkError, err)
		}

		reply, refresh, err := DecodeLine(line)
		if err != nil {
			logger.Log(l.perm, l.tag, err)
			continue
		}
		if refresh {
			logger.Log(l.perm, l.tag, "refresh requested")
			if l.refresh != nil {
				l.refresh()
			}
			continue
		}
		return reply, nil
	}

	return codec.Frame{}, curated.Errorf(LinkError, "no reply")
}

// Close the connection.
func (l *Link) Close() error {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.conn.Close()
}
