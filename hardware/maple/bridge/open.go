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
	"fmt"
	"net"
	"time"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/pkg/term"
)

// BaudRate of the serial connection to the adaptor.
const BaudRate = 115200

// TCPBasePort is the port used by the first bus. The other buses use the
// following ports.
const TCPBasePort = 37393

// timeout for a single read from the peer
const readTimeout = time.Second

// OpenTTY opens the serial device in raw mode.
func OpenTTY(perm logger.Permission, path string) (*Link, error) {
	t, err := term.Open(path, term.Speed(BaudRate), term.RawMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return nil, curated.Errorf(LinkError, err)
	}

	// discard anything left over from a previous session
	_ = t.Flush()

	logger.Logf(perm, "bridge", "opened %s at %d baud", path, BaudRate)
	return NewLink(perm, fmt.Sprintf("bridge %s", path), t), nil
}

// deadlineConn sets a read deadline before every read
type deadlineConn struct {
	net.Conn
}

func (c deadlineConn) Read(b []byte) (int, error) {
	err := c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	if err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

// DialTCP connects to the bridge server for the bus on the local machine.
func DialTCP(perm logger.Permission, bus int) (*Link, error) {
	addr := fmt.Sprintf("localhost:%d", TCPBasePort+bus)
	conn, err := net.DialTimeout("tcp", addr, readTimeout)
	if err != nil {
		return nil, curated.Errorf(LinkError, err)
	}

	logger.Logf(perm, "bridge", "connected to %s", addr)
	return NewLink(perm, fmt.Sprintf("bridge %s", addr), deadlineConn{Conn: conn}), nil
}
