package source

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ircv3Subprotocol is the WebSocket subprotocol for IRC carried one message
// per text frame.
const ircv3Subprotocol = "text.ircv3.net"

// wsConn adapts a WebSocket connection to the byte stream an IRC client
// expects. Each received frame becomes one CRLF-terminated line; written
// bytes are buffered until a newline and sent one line per frame.
type wsConn struct {
	ws      *websocket.Conn
	readBuf []byte

	mu       sync.Mutex
	writeBuf bytes.Buffer
}

// DialWebSocket opens an IRC-over-WebSocket connection to url.
func DialWebSocket(ctx context.Context, url string) (io.ReadWriteCloser, error) {
	dialer := *websocket.DefaultDialer
	dialer.Subprotocols = []string{ircv3Subprotocol}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{ws: ws}, nil
}

func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.readBuf) == 0 {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return 0, err
		}
		line := strings.TrimRight(string(data), "\r\n")
		if line == "" {
			continue
		}
		c.readBuf = []byte(line + "\r\n")
	}
	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeBuf.Write(p)
	for {
		data := c.writeBuf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return len(p), nil
		}
		line := strings.TrimRight(string(data[:idx]), "\r")
		c.writeBuf.Next(idx + 1)
		if line == "" {
			continue
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return 0, err
		}
	}
}

func (c *wsConn) Close() error {
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}
