package server

import (
	"bufio"
	"io"
	"net"
	"strings"

	"github.com/gorilla/websocket"
)

// transport is a line-oriented connection. TCP frames lines with
// newlines, websockets frame them as text messages.
type transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

type tcpTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxLineLength), maxLineLength)
	return &tcpTransport{conn: conn, scanner: scanner}
}

func (t *tcpTransport) ReadLine() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(t.scanner.Text(), "\r"), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

type wsTransport struct {
	conn *websocket.Conn
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

// ReadLine skips non-text frames so pings and binary noise do not
// surface as commands.
func (t *wsTransport) ReadLine() (string, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (t *wsTransport) WriteLine(line string) error {
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
