package transport

import (
	"fmt"
	"net"

	"github.com/hypebeast/go-osc/osc"

	"holophonix-engine/internal/oscwire"
)

// socket is a persistent UDP connection to the device endpoint. go-osc's
// own Client dials a fresh connection on every Send, which would discard
// the SO_SNDBUF tuning the transport needs to hold across sends; socket
// keeps one net.UDPConn open instead and uses go-osc only for OSC message
// construction and wire encoding (osc.NewMessage, Append, ToByteArray).
type socket struct {
	conn *net.UDPConn
}

func dialSocket(host string, port, sendBufferBytes int) (*socket, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s:%d: %w", host, port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s:%d: %w", host, port, err)
	}
	if sendBufferBytes > 0 {
		_ = conn.SetWriteBuffer(sendBufferBytes)
	}
	return &socket{conn: conn}, nil
}

func (s *socket) send(msg oscwire.Msg) error {
	args := make([]interface{}, len(msg.Args))
	for i, v := range msg.Args {
		args[i] = v
	}
	return s.sendOSC(msg.Address, args)
}

func (s *socket) sendControl(msg oscwire.ControlMsg) error {
	return s.sendOSC(msg.Address, msg.Args)
}

func (s *socket) sendOSC(address string, args []interface{}) error {
	m := osc.NewMessage(address)
	for _, arg := range args {
		m.Append(arg)
	}
	data, err := m.ToByteArray()
	if err != nil {
		return fmt.Errorf("transport: encode %s: %w", address, err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("transport: write %s: %w", address, err)
	}
	return nil
}

func (s *socket) close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
