// Package smtptest provides a minimal in-process SMTP server for exercising
// the relay client without a real relay.
package smtptest

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
)

// Message is one accepted SMTP transaction.
type Message struct {
	From string
	To   []string
	Data string
}

// Server accepts plaintext SMTP submissions on a loopback port.
type Server struct {
	listener net.Listener

	mu       sync.Mutex
	messages []Message

	// RejectRecipients makes every RCPT TO answer 550, simulating a
	// relay-side rejection.
	RejectRecipients bool
}

// NewServer starts a server on an ephemeral loopback port.
func NewServer() (*Server, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{listener: l}
	go s.acceptLoop()
	return s, nil
}

// Host returns the listen host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.listener.Addr().String())
	return host
}

// Port returns the listen port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Close stops the server.
func (s *Server) Close() {
	s.listener.Close()
}

// Messages returns the accepted transactions so far.
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	fmt.Fprintf(conn, "220 smtptest ESMTP ready\r\n")

	var msg Message
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			fmt.Fprintf(conn, "250 smtptest\r\n")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			msg = Message{From: stripAngle(line[len("MAIL FROM:"):])}
			fmt.Fprintf(conn, "250 OK\r\n")
		case strings.HasPrefix(verb, "RCPT TO:"):
			if s.RejectRecipients {
				fmt.Fprintf(conn, "550 recipient rejected\r\n")
				continue
			}
			msg.To = append(msg.To, stripAngle(line[len("RCPT TO:"):]))
			fmt.Fprintf(conn, "250 OK\r\n")
		case verb == "DATA":
			fmt.Fprintf(conn, "354 end data with <CR><LF>.<CR><LF>\r\n")
			var data strings.Builder
			for {
				dl, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dl, "\r\n") == "." {
					break
				}
				data.WriteString(dl)
			}
			msg.Data = data.String()
			s.mu.Lock()
			s.messages = append(s.messages, msg)
			s.mu.Unlock()
			fmt.Fprintf(conn, "250 accepted\r\n")
		case verb == "RSET":
			msg = Message{}
			fmt.Fprintf(conn, "250 OK\r\n")
		case verb == "QUIT":
			fmt.Fprintf(conn, "221 bye\r\n")
			return
		default:
			fmt.Fprintf(conn, "500 unrecognized command\r\n")
		}
	}
}

func stripAngle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	return strings.TrimSuffix(s, ">")
}
