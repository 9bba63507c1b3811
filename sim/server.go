package sim

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/internal/pool"
)

// Server exposes a Target to TCP clients. Every accepted connection gets
// its own Session; all of them share the target's memory.
type Server struct {
	target *Target
	ln     net.Listener

	wg    sync.WaitGroup
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a server for t accepting on ln.
func NewServer(t *Target, ln net.Listener) *Server {
	return &Server{
		target: t,
		ln:     ln,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled or the listener fails.
// It closes the listener and all open connections before returning.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.ln.Close()
	})
	defer stop()

	var err error
	for {
		var conn net.Conn
		conn, err = s.ln.Accept()
		if err != nil {
			break
		}

		s.track(conn, true)
		s.wg.Add(1)
		go s.handle(conn)
	}

	s.closeAll()
	s.wg.Wait()

	if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer s.track(conn, false)
	defer conn.Close()

	l := s.target.logger.With("remote", conn.RemoteAddr().String())
	l.Info("sim: client connected")

	sess := s.target.NewSession()
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	for {
		n, err := conn.Read(*buf)
		if n > 0 {
			if resp := sess.Feed((*buf)[:n]); len(resp) > 0 {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if _, werr := conn.Write(resp); werr != nil {
					l.Warn("sim: write response failed", "error", werr)
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				l.Warn("sim: read failed", "error", err)
			}
			l.Info("sim: client disconnected", "commands", s.target.CommandCount())
			return
		}
	}
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}
}
