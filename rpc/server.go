package metricrpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
)

const maxDatagram = 64 * 1024

type Server struct {
	Addr      string
	Processor *ServerProcessor
	Logger    *zap.Logger
}

func NewServer(addr string, processor *ServerProcessor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Addr:      addr,
		Processor: processor,
		Logger:    logger,
	}
}

func Listen(addr string) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("rpc: resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen %s: %w", addr, err)
	}
	return conn, nil
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	conn, err := Listen(s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, conn)
}

// Serve answers requests on conn until ctx is cancelled, then closes conn.
func (s *Server) Serve(ctx context.Context, conn *net.UDPConn) error {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()

	s.Logger.Info("rpc server listening",
		zap.String("addr", conn.LocalAddr().String()),
		zap.String("codec", s.Processor.Codec.Name()))

	data := make([]byte, maxDatagram)
	for {
		n, peer, err := conn.ReadFromUDP(data)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.Logger.Info("rpc server stopped")
				return nil
			}
			return fmt.Errorf("rpc: read: %w", err)
		}
		s.handleDatagram(conn, peer, data[:n])
	}
}

func (s *Server) handleDatagram(conn *net.UDPConn, peer *net.UDPAddr, data []byte) {
	key := peer.String()
	wrappers, err := DecodeDatagram(data)
	if err != nil {
		s.Logger.Warn("dropping malformed data", zap.String("peer", key), zap.Error(err))
	}

	for _, w := range wrappers {
		out, req, err := s.Processor.HandleWrapper(w)
		if err != nil {
			fields := []zap.Field{zap.String("peer", key), zap.Error(err)}
			if req != nil {
				fields = append(fields, zap.Stringer("uuid", req.UUID))
			}
			s.Logger.Warn("request failed", fields...)
		}
		if out == nil {
			continue
		}
		if _, err := conn.WriteToUDP(out, peer); err != nil {
			s.Logger.Error("write response", zap.String("peer", key), zap.Error(err))
			continue
		}
		if req != nil {
			s.Logger.Debug("request served",
				zap.String("peer", key),
				zap.Stringer("uuid", req.UUID),
				zap.ByteString("function", req.Body["function"]))
		}
	}
}
