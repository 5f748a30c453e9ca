// Package server runs the line-delimited JSON protocol over TCP, with
// optional TLS.
package server

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Dias221467/SocialGraph/internal/handlers"
	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxMessageBytes = 64 * 1024

	// Unread input left on a socket turns close into a reset, which can
	// discard the final error response before the client reads it.
	drainTimeout = 500 * time.Millisecond
	drainLimit   = 1 << 20
)

// Options configures a TCPServer.
type Options struct {
	Addr string
	// TLS is nil for a plaintext listener.
	TLS             *tls.Config
	MaxMessageBytes int
	RateLimitRPS    float64
	RateLimitBurst  int
}

// TCPServer accepts connections and runs one worker goroutine per
// connection. Each worker reads one request per line and writes one
// response per line.
type TCPServer struct {
	opts       Options
	dispatcher *handlers.Dispatcher

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

func NewTCPServer(opts Options, dispatcher *handlers.Dispatcher) *TCPServer {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultMaxMessageBytes
	}
	return &TCPServer{
		opts:       opts,
		dispatcher: dispatcher,
		conns:      make(map[net.Conn]struct{}),
	}
}

// LoadTLSConfig builds a server TLS config from a PEM certificate and key.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Listen binds the listening socket.
func (s *TCPServer) Listen() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	if s.opts.TLS != nil {
		ln = tls.NewListener(ln, s.opts.TLS)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"addr": ln.Addr().String(),
		"tls":  s.opts.TLS != nil,
	}).Info("TCP server listening")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds and serves until ctx is cancelled.
func (s *TCPServer) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve accepts connections until ctx is cancelled, then closes the
// listener and every open connection and waits for the workers to end.
func (s *TCPServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		s.shutdown()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.shutdown()
				s.wg.Wait()
				logger.Log.Info("TCP server stopped")
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		s.track(conn)
		s.wg.Add(1)
		go s.handle(ctx, conn)
	}
}

func (s *TCPServer) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
}

func (s *TCPServer) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	metrics.OpenConnections.WithLabelValues("tcp").Inc()
}

func (s *TCPServer) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	metrics.OpenConnections.WithLabelValues("tcp").Dec()
}

// handle is the per-connection worker.
func (s *TCPServer) handle(ctx context.Context, conn net.Conn) {
	connID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{"conn": connID, "remote": conn.RemoteAddr().String()})
	log.Info("Client connected")

	defer func() {
		s.dispatcher.Disconnect(connID)
		s.untrack(conn)
		conn.Close()
		s.wg.Done()
		log.Info("Client disconnected")
	}()

	if ctx.Err() != nil {
		return
	}

	scanner := bufio.NewScanner(conn)
	// One extra byte so a line of exactly MaxMessageBytes still fits next
	// to its newline. The scanner's limit is the larger of max and the
	// initial capacity, so the buffer must not start bigger than the limit.
	limit := s.opts.MaxMessageBytes + 1
	scanner.Buffer(make([]byte, 0, min(4096, limit)), limit)
	writer := bufio.NewWriter(conn)
	limiter := handlers.NewLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		resp := s.dispatcher.Dispatch(ctx, connID, line)
		if err := writeResponse(writer, resp); err != nil {
			log.WithError(err).Warn("Failed to write response")
			return
		}
	}

	err := scanner.Err()
	switch {
	case errors.Is(err, bufio.ErrTooLong):
		log.WithField("limit", s.opts.MaxMessageBytes).Warn("Message too large, closing connection")
		resp := models.Failure(string(apperrors.KindTransport), "message_too_large",
			fmt.Sprintf("message exceeds %d bytes", s.opts.MaxMessageBytes))
		_ = writeResponse(writer, resp)
		drain(conn)
	case err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed):
		log.WithError(err).Warn("Connection read error")
	}
}

func drain(conn net.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, drainLimit))
}

func writeResponse(w *bufio.Writer, resp models.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}
