package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/balldrop/internal/config"
	"github.com/tomz197/balldrop/internal/draw"
	"github.com/tomz197/balldrop/internal/loop"
	"github.com/tomz197/balldrop/internal/loop/client"
	"github.com/tomz197/balldrop/internal/loop/server"
)

// Global score hub - shared by all SSH clients
var (
	hub       *server.Server
	cancelHub context.CancelFunc
	hubOnce   sync.Once
	appConfig *config.Config
	logger    *log.Logger
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	appConfig = cfg
	logger = config.NewLogger(os.Stderr, cfg.LogLevel, "ssh")

	// Fail fast on a bad preset instead of on the first connection.
	if _, err := loop.SessionOptions(cfg); err != nil {
		logger.Fatal("invalid game configuration", "err", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", cfg.SSHHost, "port", cfg.SSHPort, "hostKey", cfg.SSHHostKey, "workingDir", workingDir, "preset", cfg.Preset)

	// Initialize and start the shared score hub
	hubOnce.Do(func() {
		var ctx context.Context
		ctx, cancelHub = context.WithCancel(context.Background())
		hub = server.NewServer(logger.WithPrefix("hub"))
		go hub.Run(ctx)
		logger.Info("score hub started")
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSHHost, cfg.SSHPort)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(cfg.SSHHost, cfg.SSHPort))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	if hub != nil {
		logger.Info("notifying connected players about shutdown")
		hub.Shutdown(15 * time.Second)
		cancelHub()
		logger.Info("score hub stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs a game client per session.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		clientOpts, err := loop.SessionOptions(appConfig)
		if err != nil {
			logger.Error("session options", "user", sess.User(), "err", err)
			return
		}
		clientOpts.TermSizeFunc = sizeTracker.getSize
		clientOpts.Username = sess.User()

		c, err := client.NewClient(hub, bufio.NewReader(sess), sess, clientOpts)
		if err != nil {
			logger.Error("new client", "user", sess.User(), "err", err)
			return
		}
		if err := c.Run(); err != nil {
			logger.Error("game error", "user", sess.User(), "err", err)
		}

		logger.Info("session ended", "user", sess.User(), "score", c.Game().Score())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
