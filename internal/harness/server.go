package harness

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// startupGrace is how long the server subprocess gets to start before the
// harness blocks on accepting its connection.
const startupGrace = time.Second

// Server is a running language-server subprocess together with the
// accepted protocol connection and the capture files for its output.
type Server struct {
	Conn   net.Conn
	Port   int
	Stdout *os.File
	Stderr *os.File

	cmd      *exec.Cmd
	listener net.Listener
	logger   *zap.Logger
}

// LaunchServer binds a TCP socket on port (0 picks a free port), spawns
// the language server pointed at it, and accepts exactly one connection.
// The subprocess's stdout and stderr are redirected to temp files so the
// harness can poll them.
func LaunchServer(inst *Installation, port int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, &ConfigurationError{Reason: "binding listen socket", Err: err}
	}
	port = listener.Addr().(*net.TCPAddr).Port
	logger.Info("listening for language server", zap.Int("port", port))

	stdout, err := os.CreateTemp("", "lspstress-stdout-")
	if err != nil {
		listener.Close()
		return nil, &ConfigurationError{Reason: "creating stdout capture file", Err: err}
	}
	stderr, err := os.CreateTemp("", "lspstress-stderr-")
	if err != nil {
		listener.Close()
		stdout.Close()
		os.Remove(stdout.Name())
		return nil, &ConfigurationError{Reason: "creating stderr capture file", Err: err}
	}

	args := inst.ServerArgs(port)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info("starting language server", zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		listener.Close()
		removeCapture(stdout)
		removeCapture(stderr)
		return nil, &ConfigurationError{Reason: "starting language server", Err: err}
	}

	time.Sleep(startupGrace)

	conn, err := listener.Accept()
	if err != nil {
		cmd.Process.Kill()
		listener.Close()
		removeCapture(stdout)
		removeCapture(stderr)
		return nil, &ConfigurationError{Reason: "accepting server connection", Err: err}
	}

	return &Server{
		Conn:     conn,
		Port:     port,
		Stdout:   stdout,
		Stderr:   stderr,
		cmd:      cmd,
		listener: listener,
		logger:   logger,
	}, nil
}

// Close tears down the connection, the subprocess, and the capture files.
func (s *Server) Close() error {
	s.Conn.Close()
	s.listener.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	removeCapture(s.Stdout)
	removeCapture(s.Stderr)
	return nil
}

func removeCapture(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}
