package lifecycle

import (
	"fmt"
	"net"

	"github.com/melih/grf/internal/core/domain"
)

const maxPortAttempts = 8

// AllocateEphemeralPort asks the OS for a free loopback port and releases it
// straight away. The port is only known to be free at the moment of the
// call; another process may take it before the container binds it.
func AllocateEphemeralPort() (uint16, error) {
	for range maxPortAttempts {
		port, err := listenLoopback()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrPortAllocation, err)
		}
		if usablePort(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w: no usable port after %d attempts", domain.ErrPortAllocation, maxPortAttempts)
}

func listenLoopback() (uint16, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address %s", l.Addr())
	}
	return uint16(addr.Port), nil
}

// usablePort rejects ports that would collide with the fixed mappings.
func usablePort(port uint16) bool {
	return port != 0 && port != domain.UIPort && port != domain.DiagnosticPort
}
