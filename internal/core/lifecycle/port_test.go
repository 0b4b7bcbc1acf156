package lifecycle

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateEphemeralPort(t *testing.T) {
	for range 20 {
		port, err := AllocateEphemeralPort()
		require.NoError(t, err)
		assert.NotZero(t, port)
		assert.NotEqual(t, uint16(6060), port)
		assert.NotEqual(t, uint16(3000), port)
	}
}

func TestAllocateEphemeralPort_ReleasesListener(t *testing.T) {
	port, err := AllocateEphemeralPort()
	require.NoError(t, err)

	// The port was free when handed out and the listener is closed, so
	// binding it again normally succeeds.
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestUsablePort(t *testing.T) {
	tests := []struct {
		port uint16
		want bool
	}{
		{0, false},
		{3000, false},
		{6060, false},
		{1024, true},
		{49152, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, usablePort(tt.port), "port %d", tt.port)
	}
}
