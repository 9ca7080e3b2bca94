package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DialSocket connects a socket.io client to the server at baseURL and
// disconnects it when the test ends.
func DialSocket(t *testing.T, baseURL string) *socket.Socket {
	t.Helper()

	opts := socket.DefaultOptions()
	opts.SetPath("/socket.io/")
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	client := manager.Socket("/", opts)

	connected := make(chan error, 1)
	client.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	client.Once(types.EventName("connect_error"), func(errs ...any) {
		connected <- fmt.Errorf("connect_error: %v", errs)
	})
	client.Connect()

	select {
	case err := <-connected:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for socket.io connection")
	}
	t.Cleanup(func() { client.Disconnect() })
	return client
}

// Next waits for the next occurrence of event on client and returns its
// first argument.
func Next(t *testing.T, client *socket.Socket, event string, trigger func()) any {
	t.Helper()

	got := make(chan any, 1)
	client.Once(types.EventName(event), func(args ...any) {
		if len(args) == 0 {
			got <- nil
			return
		}
		got <- args[0]
	})
	trigger()

	select {
	case v := <-got:
		return v
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out waiting for %q", event)
		return nil
	}
}
