package backend_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/backend"
	"github.com/n4rclss/classfabric/duration"
	"github.com/n4rclss/classfabric/envelope"
)

var itoa = strconv.Itoa

type fakeClients struct{}

func (fakeClients) WriteToClient(string, []byte) (bool, error) { return false, nil }

func startEchoBackend(t *testing.T) (addr *net.TCPAddr, closeFn func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				buf := make([]byte, 4096)
				for {
					if _, err := c.Read(buf); err != nil {
						return
					}
				}
			}(c)
		}
	}()
	return ln.Addr().(*net.TCPAddr), func() { ln.Close() }
}

func writeServersFile(t *testing.T, dir string, entries string) string {
	t.Helper()
	path := filepath.Join(dir, "servers.json")
	if err := os.WriteFile(path, []byte(entries), 0o644); err != nil {
		t.Fatalf("failed to write servers file: %v", err)
	}
	return path
}

func TestReload_ConnectsHealthyBackend(t *testing.T) {
	addr, closeFn := startEchoBackend(t)
	defer closeFn()

	dir := t.TempDir()
	path := writeServersFile(t, dir, `[{"host":"127.0.0.1","port":`+itoa(addr.Port)+`}]`)

	d := backend.NewDirectory(fakeClients{}, envelope.NewFramer(0), duration.Duration(200*time.Millisecond), 4, nil)
	if err := d.Reload(context.Background(), path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	if _, ok := d.Select(); !ok {
		t.Fatalf("expected a healthy connected backend to be selectable")
	}
}

func TestReload_EmptyFileYieldsNoBackend(t *testing.T) {
	dir := t.TempDir()
	path := writeServersFile(t, dir, `[]`)

	d := backend.NewDirectory(fakeClients{}, envelope.NewFramer(0), duration.Duration(200*time.Millisecond), 4, nil)
	if err := d.Reload(context.Background(), path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	if _, ok := d.Select(); ok {
		t.Fatalf("expected no backend to be selectable with an empty list")
	}
}

func TestReload_UnreachableBackendStaysUnhealthy(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	dir := t.TempDir()
	path := writeServersFile(t, dir, `[{"host":"127.0.0.1","port":`+itoa(addr.Port)+`}]`)

	d := backend.NewDirectory(fakeClients{}, envelope.NewFramer(0), duration.Duration(100*time.Millisecond), 4, nil)
	if err := d.Reload(context.Background(), path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	if _, ok := d.Select(); ok {
		t.Fatalf("expected an unreachable backend to never be selectable")
	}
}

func TestReload_MalformedFileRetainsPriorState(t *testing.T) {
	addr, closeFn := startEchoBackend(t)
	defer closeFn()

	dir := t.TempDir()
	path := writeServersFile(t, dir, `[{"host":"127.0.0.1","port":`+itoa(addr.Port)+`}]`)

	d := backend.NewDirectory(fakeClients{}, envelope.NewFramer(0), duration.Duration(200*time.Millisecond), 4, nil)
	if err := d.Reload(context.Background(), path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	writeServersFile(t, dir, `not json`)
	if err := d.Reload(context.Background(), path); err == nil {
		t.Fatalf("expected an error reloading a malformed file")
	}

	if _, ok := d.Select(); !ok {
		t.Fatalf("expected the prior healthy backend to remain selectable after a failed reload")
	}
}

func TestReload_DeduplicatesEntries(t *testing.T) {
	addr, closeFn := startEchoBackend(t)
	defer closeFn()

	dir := t.TempDir()
	entry := `{"host":"127.0.0.1","port":` + itoa(addr.Port) + `}`
	path := writeServersFile(t, dir, `[`+entry+`,`+entry+`]`)

	d := backend.NewDirectory(fakeClients{}, envelope.NewFramer(0), duration.Duration(200*time.Millisecond), 4, nil)
	if err := d.Reload(context.Background(), path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	list, _ := d.Snapshot()
	if len(list) != 1 {
		t.Fatalf("expected duplicate entries to be deduplicated, got %d backends", len(list))
	}
}
