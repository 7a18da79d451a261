package frontend_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/frontend"
)

type recordingChunks struct {
	mu    sync.Mutex
	seen  [][]byte
	fail  bool
}

func (r *recordingChunks) WriteClientChunk(_ string, payload []byte) error {
	if r.fail {
		return errors.New("no backend")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, payload)
	return nil
}

func (r *recordingChunks) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestFrontend_RelaysClientChunks(t *testing.T) {
	sessions := frontend.NewClientSessions()
	chunks := &recordingChunks{}
	fe := frontend.New(chunks, sessions, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve listener: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	go fe.Serve(ctx, addr)
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("failed to dial frontend: %v", err)
	}
	defer conn.Close()

	if _, err = conn.Write([]byte("hello")); err != nil {
		t.Fatalf("failed to write to frontend: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if chunks.count() > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected frontend to relay at least one chunk to the backend writer")
}

func TestFrontend_DropsClientWhenNoBackend(t *testing.T) {
	sessions := frontend.NewClientSessions()
	chunks := &recordingChunks{fail: true}
	fe := frontend.New(chunks, sessions, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve listener: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	go fe.Serve(ctx, addr)
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("failed to dial frontend: %v", err)
	}
	defer conn.Close()

	if _, err = conn.Write([]byte("x")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if sessions.Count() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected the client session to be dropped when no backend is available")
}
