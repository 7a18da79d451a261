package health_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/health"
)

func TestProbe_Success(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start listener: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	if !health.Probe(context.Background(), "127.0.0.1", addr.Port, 500*time.Millisecond) {
		t.Fatalf("expected probe against a listening port to succeed")
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	if health.Probe(context.Background(), "127.0.0.1", addr.Port, 500*time.Millisecond) {
		t.Fatalf("expected probe against a closed port to fail")
	}
}

func TestProbe_DeadlineExceeded(t *testing.T) {
	// 10.255.255.1 is a non-routable address commonly used to exercise
	// connect timeouts without depending on external network behavior.
	if health.Probe(context.Background(), "10.255.255.1", 81, 50*time.Millisecond) {
		t.Fatalf("expected probe to time out against an unreachable host")
	}
}
