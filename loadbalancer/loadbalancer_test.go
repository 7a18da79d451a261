package loadbalancer_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/loadbalancer"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestLB_StartAcceptsClientsThenStops(t *testing.T) {
	dir := t.TempDir()
	serversPath := filepath.Join(dir, "servers.json")
	if err := os.WriteFile(serversPath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to seed servers file: %v", err)
	}

	cfg := loadbalancer.DefaultConfig()
	cfg.ListenAddr = freeAddr(t)
	cfg.ServersFile = serversPath

	lb := loadbalancer.New(cfg, nil)
	if err := lb.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer lb.Stop(context.Background())

	if !lb.IsRunning() {
		t.Fatalf("expected the load balancer to report running after Start")
	}

	conn, err := net.DialTimeout("tcp", cfg.ListenAddr, time.Second)
	if err != nil {
		t.Fatalf("expected to dial the running load balancer: %v", err)
	}
	conn.Close()

	if err = lb.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
}

func TestLB_ZeroBackendsDropsClientAfterFirstRead(t *testing.T) {
	dir := t.TempDir()
	serversPath := filepath.Join(dir, "servers.json")
	if err := os.WriteFile(serversPath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to seed servers file: %v", err)
	}

	cfg := loadbalancer.DefaultConfig()
	cfg.ListenAddr = freeAddr(t)
	cfg.ServersFile = serversPath

	lb := loadbalancer.New(cfg, nil)
	if err := lb.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer lb.Stop(context.Background())

	conn, err := net.DialTimeout("tcp", cfg.ListenAddr, time.Second)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	if _, err = conn.Write([]byte("ping")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	if err == nil {
		t.Fatalf("expected the connection to be dropped when no backend is available")
	}
}
