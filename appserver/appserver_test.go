package appserver_test

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/n4rclss/classfabric/appserver"
	"github.com/n4rclss/classfabric/envelope"
	"github.com/n4rclss/classfabric/handlers"
	"github.com/n4rclss/classfabric/protocol"
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

func TestServer_StartAcceptsConnectionDispatchesLogin(t *testing.T) {
	cfg := appserver.DefaultConfig()
	cfg.ListenAddr = freeAddr(t)
	cfg.DBDSN = filepath.Join(t.TempDir(), "dir.sqlite3")

	mem := handlers.NewMemoryStore()
	srv, err := appserver.New(cfg, mem, mem, nil)
	if err != nil {
		t.Fatalf("unexpected error building server: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer srv.Stop(context.Background())

	if !srv.IsRunning() {
		t.Fatalf("expected server to report running after Start")
	}

	conn, err := net.DialTimeout("tcp", cfg.ListenAddr, time.Second)
	if err != nil {
		t.Fatalf("expected to dial the running server: %v", err)
	}
	defer conn.Close()

	framer := envelope.NewFramer(0)
	req, _ := json.Marshal(protocol.Login{Type: protocol.TypeLogin, Username: "student1", Password: "stu456", Role: "student"})
	frame, err := framer.Encode("c1", req)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if _, err = conn.Write(frame); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	cid, payload, err := framer.Decode(conn)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if cid != "c1" {
		t.Fatalf("expected response addressed to c1, got %q", cid)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unexpected json error: %v", err)
	}
	if body["status"] != "success" || body["message"] != "Login successful" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestServer_StopClosesListener(t *testing.T) {
	cfg := appserver.DefaultConfig()
	cfg.ListenAddr = freeAddr(t)
	cfg.DBDSN = filepath.Join(t.TempDir(), "dir.sqlite3")

	mem := handlers.NewMemoryStore()
	srv, err := appserver.New(cfg, mem, mem, nil)
	if err != nil {
		t.Fatalf("unexpected error building server: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	if _, err := net.DialTimeout("tcp", cfg.ListenAddr, 500*time.Millisecond); err == nil {
		t.Fatalf("expected dial to fail after server stopped")
	}
}
