package clientdir_test

import (
	"sync"
	"testing"

	"github.com/n4rclss/classfabric/clientdir"
)

func openTestStore(t *testing.T) clientdir.Store {
	t.Helper()
	s, err := clientdir.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	return s
}

func TestRegister_RoundTripsBothDirections(t *testing.T) {
	s := openTestStore(t)

	if err := s.Register("stu1", "c1"); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	cid, ok, err := s.LookupClientID("stu1")
	if err != nil || !ok || cid != "c1" {
		t.Fatalf("expected lookup_client_id(stu1) = c1, got %q ok=%v err=%v", cid, ok, err)
	}

	uname, ok, err := s.LookupUsername("c1")
	if err != nil || !ok || uname != "stu1" {
		t.Fatalf("expected lookup_username(c1) = stu1, got %q ok=%v err=%v", uname, ok, err)
	}
}

func TestRegister_EvictsPriorOwnerOfSameClientID(t *testing.T) {
	s := openTestStore(t)

	if err := s.Register("u1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Register("u2", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uname, ok, err := s.LookupUsername("c1")
	if err != nil || !ok || uname != "u2" {
		t.Fatalf("expected lookup_username(c1) = u2 after eviction, got %q ok=%v err=%v", uname, ok, err)
	}

	_, ok, err = s.LookupClientID("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected u1's registration to be evicted")
	}
}

func TestUnregisterByUsername_Idempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Register("u1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnregisterByUsername("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnregisterByUsername("u1"); err != nil {
		t.Fatalf("expected a second unregister to be a no-op, got: %v", err)
	}

	_, ok, err := s.LookupClientID("u1")
	if err != nil || ok {
		t.Fatalf("expected u1 to be fully unregistered")
	}
}

func TestUnregisterByClientID_Idempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Register("u1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnregisterByClientID("c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnregisterByClientID("c1"); err != nil {
		t.Fatalf("expected a second unregister to be a no-op, got: %v", err)
	}
}

func TestConcurrentRegister_SameClientID_LastWriterWinsOnClientID(t *testing.T) {
	s := openTestStore(t)

	var wg sync.WaitGroup
	for _, u := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			_ = s.Register(u, "shared-c")
		}(u)
	}
	wg.Wait()

	uname, ok, err := s.LookupUsername("shared-c")
	if err != nil || !ok {
		t.Fatalf("expected exactly one owner of shared-c, got ok=%v err=%v", ok, err)
	}
	if uname != "u1" && uname != "u2" {
		t.Fatalf("unexpected owner %q", uname)
	}
}
