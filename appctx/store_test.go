package appctx_test

import (
	"context"
	"testing"

	"github.com/n4rclss/classfabric/appctx"
)

func TestStore_LoadStoreDelete(t *testing.T) {
	s := appctx.New[string](context.Background())

	if _, ok := s.Load("missing"); ok {
		t.Fatalf("expected missing key to be absent")
	}

	s.Store("a", 1)
	v, ok := s.Load("a")
	if !ok || v.(int) != 1 {
		t.Fatalf("expected to load stored value, got %v ok=%v", v, ok)
	}

	s.Store("a", nil)
	if _, ok := s.Load("a"); ok {
		t.Fatalf("expected storing nil to delete the key")
	}
}

func TestStore_Walk(t *testing.T) {
	s := appctx.New[string](context.Background())
	s.Store("a", 1)
	s.Store("b", 2)

	seen := map[string]interface{}{}
	s.Walk(func(key string, val interface{}) bool {
		seen[key] = val
		return true
	})

	if len(seen) != 2 {
		t.Fatalf("expected 2 entries walked, got %d", len(seen))
	}
}

func TestStore_CancelClosesDone(t *testing.T) {
	s := appctx.New[string](context.Background())
	s.Cancel()

	select {
	case <-s.Done():
	default:
		t.Fatalf("expected Done() to be closed after Cancel()")
	}
}
