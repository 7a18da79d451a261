package duration_test

import (
	"encoding/json"
	"testing"
	"time"

	libdur "github.com/n4rclss/classfabric/duration"
)

func TestParse_BareSecondsAndGoSyntax(t *testing.T) {
	d, err := libdur.Parse("5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Time() != 5*time.Second {
		t.Fatalf("expected 5s, got %s", d.Time())
	}

	d2, err := libdur.Parse("1.5s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d2.Time() != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %s", d2.Time())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := libdur.Parse("not-a-duration"); err == nil {
		t.Fatalf("expected an error for an invalid duration string")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	type cfg struct {
		Timeout libdur.Duration `json:"timeout"`
	}

	in := cfg{Timeout: libdur.Duration(2 * time.Second)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out cfg
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Timeout.Time() != 2*time.Second {
		t.Fatalf("expected 2s round-trip, got %s", out.Timeout.Time())
	}
}
