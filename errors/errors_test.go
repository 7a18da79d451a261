package errors_test

import (
	"testing"

	liberr "github.com/n4rclss/classfabric/errors"
)

var errSample = liberr.Register(1001, "sample failure")

func TestNew_MessageAndCode(t *testing.T) {
	e := liberr.New(errSample, "sample failure")
	if e.GetCode() != errSample {
		t.Fatalf("expected code %d, got %d", errSample, e.GetCode())
	}
	if e.Error() != "sample failure" {
		t.Fatalf("unexpected message: %s", e.Error())
	}
}

func TestHasCode_WalksParents(t *testing.T) {
	root := liberr.New(errSample, "root cause")
	wrapped := liberr.New(2002, "wrapped", root)

	if !wrapped.HasCode(errSample) {
		t.Fatalf("expected wrapped error to have parent code %d", errSample)
	}
	if wrapped.IsCode(errSample) {
		t.Fatalf("IsCode must not walk parents")
	}
}

func TestAdd_IgnoresNil(t *testing.T) {
	e := liberr.New(errSample, "base")
	e.Add(nil, nil)
	if e.HasParent() {
		t.Fatalf("expected no parents after adding only nils")
	}
}

func TestIsAndGet(t *testing.T) {
	e := liberr.New(errSample, "base")
	var err error = e

	if !liberr.Is(err) {
		t.Fatalf("expected Is to recognize package Error")
	}
	if liberr.Get(err) == nil {
		t.Fatalf("expected Get to return the Error")
	}
	if !liberr.Has(err, errSample) {
		t.Fatalf("expected Has to find the code")
	}
}

func TestCodeError_Error(t *testing.T) {
	e := errSample.Error()
	if e.GetCode() != errSample {
		t.Fatalf("expected code %d, got %d", errSample, e.GetCode())
	}
	if e.Error() != "sample failure" {
		t.Fatalf("unexpected registered message: %s", e.Error())
	}
}
