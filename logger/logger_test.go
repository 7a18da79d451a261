package logger_test

import (
	"errors"
	"testing"

	liblog "github.com/n4rclss/classfabric/logger"
)

func TestGetLevelString_Defaults(t *testing.T) {
	if liblog.GetLevelString("bogus-level") != liblog.InfoLevel {
		t.Fatalf("expected unknown level strings to default to InfoLevel")
	}
	if liblog.GetLevelString("debug") != liblog.DebugLevel {
		t.Fatalf("expected debug to map to DebugLevel")
	}
}

func TestEntry_CheckDowngradesOnSuccess(t *testing.T) {
	log := liblog.New(liblog.DebugLevel)
	found := log.Entry(liblog.ErrorLevel, "no problem here").Check(liblog.NilLevel)
	if found {
		t.Fatalf("expected Check to report no error when none was added")
	}
}

func TestEntry_CheckKeepsLevelOnError(t *testing.T) {
	log := liblog.New(liblog.DebugLevel)
	found := log.Entry(liblog.ErrorLevel, "boom").ErrorAdd(true, errors.New("boom")).Check(liblog.NilLevel)
	if !found {
		t.Fatalf("expected Check to report an error was added")
	}
}

func TestDiscard_NeverPanics(t *testing.T) {
	log := liblog.Discard()
	log.Entry(liblog.InfoLevel, "anything").Log()
}
