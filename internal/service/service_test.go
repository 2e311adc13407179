package service

import "testing"

func TestDispatchUnknownAction(t *testing.T) {
	if _, err := Dispatch("bogus"); err == nil {
		t.Error("Dispatch() error = nil, want an error for an unrecognized action")
	}
}
