package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

func TestGuessDatetimeAcrossMidnightForward(t *testing.T) {
	reference := time.Date(2023, 2, 18, 23, 50, 0, 0, time.UTC)
	ts := aprs.HHMMSS(0, 10, 30)

	got, ok := GuessDatetime(ts, reference)
	if !ok {
		t.Fatal("GuessDatetime returned ok=false, want true")
	}
	want := time.Date(2023, 2, 19, 0, 10, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("GuessDatetime() = %v, want %v", got, want)
	}
}

func TestGuessDatetimeAcrossMidnightBackward(t *testing.T) {
	reference := time.Date(2023, 2, 19, 0, 5, 0, 0, time.UTC)
	ts := aprs.HHMMSS(23, 45, 30)

	got, ok := GuessDatetime(ts, reference)
	if !ok {
		t.Fatal("GuessDatetime returned ok=false, want true")
	}
	want := time.Date(2023, 2, 18, 23, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("GuessDatetime() = %v, want %v", got, want)
	}
}

func TestGuessDatetimeSameDay(t *testing.T) {
	reference := time.Date(2023, 2, 18, 12, 0, 10, 0, time.UTC)
	ts := aprs.HHMMSS(12, 0, 0)

	got, ok := GuessDatetime(ts, reference)
	if !ok {
		t.Fatal("GuessDatetime returned ok=false, want true")
	}
	want := time.Date(2023, 2, 18, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("GuessDatetime() = %v, want %v", got, want)
	}
}

func TestGuessDatetimeTooAmbiguous(t *testing.T) {
	reference := time.Date(2023, 2, 18, 12, 0, 0, 0, time.UTC)
	ts := aprs.HHMMSS(18, 0, 0)

	if _, ok := GuessDatetime(ts, reference); ok {
		t.Error("GuessDatetime returned ok=true for a 6h-away timestamp, want false")
	}
}

func TestGuessDatetimeDDHHMMUnimplemented(t *testing.T) {
	reference := time.Now()
	ts := aprs.DDHHMM(18, 12, 0)

	if _, ok := GuessDatetime(ts, reference); ok {
		t.Error("GuessDatetime returned ok=true for a DDHHMM timestamp, want false")
	}
}

func TestReconstructMissingTimestamp(t *testing.T) {
	_, ok, err := Reconstruct(nil, time.Now())
	if ok {
		t.Error("Reconstruct returned ok=true for a nil timestamp")
	}
	if !errors.Is(err, ErrMissingTimestamp) {
		t.Errorf("err = %v, want ErrMissingTimestamp", err)
	}
}
