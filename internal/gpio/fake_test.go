package gpio

import (
	"errors"
	"testing"
)

func TestFakePinPlaysScript(t *testing.T) {
	f := NewFakePin([]Run{
		{Level: false, Polls: 2},
		{Level: true, Polls: 3},
	})

	want := []bool{false, false, true, true, true}
	for i, w := range want {
		v, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if v != w {
			t.Errorf("read %d: expected %v, got %v", i, w, v)
		}
	}
}

func TestFakePinIdleAfterScript(t *testing.T) {
	f := NewFakePin([]Run{{Level: false, Polls: 1}})

	if v, _ := f.Read(); v != false {
		t.Errorf("expected scripted false, got %v", v)
	}

	// Script exhausted: line holds Idle (default true) forever.
	for i := 0; i < 10; i++ {
		v, err := f.Read()
		if err != nil {
			t.Fatalf("idle read %d: unexpected error: %v", i, err)
		}
		if v != true {
			t.Errorf("idle read %d: expected true, got %v", i, v)
		}
	}
}

func TestFakePinIdleLow(t *testing.T) {
	f := NewFakePin(nil)
	f.Idle = false

	if v, _ := f.Read(); v != false {
		t.Error("expected idle-low pin to read false")
	}
}

func TestFakePinCounters(t *testing.T) {
	f := NewFakePin(nil)

	f.Input()
	f.Output(false)
	f.Write(true)
	f.Read()
	f.Read()

	if f.Inputs != 1 {
		t.Errorf("expected 1 input switch, got %d", f.Inputs)
	}
	if f.Outputs != 1 {
		t.Errorf("expected 1 output switch, got %d", f.Outputs)
	}
	if f.Writes != 1 {
		t.Errorf("expected 1 write, got %d", f.Writes)
	}
	if f.Reads != 2 {
		t.Errorf("expected 2 reads, got %d", f.Reads)
	}
}

func TestFakePinReadError(t *testing.T) {
	f := NewFakePin([]Run{{Level: true, Polls: 5}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakePinClose(t *testing.T) {
	f := NewFakePin(nil)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close")
	}
}

func TestFakePinReset(t *testing.T) {
	f := NewFakePin([]Run{{Level: false, Polls: 1}, {Level: true, Polls: 1}})

	f.Read()
	f.Read()
	f.Input()
	f.Reset()

	if f.Reads != 0 || f.Inputs != 0 {
		t.Error("Reset should clear counters")
	}
	if v, _ := f.Read(); v != false {
		t.Error("Reset should rewind the script")
	}
}

func TestDHTWaveformShape(t *testing.T) {
	frame := [5]byte{0x55, 0x00, 0x17, 0x00, 0x6C}
	runs := DHTWaveform(frame)

	// 2 acknowledgement runs + 80 bit runs + 1 trailing release
	if len(runs) != 2+80+1 {
		t.Fatalf("expected 83 runs, got %d", len(runs))
	}
	if runs[0].Level != false || runs[1].Level != true {
		t.Error("waveform must start with low then high acknowledgement")
	}

	// Bit runs alternate low/high.
	for i := 2; i < len(runs)-1; i += 2 {
		if runs[i].Level != false {
			t.Fatalf("run %d: expected bit low pulse", i)
		}
		if runs[i+1].Level != true {
			t.Fatalf("run %d: expected bit high pulse", i+1)
		}
	}

	// 0x55 = 01010101: high pulses alternate narrow/wide.
	for bit := 0; bit < 8; bit++ {
		high := runs[2+2*bit+1]
		wantWide := bit%2 == 1
		isWide := high.Polls > runs[2+2*bit].Polls
		if isWide != wantWide {
			t.Errorf("bit %d of 0x55: wide=%v, want %v", bit, isWide, wantWide)
		}
	}
}
