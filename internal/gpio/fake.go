package gpio

// Run is one segment of a scripted waveform: the line holds Level for Polls
// consecutive Read calls.
type Run struct {
	Level bool
	Polls int
}

// FakePin is a test double that plays back a scripted waveform.
// Each Read consumes one poll from the current run; once the script is
// exhausted the line holds Idle forever, which lets tests simulate a stuck
// or disconnected sensor.
type FakePin struct {
	// Script is the waveform to play back, one poll at a time.
	Script []Run

	// Idle is the level returned after the script is exhausted.
	// Defaults to true (pull-up holds the line high).
	Idle bool

	// Call counters for assertions.
	Inputs  int
	Outputs int
	Writes  int
	Reads   int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by Read().
	ReadError error

	pos      int // current run
	consumed int // polls consumed from current run
}

// NewFakePin creates a FakePin playing the given waveform.
func NewFakePin(script []Run) *FakePin {
	return &FakePin{Script: script, Idle: true}
}

// Input records the mode switch.
func (f *FakePin) Input() error {
	f.Inputs++
	return nil
}

// Output records the mode switch.
func (f *FakePin) Output(level bool) error {
	f.Outputs++
	return nil
}

// Write records the level write.
func (f *FakePin) Write(level bool) error {
	f.Writes++
	return nil
}

// Read returns the next poll of the scripted waveform.
func (f *FakePin) Read() (bool, error) {
	f.Reads++
	if f.ReadError != nil {
		return false, f.ReadError
	}

	for f.pos < len(f.Script) {
		r := f.Script[f.pos]
		if f.consumed < r.Polls {
			f.consumed++
			return r.Level, nil
		}
		f.pos++
		f.consumed = 0
	}
	return f.Idle, nil
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the waveform and clears counters.
func (f *FakePin) Reset() {
	f.pos = 0
	f.consumed = 0
	f.Inputs = 0
	f.Outputs = 0
	f.Writes = 0
	f.Reads = 0
	f.Closed = false
	f.ReadError = nil
}

// Poll widths for DHTWaveform, in Read calls. Only the relative widths of
// bitLow vs bitHigh0/bitHigh1 matter to the decoder.
const (
	ackPolls    = 8
	bitLowPolls = 6
	bit0Polls   = 3
	bit1Polls   = 9
)

// DHTWaveform builds the waveform a DHT11 sends for the given 5-byte frame:
// the two acknowledgement pulses, then 40 bit pairs (fixed-width low pulse
// followed by a high pulse whose width encodes the bit, MSB first), then a
// final release low.
func DHTWaveform(frame [5]byte) []Run {
	runs := []Run{
		{Level: false, Polls: ackPolls},
		{Level: true, Polls: ackPolls},
	}
	for _, b := range frame {
		for bit := 7; bit >= 0; bit-- {
			runs = append(runs, Run{Level: false, Polls: bitLowPolls})
			if b&(1<<uint(bit)) != 0 {
				runs = append(runs, Run{Level: true, Polls: bit1Polls})
			} else {
				runs = append(runs, Run{Level: true, Polls: bit0Polls})
			}
		}
	}
	runs = append(runs, Run{Level: false, Polls: 4})
	return runs
}
