// Package dht implements the DHT11 single-wire protocol: a bit-banged
// pulse-timing decoder that issues the start handshake, measures 80
// alternating low/high pulses on one GPIO line by busy-polling, converts
// relative pulse widths into 40 bits, and validates the 5-byte frame with a
// checksum.
//
// The sensor self-clocks the wire, so timing is everything: the capture
// section runs with the goroutine pinned to its OS thread and the garbage
// collector disabled, and every pulse wait is bounded by a cycle budget so
// a disconnected sensor cannot hang the process.
package dht

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/shanefarris/dht-sensor/internal/gpio"
)

// Error kinds reported by the decoder. All are recoverable: a failed sample
// leaves the previous frame in place and the caller decides whether to
// retry or surface the failure.
var (
	// ErrPulseTimeout means an expected pulse never arrived within the
	// cycle budget. A physically disconnected sensor and a single glitched
	// pulse both surface this way; the protocol cannot tell them apart.
	ErrPulseTimeout = errors.New("dht: timeout waiting for pulse")

	// ErrChecksum means a full frame was captured but its checksum byte
	// did not match the sum of the four data bytes.
	ErrChecksum = errors.New("dht: checksum mismatch")

	// ErrRetriesExhausted means ReadRetry gave up after its attempt cap.
	ErrRetriesExhausted = errors.New("dht: retries exhausted")
)

const (
	// minReadInterval is the sensor's minimum re-sample interval. Sample
	// calls within this window return the cached result without touching
	// the hardware.
	minReadInterval = 2 * time.Second

	// settleDelay releases the line to the pull-up before a read so any
	// previous sensor-driven state can drain.
	settleDelay = 250 * time.Millisecond

	// startLowDelay is how long the host holds the line low to wake the
	// sensor.
	startLowDelay = 20 * time.Millisecond

	// startHighDelay is the high handshake that ends the start signal.
	startHighDelay = 40 * time.Microsecond

	// responseDelay gives the sensor time to pull the line low after the
	// host releases it.
	responseDelay = 10 * time.Microsecond

	// pulseCount is the number of pulses captured per frame: 40 bits, each
	// a low pulse followed by a high pulse.
	pulseCount = 80

	// frameSize is the DHT11 frame: humidity int, humidity frac,
	// temperature int, temperature frac, checksum.
	frameSize = 5

	retryAttempts = 10
	retryDelay    = 100 * time.Millisecond
)

// Options configures a Decoder. The zero value gives production behavior.
type Options struct {
	// MaxCycles bounds how many polling iterations a single pulse wait may
	// spend before giving up. Zero means calibrate roughly one millisecond
	// of busy polling at construction.
	MaxCycles uint32

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Sleep blocks for the given duration. Defaults to time.Sleep.
	Sleep func(time.Duration)

	// Logf, if set, receives trace output (raw frame bytes and computed
	// checksum). Nil disables tracing.
	Logf func(format string, args ...any)
}

// Decoder owns the sensor's data pin and runs the wire protocol. It caches
// the last decoded frame to satisfy the sensor's minimum re-sample interval.
//
// A Decoder is not safe for concurrent use: the protocol owns the one
// physical line, so callers must serialize access themselves.
type Decoder struct {
	pin       gpio.Pin
	maxCycles uint32

	now   func() time.Time
	sleep func(time.Duration)
	logf  func(format string, args ...any)

	lastRead time.Time
	lastErr  error
	frame    [frameSize]byte
	stats    Stats
}

// Stats counts real protocol attempts by outcome. Sample calls served from
// the cache do not count.
type Stats struct {
	Attempts  uint64
	Successes uint64
	Timeouts  uint64
	Checksums uint64
}

// NewDecoder creates a Decoder on the given pin and releases the line so
// the sensor is ready for the first read.
func NewDecoder(pin gpio.Pin, opts Options) (*Decoder, error) {
	d := &Decoder{
		pin:       pin,
		maxCycles: opts.MaxCycles,
		now:       opts.Now,
		sleep:     opts.Sleep,
		logf:      opts.Logf,
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.maxCycles == 0 {
		d.maxCycles = calibrateCycles()
	}
	d.lastErr = fmt.Errorf("%w: no sample taken yet", ErrPulseTimeout)

	if err := pin.Input(); err != nil {
		return nil, fmt.Errorf("release line: %w", err)
	}

	// Backdate the last read far enough that the first Sample call always
	// performs a real hardware read.
	d.lastRead = d.now().Add(-minReadInterval)

	if d.logf != nil {
		d.logf("dht: pulse timeout budget %d cycles", d.maxCycles)
	}
	return d, nil
}

// Temperature returns the temperature in degrees Celsius from the last
// successfully decoded frame. The value is stale until a Sample or
// ReadRetry call has succeeded.
func (d *Decoder) Temperature() float64 {
	return float64(d.frame[2])
}

// Humidity returns the relative humidity in percent from the last
// successfully decoded frame. The value is stale until a Sample or
// ReadRetry call has succeeded.
func (d *Decoder) Humidity() float64 {
	return float64(d.frame[0])
}

// Frame returns a copy of the last successfully decoded frame.
func (d *Decoder) Frame() [frameSize]byte {
	return d.frame
}

// Sample obtains a valid frame, fresh or cached. If the previous hardware
// read was less than two seconds ago the cached outcome is returned without
// touching the sensor; otherwise the full wire protocol runs. On failure
// the previous frame is left in place.
func (d *Decoder) Sample() error {
	if d.now().Sub(d.lastRead) < minReadInterval {
		return d.lastErr
	}

	// The timestamp advances whether or not the attempt succeeds, so a
	// failing sensor is still only stressed once per interval.
	d.lastRead = d.now()
	d.stats.Attempts++

	frame, err := d.read()
	d.lastErr = err
	if err != nil {
		switch {
		case errors.Is(err, ErrChecksum):
			d.stats.Checksums++
		case errors.Is(err, ErrPulseTimeout):
			d.stats.Timeouts++
		}
		return err
	}
	d.stats.Successes++
	d.frame = frame
	return nil
}

// Stats returns attempt counters for diagnostics.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// ReadRetry samples until a valid frame is obtained, waiting 100ms between
// attempts, up to 10 attempts. It returns the decoded humidity and
// temperature (Celsius) on success, or ErrRetriesExhausted wrapping the
// last failure. The internal two-second rate limit means early attempts may
// return the cached failure; the retry loop is what gives callers a
// bounded-latency fresh answer.
func (d *Decoder) ReadRetry() (humidity, temperature float64, err error) {
	for i := 0; i < retryAttempts; i++ {
		if err = d.Sample(); err == nil {
			return d.Humidity(), d.Temperature(), nil
		}
		d.sleep(retryDelay)
	}
	return 0, 0, fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, retryAttempts, err)
}

// read runs one full protocol attempt and returns the decoded frame.
func (d *Decoder) read() ([frameSize]byte, error) {
	var frame [frameSize]byte

	// Release the line and let the pull-up raise it so the sensor sees a
	// clean idle state.
	if err := d.pin.Input(); err != nil {
		return frame, fmt.Errorf("release line: %w", err)
	}
	d.sleep(settleDelay)

	// Start signal: hold the line low long enough to wake the sensor.
	if err := d.pin.Output(false); err != nil {
		return frame, fmt.Errorf("drive line low: %w", err)
	}
	d.sleep(startLowDelay)

	var cycles [pulseCount]uint32
	if err := d.capture(&cycles); err != nil {
		return frame, err
	}

	frame, err := decodeFrame(&cycles)
	if err != nil {
		return frame, err
	}

	sum := byte(frame[0] + frame[1] + frame[2] + frame[3])
	if d.logf != nil {
		d.logf("dht: frame % x, computed checksum %02x", frame[:], sum)
	}
	if frame[4] != sum {
		return frame, fmt.Errorf("%w: frame % x, want %02x", ErrChecksum, frame[:], sum)
	}
	return frame, nil
}

// capture finishes the start handshake and records the width of all 80
// pulses of the frame. This is the timing-critical section: the goroutine
// is pinned to its OS thread and the garbage collector is disabled for its
// whole duration, restored on every exit path. Decoding happens afterwards
// to keep this window as short as possible.
func (d *Decoder) capture(cycles *[pulseCount]uint32) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	// End the start signal with a short high pulse, then hand the line
	// back to the sensor.
	if err := d.pin.Write(true); err != nil {
		return fmt.Errorf("end start signal: %w", err)
	}
	d.sleep(startHighDelay)
	if err := d.pin.Input(); err != nil {
		return fmt.Errorf("release line: %w", err)
	}
	d.sleep(responseDelay)

	// The sensor acknowledges with ~80us low then ~80us high.
	if d.expectPulse(false) == 0 {
		return fmt.Errorf("%w: acknowledgement low pulse", ErrPulseTimeout)
	}
	if d.expectPulse(true) == 0 {
		return fmt.Errorf("%w: acknowledgement high pulse", ErrPulseTimeout)
	}

	// 40 bits, each a fixed-width low pulse followed by a high pulse whose
	// relative width encodes the bit. Raw counts only here; comparisons
	// wait until the critical section is over.
	for i := 0; i < pulseCount; i += 2 {
		cycles[i] = d.expectPulse(false)
		cycles[i+1] = d.expectPulse(true)
	}
	return nil
}

// expectPulse busy-polls the pin while it holds the given level and returns
// the number of polling iterations spent there. It returns 0 if the level
// does not change within the cycle budget, bounding each wait to roughly a
// millisecond; 0 is reserved as the failure sentinel. Counts are only ever
// compared against each other, never against absolute time, which makes
// the decoder self-calibrating across processor speeds.
func (d *Decoder) expectPulse(level bool) uint32 {
	var count uint32
	for {
		v, err := d.pin.Read()
		if err != nil {
			return 0
		}
		if v != level {
			return count
		}
		count++
		if count >= d.maxCycles {
			return 0
		}
	}
}

// decodeFrame turns 40 pulse pairs into 5 bytes, MSB first. A zero sentinel
// in either pulse of a pair fails the whole frame: there is no partial
// recovery from a dropped pulse.
func decodeFrame(cycles *[pulseCount]uint32) ([frameSize]byte, error) {
	var frame [frameSize]byte
	for i := 0; i < pulseCount/2; i++ {
		low := cycles[2*i]
		high := cycles[2*i+1]
		if low == 0 || high == 0 {
			return frame, fmt.Errorf("%w: bit %d", ErrPulseTimeout, i)
		}
		frame[i/8] <<= 1
		if high > low {
			frame[i/8] |= 1
		}
	}
	return frame, nil
}

// calibrateCycles measures how many iterations of a tight polling loop fit
// in one millisecond on this host. A real pulse wait also pays for a GPIO
// read per iteration, so the budget errs toward a longer timeout, never a
// shorter one.
func calibrateCycles() uint32 {
	start := time.Now()
	var count uint32
	for time.Since(start) < time.Millisecond {
		count++
	}
	if count == 0 {
		count = 1
	}
	return count
}
