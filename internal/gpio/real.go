//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPin drives a pin on actual hardware using the Linux GPIO character device.
type RealPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealPin requests the given line as a pulled-up input, the idle state of
// a DHT11 data line.
func NewRealPin(chipName string, pin int) (*RealPin, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pin %d: %w", pin, err)
	}

	return &RealPin{
		chip: chip,
		line: line,
	}, nil
}

// Input switches the pin to input mode with the pull-up enabled.
func (p *RealPin) Input() error {
	if err := p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return fmt.Errorf("reconfigure as input: %w", err)
	}
	return nil
}

// Output switches the pin to output mode driving the given level.
func (p *RealPin) Output(level bool) error {
	if err := p.line.Reconfigure(gpiocdev.AsOutput(levelToValue(level))); err != nil {
		return fmt.Errorf("reconfigure as output: %w", err)
	}
	return nil
}

// Write sets the output level.
func (p *RealPin) Write(level bool) error {
	if err := p.line.SetValue(levelToValue(level)); err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

// Read returns the current level of the line.
func (p *RealPin) Read() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	return v == 1, nil
}

// Close releases GPIO resources.
// Reconfigures the pin to input with pull-up (the sensor's idle line state)
// before closing so the sensor sees a released line across daemon restarts.
func (p *RealPin) Close() error {
	var errs []error

	if p.line != nil {
		if err := p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func levelToValue(level bool) int {
	if level {
		return 1
	}
	return 0
}
