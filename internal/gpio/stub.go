//go:build !linux

package gpio

import "errors"

// RealPin is not available on non-Linux platforms.
type RealPin struct{}

// NewRealPin returns an error on non-Linux platforms.
func NewRealPin(chipName string, pin int) (*RealPin, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Input is not implemented on non-Linux platforms.
func (p *RealPin) Input() error {
	return errors.New("gpio: not supported")
}

// Output is not implemented on non-Linux platforms.
func (p *RealPin) Output(level bool) error {
	return errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms.
func (p *RealPin) Write(level bool) error {
	return errors.New("gpio: not supported")
}

// Read is not implemented on non-Linux platforms.
func (p *RealPin) Read() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPin) Close() error {
	return nil
}
