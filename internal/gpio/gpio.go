// Package gpio provides single-pin bidirectional GPIO access with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Pin is a single bidirectional digital pin. The DHT11 wire protocol needs
// exactly three primitives: switch direction, write a level, read a level.
type Pin interface {
	// Input switches the pin to high-impedance input with the pull-up
	// enabled, handing the line back to the sensor.
	Input() error

	// Output switches the pin to output mode driving the given level.
	Output(level bool) error

	// Write sets the output level. The pin must be in output mode.
	Write(level bool) error

	// Read returns the current level of the line.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Defaults for Raspberry Pi wiring (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 4 // DHT11 data line
)
