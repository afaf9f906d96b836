// Package gpio drives the beacon status LED with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Indicator is a single on/off output line.
type Indicator interface {
	// Set drives the output: true = lit.
	Set(on bool) error

	// Close turns the output off and releases GPIO resources.
	Close() error
}

// Chip is the GPIO character device the LED line lives on.
const Chip = "gpiochip0"

// PinDisabled disables the LED when used as the configured pin.
const PinDisabled = -1
