// Package gpio is the portable GPIO layer. It defines the logical pin level
// and the contract every platform backend satisfies. The Linux sysfs backend
// lives in the gpiosysfs subpackage.
package gpio

// Level is the logical state of a GPIO line.
type Level uint8

// Available levels. Any non-zero Level drives the line high.
const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == Low {
		return "low"
	}
	return "high"
}

// Pin is one acquired GPIO line. A Pin is valid from the moment the backend
// constructor returns it until Close. Pins are not safe for concurrent use.
type Pin interface {
	// Number returns the kernel GPIO number of the pin.
	Number() int
	// DirectionInput configures the pin as an input.
	DirectionInput() error
	// DirectionOutput configures the pin as an output driving initial.
	DirectionOutput(initial Level) error
	// SetValue drives the output level of the pin.
	SetValue(Level) error
	// GetValue reads the current level of the pin.
	GetValue() (Level, error)
	// Close releases the pin and the platform resources backing it.
	Close() error
}
