package gpio

import "errors"

// FakePin is a test double implementing Pin. It returns scripted levels from
// GetValue and records what the code under test did to the pin, so consumers
// of the portable layer can be tested without hardware.
type FakePin struct {
	// Num is the pin number reported by Number.
	Num int

	// Levels contains scripted GetValue results. Each call consumes the
	// next level; when exhausted, the last level repeats.
	Levels []Level

	// index tracks the current position in Levels.
	index int

	// Written records every level passed to SetValue or DirectionOutput.
	Written []Level

	// Input is true after DirectionInput.
	Input bool

	// Closed tracks if Close was called.
	Closed bool

	// Err, if set, is returned by every operation.
	Err error
}

var _ Pin = (*FakePin)(nil)

// NewFakePin creates a FakePin with the given scripted levels.
func NewFakePin(num int, levels ...Level) *FakePin {
	return &FakePin{Num: num, Levels: levels}
}

// Number returns the pin number.
func (f *FakePin) Number() int { return f.Num }

// DirectionInput marks the pin as an input.
func (f *FakePin) DirectionInput() error {
	if f.Err != nil {
		return f.Err
	}
	f.Input = true
	return nil
}

// DirectionOutput marks the pin as an output and records the initial level.
func (f *FakePin) DirectionOutput(initial Level) error {
	if f.Err != nil {
		return f.Err
	}
	f.Input = false
	f.Written = append(f.Written, initial)
	return nil
}

// SetValue records the driven level.
func (f *FakePin) SetValue(l Level) error {
	if f.Err != nil {
		return f.Err
	}
	f.Written = append(f.Written, l)
	return nil
}

// GetValue returns the next scripted level.
func (f *FakePin) GetValue() (Level, error) {
	if f.Err != nil {
		return Low, f.Err
	}
	if len(f.Levels) == 0 {
		return Low, errors.New("no levels configured")
	}
	l := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return l, nil
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	if f.Err != nil {
		return f.Err
	}
	f.Closed = true
	return nil
}

// Reset rewinds the scripted levels and clears the recorded state.
func (f *FakePin) Reset() {
	f.index = 0
	f.Written = nil
	f.Input = false
	f.Closed = false
}
