package gpiosysfs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/ChiuTommy/no-OS/gpio"
)

const defaultRoot = "/sys/class/gpio"

// Diagnostic categories, one per failing system call kind.
const (
	diagCannotOpen  = "cannot open device"
	diagCannotWrite = "cannot write to file"
	diagCannotRead  = "cannot read from file"
	diagCannotClose = "cannot close device"
)

type config struct {
	root string
	log  logrus.FieldLogger
}

// Option configures the backend.
type Option func(*config)

// WithRoot points the backend at an alternate sysfs GPIO class directory.
// The default is /sys/class/gpio; tests and gpio-mockup setups use other
// trees.
func WithRoot(dir string) Option {
	return func(c *config) { c.root = dir }
}

// WithLogger sets the sink for diagnostics. The default is the logrus
// standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

func newConfig(opts []Option) config {
	cfg := config{root: defaultRoot, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func (c *config) diag(op, what string, err error) {
	c.log.WithField("op", op).Errorf("%s: %v", what, err)
}

// Pin is an exported GPIO pin with its direction and value attribute files
// kept open. A Pin is valid from Open until Close and is not safe for
// concurrent use.
type Pin struct {
	n   int
	cfg config

	direction *attrFile
	value     *attrFile
}

var _ gpio.Pin = (*Pin)(nil)

// Open exports the GPIO pin #n and opens its attribute files.
//
// The steps are ordered: write the decimal pin number to the export file,
// open the direction attribute for writing, then open the value attribute
// read-write (get and set share the slot). If an attribute open fails after
// the export succeeded, a best-effort unexport reverts the export before the
// error is returned. Whether the export actually took effect is not verified
// beyond the attribute opens themselves.
//
// Callers keep at most one Pin per number: opening a pin that is already
// open within the process is undefined.
func Open(n int, opts ...Option) (*Pin, error) {
	cfg := newConfig(opts)
	if n < 0 {
		return nil, fmt.Errorf("failed to open pin #%v: negative pin number", n)
	}

	if err := writeExisting(&cfg, "open pin", filepath.Join(cfg.root, "export"), strconv.Itoa(n)); err != nil {
		return nil, fmt.Errorf("failed to open pin #%v: %w", n, err)
	}

	pin := &Pin{n: n, cfg: cfg}
	dir := filepath.Join(cfg.root, fmt.Sprintf("gpio%d", n))

	var err error
	pin.direction, err = openAttr(filepath.Join(dir, "direction"), unix.O_WRONLY)
	if err != nil {
		cfg.diag("open pin", diagCannotOpen, err)
		pin.unexport()
		return nil, fmt.Errorf("failed to open pin #%v: %w", n, err)
	}

	pin.value, err = openAttr(filepath.Join(dir, "value"), unix.O_RDWR)
	if err != nil {
		cfg.diag("open pin", diagCannotOpen, err)
		if cerr := pin.direction.Close(); cerr != nil {
			cfg.diag("open pin", diagCannotClose, cerr)
		}
		pin.unexport()
		return nil, fmt.Errorf("failed to open pin #%v: %w", n, err)
	}

	return pin, nil
}

// OpenOptional opens the GPIO pin #n like Open but never reports an error:
// a pin the kernel refuses is simply absent. The returned pin is nil when
// the open failed; the failure itself still reaches the diagnostic sink.
func OpenOptional(n int, opts ...Option) *Pin {
	pin, err := Open(n, opts...)
	if err != nil {
		return nil
	}
	return pin
}

// unexport reverts the export side effect while Open unwinds. Best effort:
// writeExisting reports any failure, nothing more can be done with it.
func (pin *Pin) unexport() {
	_ = writeExisting(&pin.cfg, "open pin", filepath.Join(pin.cfg.root, "unexport"), strconv.Itoa(pin.n))
}

// Number returns the kernel GPIO number of the pin.
func (pin *Pin) Number() int {
	return pin.n
}

// Close closes the attribute files and unexports the pin. The first failing
// step aborts: a failed Close may leave the pin exported, in whatever state
// the completed steps produced.
func (pin *Pin) Close() error {
	if err := pin.direction.Close(); err != nil {
		pin.cfg.diag("close pin", diagCannotClose, err)
		return wrapPinError(pin, "close", err)
	}
	if err := pin.value.Close(); err != nil {
		pin.cfg.diag("close pin", diagCannotClose, err)
		return wrapPinError(pin, "close", err)
	}
	if err := writeExisting(&pin.cfg, "close pin", filepath.Join(pin.cfg.root, "unexport"), strconv.Itoa(pin.n)); err != nil {
		return wrapPinError(pin, "close", err)
	}
	return nil
}

// The direction parser in the kernel takes either a length-delimited or a
// NUL-terminated token; writing the terminating NUL is a safe superset.
var (
	dirIn   = []byte("in\x00")
	dirOut  = []byte("out\x00")
	valLow  = []byte("0\x00")
	valHigh = []byte("1\x00")
)

// DirectionInput configures the pin as an input.
func (pin *Pin) DirectionInput() error {
	if _, err := pin.direction.WriteAt0(dirIn); err != nil {
		pin.cfg.diag("direction input", diagCannotWrite, err)
		return wrapPinError(pin, "set direction", err)
	}
	return nil
}

// DirectionOutput configures the pin as an output, then drives the initial
// level.
func (pin *Pin) DirectionOutput(initial gpio.Level) error {
	if _, err := pin.direction.WriteAt0(dirOut); err != nil {
		pin.cfg.diag("direction output", diagCannotWrite, err)
		return wrapPinError(pin, "set direction", err)
	}
	return pin.SetValue(initial)
}

// SetValue drives the output level of the pin.
func (pin *Pin) SetValue(l gpio.Level) error {
	b := valHigh
	if l == gpio.Low {
		b = valLow
	}
	if _, err := pin.value.WriteAt0(b); err != nil {
		pin.cfg.diag("set value", diagCannotWrite, err)
		return wrapPinError(pin, "set value", err)
	}
	return nil
}

// GetValue reads the current level of the pin. '0' reads as Low, any other
// byte as High.
func (pin *Pin) GetValue() (gpio.Level, error) {
	var buf [1]byte
	if _, err := pin.value.ReadAt0(buf[:]); err != nil {
		pin.cfg.diag("get value", diagCannotRead, err)
		return gpio.Low, wrapPinError(pin, "get value", err)
	}
	if buf[0] == '0' {
		return gpio.Low, nil
	}
	return gpio.High, nil
}

// ActiveLow reports whether pin levels are inverted for both reading and
// writing.
func (pin *Pin) ActiveLow() (bool, error) {
	buf, err := os.ReadFile(pin.attrPath("active_low"))
	if err != nil {
		pin.cfg.diag("get activelow", diagCannotRead, err)
		return false, wrapPinError(pin, "get activelow", err)
	}
	return trimNewlines(buf) == "1", nil
}

// SetActiveLow sets whether pin levels are inverted for both reading and
// writing.
func (pin *Pin) SetActiveLow(value bool) error {
	s := "0"
	if value {
		s = "1"
	}
	if err := writeExisting(&pin.cfg, "set activelow", pin.attrPath("active_low"), s); err != nil {
		return wrapPinError(pin, "set activelow", err)
	}
	return nil
}

// attrPath builds the path of a named attribute of the pin.
func (pin *Pin) attrPath(name string) string {
	return filepath.Join(pin.cfg.root, fmt.Sprintf("gpio%d", pin.n), name)
}

// Chip is the information of a GPIO controller chip.
type Chip struct {
	Base  int    // The first GPIO managed by this chip.
	Label string // The label of this chip. Provided for diagnostics (not always unique).
	Ngpio int    // How many GPIOs this chip manages, Base to Base+Ngpio-1.
}

// Controllers returns all GPIO controllers available.
func Controllers(opts ...Option) ([]Chip, error) {
	cfg := newConfig(opts)
	children, err := os.ReadDir(cfg.root)
	if err != nil {
		return nil, err
	}

	chips := make([]Chip, 0, len(children))
	for _, child := range children {
		if strings.HasPrefix(child.Name(), "gpiochip") {
			chip, err := readChip(filepath.Join(cfg.root, child.Name()))
			if err != nil {
				return nil, err
			}
			chips = append(chips, chip)
		}
	}
	return chips, nil
}

// Controller returns the GPIO controller #n.
func Controller(n int, opts ...Option) (Chip, error) {
	cfg := newConfig(opts)
	return readChip(filepath.Join(cfg.root, fmt.Sprintf("gpiochip%d", n)))
}

func readChip(chipDir string) (chip Chip, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("failed to read controller: %w", err)
		}
	}()
	buf, err := os.ReadFile(filepath.Join(chipDir, "base"))
	if err != nil {
		return
	}
	chip.Base, err = strconv.Atoi(trimNewlines(buf))
	if err != nil {
		return
	}

	buf, err = os.ReadFile(filepath.Join(chipDir, "label"))
	if err != nil {
		return
	}
	chip.Label = trimNewlines(buf)

	buf, err = os.ReadFile(filepath.Join(chipDir, "ngpio"))
	if err != nil {
		return
	}
	chip.Ngpio, err = strconv.Atoi(trimNewlines(buf))
	return
}

// writeExisting opens an existing control file, writes content and closes
// it, attributing each failing call to its diagnostic category.
func writeExisting(cfg *config, op, path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		cfg.diag(op, diagCannotOpen, err)
		return err
	}
	if _, err := f.Write([]byte(content)); err != nil {
		cfg.diag(op, diagCannotWrite, err)
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		cfg.diag(op, diagCannotClose, err)
		return err
	}
	return nil
}

func trimNewlines(buf []byte) string {
	return string(bytes.Trim(buf, "\r\n"))
}

func wrapPinError(pin *Pin, action string, err error) error {
	return fmt.Errorf("failed to %v of GPIO pin #%v: %w", action, pin.n, err)
}
