//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux
// GPIO character device.
type RealReader struct {
	chip      *gpiocdev.Chip
	togglePin *gpiocdev.Line
	loadPin   *gpiocdev.Line
}

// NewRealReader creates a button reader for actual Raspberry Pi hardware.
func NewRealReader(pinToggle, pinLoad int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// The buttons short to ground, so the lines are pulled up and read
	// high while released.
	toggleLine, err := chip.RequestLine(pinToggle, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request toggle pin %d: %w", pinToggle, err)
	}

	loadLine, err := chip.RequestLine(pinLoad, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		toggleLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request load pin %d: %w", pinLoad, err)
	}

	return &RealReader{
		chip:      chip,
		togglePin: toggleLine,
		loadPin:   loadLine,
	}, nil
}

// Read returns the logical states of the toggle and load buttons.
// Inverts the active-low inputs: raw low (0) = pressed.
func (r *RealReader) Read() (bool, bool, error) {
	toggleRaw, err := r.togglePin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read toggle pin: %w", err)
	}

	loadRaw, err := r.loadPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read load pin: %w", err)
	}

	return toggleRaw == 0, loadRaw == 0, nil
}

// Close releases GPIO resources. Pins are reconfigured to input with
// pull-up before closing so the buttons stay inert across restarts.
func (r *RealReader) Close() error {
	var errs []error

	if r.togglePin != nil {
		if err := r.togglePin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure toggle pin: %w", err))
		}
		if err := r.togglePin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close toggle pin: %w", err))
		}
	}
	if r.loadPin != nil {
		if err := r.loadPin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure load pin: %w", err))
		}
		if err := r.loadPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close load pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
