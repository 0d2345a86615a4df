// Package at24c32 implements a driver for the AT24C32 serial EEPROM
// found on common DS3231 clock modules, organized as 256 pages of 32
// bytes.
//
// The chip's I2C address is selected by the A0..A2 strap pins, giving
// eight possible addresses; the clock itself sits at a separate fixed
// address on the same bus.
//
// Datasheet: http://ww1.microchip.com/downloads/en/DeviceDoc/doc0336.pdf
package at24c32

import (
	"errors"

	"tinygo.org/x/drivers"

	"github.com/pico-drivers/rtc/ds3231"
)

const (
	PageCount = 256
	PageSize  = 32 // bytes
)

// Strap-selectable addresses. The pins are active low, so the default
// with all straps open is the highest address.
const (
	DefaultAddress = 0x57
	AddressA0      = 0x56
	AddressA1      = 0x55
	AddressA0A1    = 0x54
	AddressA2      = 0x53
	AddressA2A0    = 0x52
	AddressA2A1    = 0x51
	AddressA2A1A0  = 0x50
)

var (
	ErrInvalidLength = errors.New("at24c32: data does not fit the page")
	ErrInvalidOffset = errors.New("at24c32: start byte outside page")
)

// Device wraps an I2C connection to an AT24C32.
type Device struct {
	bus     drivers.I2C
	Address uint8
}

type Config struct {
	// Address must be one of the eight strap-selectable addresses.
	// Anything else, including zero, resolves to DefaultAddress.
	Address uint8
}

// New creates a new AT24C32 driver on the given preconfigured I2C
// bus. Only the Device is created; the chip itself is not touched.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus: bus,
	}
}

// Configure resolves the device address against the eight known strap
// addresses. It never fails: an unrecognized address falls back to
// DefaultAddress.
func (d *Device) Configure(c Config) {
	switch c.Address {
	case DefaultAddress, AddressA0, AddressA1, AddressA0A1,
		AddressA2, AddressA2A0, AddressA2A1, AddressA2A1A0:
		d.Address = c.Address
	default:
		d.Address = DefaultAddress
	}
}

// WritePage writes data into one page starting at the given byte
// offset, as a single transaction of the 2-byte page/offset header
// followed by the payload. The data must fit inside the page; writes
// never spill into the next page.
func (d *Device) WritePage(page, start uint8, data []byte) error {
	if start >= PageSize {
		return ErrInvalidOffset
	}
	if len(data) == 0 || len(data) > PageSize-int(start) {
		return ErrInvalidLength
	}
	w := make([]byte, len(data)+2)
	w[0] = page
	w[1] = start
	copy(w[2:], data)
	return d.bus.Tx(uint16(d.Address), w, nil)
}

// ReadPage reads len(data) bytes from one page starting at the given
// byte offset. The header write and the read happen as one combined
// transaction, keeping the bus open in between.
func (d *Device) ReadPage(page, start uint8, data []byte) error {
	if start >= PageSize {
		return ErrInvalidOffset
	}
	if len(data) == 0 || len(data) > PageSize-int(start) {
		return ErrInvalidLength
	}
	return d.bus.Tx(uint16(d.Address), []byte{page, start}, data)
}

// ReadSequential reads from the chip's internal address counter,
// which holds the address after the last byte touched by a read or
// write. No header is sent; the counter stays valid as long as the
// chip keeps power.
func (d *Device) ReadSequential(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidLength
	}
	return d.bus.Tx(uint16(d.Address), nil, data)
}

// SnapshotTime reads the current time from the clock and writes it to
// the start of the given page as 8 bytes: seconds, minutes, hours,
// then either the PM flag (12-hour mode) followed by day, date,
// month, year, or day, date, month, year followed by the century flag
// (24-hour mode).
func (d *Device) SnapshotTime(rtc *ds3231.Device, page uint8) error {
	t, err := rtc.ReadTime()
	if err != nil {
		return err
	}
	var data [8]byte
	if rtc.HourMode() == ds3231.Mode12 {
		data = [8]byte{
			t.Seconds, t.Minutes, t.Hours, boolByte(t.PM),
			t.Day, t.Date, t.Month, t.Year,
		}
	} else {
		data = [8]byte{
			t.Seconds, t.Minutes, t.Hours, t.Day,
			t.Date, t.Month, t.Year, boolByte(t.Century),
		}
	}
	return d.WritePage(page, 0, data[:])
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
