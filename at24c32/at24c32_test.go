package at24c32

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"tinygo.org/x/drivers"

	"github.com/pico-drivers/rtc/ds3231"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

type frame struct {
	addr uint16
	w    []byte
	rlen int
}

// fakeBus records every transaction. Reads addressed to the clock are
// served from a DS3231-style register file so SnapshotTime can be
// driven end to end; reads addressed to the EEPROM return scripted
// data.
type fakeBus struct {
	frames []frame
	clock  [0x13]byte
	data   []byte
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.frames = append(f.frames, frame{addr: addr, w: append([]byte(nil), w...), rlen: len(r)})
	if addr == ds3231.Address {
		if len(w) > 0 {
			reg := int(w[0])
			copy(f.clock[reg:], w[1:])
			if len(r) > 0 {
				copy(r, f.clock[reg:])
			}
		}
		return nil
	}
	if len(r) > 0 {
		copy(r, f.data)
	}
	return nil
}

func newDevice(f *fakeBus) *Device {
	d := New(f)
	d.Configure(Config{})
	return d
}

func TestConfigureAddressResolution(t *testing.T) {
	c := qt.New(t)
	d := New(&fakeBus{})

	d.Configure(Config{})
	c.Assert(d.Address, qt.Equals, uint8(DefaultAddress))

	d.Configure(Config{Address: AddressA2A0})
	c.Assert(d.Address, qt.Equals, uint8(0x52))

	// unrecognized strap value falls back to the default
	d.Configure(Config{Address: 0x99})
	c.Assert(d.Address, qt.Equals, uint8(DefaultAddress))
}

func TestWritePageFrame(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{}
	d := newDevice(f)

	err := d.WritePage(3, 5, []byte{0xAA, 0xBB, 0xCC})
	c.Assert(err, qt.IsNil)
	c.Assert(f.frames, qt.HasLen, 1)
	c.Assert(f.frames[0].addr, qt.Equals, uint16(DefaultAddress))
	c.Assert(f.frames[0].w, qt.DeepEquals, []byte{3, 5, 0xAA, 0xBB, 0xCC})
	c.Assert(f.frames[0].rlen, qt.Equals, 0)
}

func TestWritePageValidation(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{}
	d := newDevice(f)

	// one past the last valid offset
	err := d.WritePage(0, PageSize, []byte{1})
	c.Assert(err, qt.ErrorIs, ErrInvalidOffset)

	err = d.WritePage(0, 0, nil)
	c.Assert(err, qt.ErrorIs, ErrInvalidLength)

	// would spill into the next page
	err = d.WritePage(0, 30, []byte{1, 2, 3})
	c.Assert(err, qt.ErrorIs, ErrInvalidLength)

	c.Assert(f.frames, qt.HasLen, 0)
}

func TestReadPage(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{data: []byte{0xDE, 0xAD}}
	d := newDevice(f)

	buf := make([]byte, 2)
	err := d.ReadPage(7, 4, buf)
	c.Assert(err, qt.IsNil)
	c.Assert(buf, qt.DeepEquals, []byte{0xDE, 0xAD})
	// header written and held open for the read in one transaction
	c.Assert(f.frames, qt.HasLen, 1)
	c.Assert(f.frames[0].w, qt.DeepEquals, []byte{7, 4})
	c.Assert(f.frames[0].rlen, qt.Equals, 2)

	err = d.ReadPage(0, PageSize, buf)
	c.Assert(err, qt.ErrorIs, ErrInvalidOffset)
	err = d.ReadPage(0, 0, nil)
	c.Assert(err, qt.ErrorIs, ErrInvalidLength)
}

func TestReadSequential(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{data: []byte{1, 2, 3, 4}}
	d := newDevice(f)

	buf := make([]byte, 4)
	c.Assert(d.ReadSequential(buf), qt.IsNil)
	c.Assert(buf, qt.DeepEquals, []byte{1, 2, 3, 4})
	// no header: the chip continues from its internal cursor
	c.Assert(f.frames[0].w, qt.HasLen, 0)

	c.Assert(d.ReadSequential(nil), qt.ErrorIs, ErrInvalidLength)
}

func TestSnapshotTime24(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{}
	// 23:23:25 Thu 10 Aug, year 23, century set
	copy(f.clock[:], []byte{0x25, 0x23, 0x23, 0x04, 0x10, 0x88, 0x23})
	d := newDevice(f)

	rtc := ds3231.New(f)
	rtc.Configure(ds3231.Config{})

	c.Assert(d.SnapshotTime(rtc, 9), qt.IsNil)
	last := f.frames[len(f.frames)-1]
	c.Assert(last.addr, qt.Equals, uint16(DefaultAddress))
	c.Assert(last.w, qt.DeepEquals, []byte{9, 0, 25, 23, 23, 4, 10, 8, 23, 1})
}

func TestSnapshotTime12(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{}
	copy(f.clock[:], []byte{0x25, 0x23, 0x00, 0x04, 0x10, 0x08, 0x23})
	d := newDevice(f)

	rtc := ds3231.New(f)
	rtc.Configure(ds3231.Config{})
	c.Assert(rtc.SetHourMode(ds3231.Mode12), qt.IsNil)
	// 11 PM on the chip
	f.clock[2] = 0x71

	c.Assert(d.SnapshotTime(rtc, 0), qt.IsNil)
	last := f.frames[len(f.frames)-1]
	c.Assert(last.w, qt.DeepEquals, []byte{0, 0, 25, 23, 11, 1, 4, 10, 8, 23})
}

func TestSnapshotTimeReadFailure(t *testing.T) {
	c := qt.New(t)
	f := &fakeBus{}
	d := newDevice(f)

	rtc := ds3231.New(failingBus{})
	rtc.Configure(ds3231.Config{})
	c.Assert(d.SnapshotTime(rtc, 0), qt.ErrorMatches, "clock offline")
	c.Assert(f.frames, qt.HasLen, 0)
}

type failingBus struct{}

func (failingBus) Tx(addr uint16, w, r []byte) error {
	return errors.New("clock offline")
}
