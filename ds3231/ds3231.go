// Package ds3231 implements a driver for the DS3231 I2C real-time clock.
//
// The driver covers the full register map: timekeeping in 12- or
// 24-hour mode, both alarms with their match masks, the interrupt and
// square wave outputs, the oscillator controls, temperature readout
// and the aging offset. Out-of-range time and alarm fields are
// clamped to the nearest valid value rather than rejected.
//
// Operations are synchronous and perform no retries; a bus failure at
// any step aborts the operation and is returned as-is. The driver
// does no locking, so a Device shared between goroutines must be
// serialized externally.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS3231.pdf
package ds3231

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrInvalidAlarmMask = errors.New("ds3231: invalid alarm mask")
	ErrInvalidFrequency = errors.New("ds3231: invalid square wave frequency")
	ErrBusy             = errors.New("ds3231: temperature conversion in progress")
)

// HourMode selects between 24-hour and 12-hour (AM/PM) timekeeping.
type HourMode uint8

const (
	Mode24 HourMode = iota
	Mode12
)

// Time holds one clock reading in real (decimal) units. PM is only
// meaningful in 12-hour mode; Century is carried in bit 7 of the
// month register.
type Time struct {
	Seconds uint8 // 0..59
	Minutes uint8 // 0..59
	Hours   uint8 // 0..23, or 1..12 with PM in 12-hour mode
	PM      bool
	Day     uint8 // day of week, 1..7, 1 = Monday
	Date    uint8 // 1..31
	Month   uint8 // 1..12
	Century bool
	Year    uint8 // 0..99
}

// Alarm1 holds the trigger fields for alarm 1. Date and Day are
// mutually exclusive; the Alarm1Mask picks which one (if either)
// participates.
type Alarm1 struct {
	Seconds uint8
	Minutes uint8
	Hours   uint8
	PM      bool
	Date    uint8
	Day     uint8
}

// Alarm2 holds the trigger fields for alarm 2, which has minute
// resolution and no seconds field.
type Alarm2 struct {
	Minutes uint8
	Hours   uint8
	PM      bool
	Date    uint8
	Day     uint8
}

// Device wraps an I2C connection to a DS3231.
type Device struct {
	bus     drivers.I2C
	Address uint8
	mode    HourMode
}

type Config struct {
	// Address of the chip. Zero selects the fixed default, Address.
	Address uint8
}

// New creates a new DS3231 driver on the given preconfigured I2C bus.
// Only the Device is created; the chip itself is not touched.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus: bus,
	}
}

// Configure resolves the device address. The DS3231 address is fixed,
// so the zero Config is the common case. The hour mode starts out as
// Mode24; use SetHourMode to match a chip already running in 12-hour
// mode.
func (d *Device) Configure(c Config) {
	if c.Address == 0 {
		c.Address = Address
	}
	d.Address = c.Address
}

// HourMode reports the mode the driver is encoding and decoding hours
// in. It reflects the last SetHourMode call, not the chip.
func (d *Device) HourMode() HourMode {
	return d.mode
}

// SetHourMode switches the chip between 12- and 24-hour timekeeping
// by rewriting the mode bit of the hours register. The hour value
// itself is not converted; set the time again after switching.
func (d *Device) SetHourMode(mode HourMode) error {
	buf := [1]byte{}
	if err := d.readRegister(RegHours, buf[:]); err != nil {
		return err
	}
	if mode == Mode12 {
		buf[0] |= hourMode12
	} else {
		buf[0] &^= hourMode12
	}
	if err := d.writeRegister(RegHours, buf[:]); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// SetTime writes all seven timekeeping registers in one transaction.
// Out-of-range fields are clamped, not rejected: seconds, minutes and
// year to their upper bound, day/date/month into their 1-based
// ranges. In 24-hour mode only the upper bound of the hour is
// enforced.
func (d *Device) SetTime(t Time) error {
	buf := [7]byte{
		decToBcd(clamp(t.Seconds, 0, 59)),
		decToBcd(clamp(t.Minutes, 0, 59)),
		d.encodeHours(t.Hours, t.PM),
		decToBcd(clamp(t.Day, 1, 7)),
		decToBcd(clamp(t.Date, 1, 31)),
		decToBcd(clamp(t.Month, 1, 12)),
		decToBcd(clamp(t.Year, 0, 99)),
	}
	if t.Century {
		buf[5] |= 1 << 7
	}
	return d.writeRegister(RegSeconds, buf[:])
}

// ReadTime reads the seven timekeeping registers and decodes them
// according to the current hour mode. In 12-hour mode the PM flag is
// decoded from the hours register; in 24-hour mode PM stays false.
func (d *Device) ReadTime() (Time, error) {
	buf := [7]byte{}
	if err := d.readRegister(RegSeconds, buf[:]); err != nil {
		return Time{}, err
	}

	t := Time{
		Seconds: bcdToDec(buf[0] & 0x7F),
		Minutes: bcdToDec(buf[1] & 0x7F),
		Day:     buf[3] & 0x07,
		Date:    bcdToDec(buf[4] & 0x3F),
		Month:   bcdToDec(buf[5] & 0x1F),
		Century: buf[5]&(1<<7) != 0,
		Year:    bcdToDec(buf[6]),
	}
	if d.mode == Mode12 {
		t.Hours, t.PM = decodeHours12(buf[2])
	} else {
		t.Hours = bcdToDec(buf[2] & 0x3F)
	}
	return t, nil
}

// SetAlarm1 programs alarm 1 and enables it in the control register.
//
// The current 4-byte alarm frame is read back first and only the
// bytes selected by the mask are rewritten: excluded fields keep
// their value with the don't-care bit set, included fields get the
// clamped, encoded value with the don't-care bit clear. For
// OnMatchingSecondMinuteHourDay the day-select bit distinguishes the
// day-of-week from a date-of-month in the same register.
//
// An unknown mask returns ErrInvalidAlarmMask without touching the
// bus.
func (d *Device) SetAlarm1(a Alarm1, mask Alarm1Mask) error {
	switch mask {
	case OnEverySecond, OnMatchingSecond, OnMatchingSecondMinute,
		OnMatchingSecondMinuteHour, OnMatchingSecondMinuteHourDate,
		OnMatchingSecondMinuteHourDay:
	default:
		return ErrInvalidAlarmMask
	}

	buf := [4]byte{}
	if err := d.readRegister(RegAlarm1Seconds, buf[:]); err != nil {
		return err
	}

	switch mask {
	case OnEverySecond:
		for i := range buf {
			buf[i] |= alarmDontCare
		}
	case OnMatchingSecond:
		buf[0] = decToBcd(clamp(a.Seconds, 0, 59))
		buf[1] |= alarmDontCare
		buf[2] |= alarmDontCare
		buf[3] |= alarmDontCare
	case OnMatchingSecondMinute:
		buf[0] = decToBcd(clamp(a.Seconds, 0, 59))
		buf[1] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[2] |= alarmDontCare
		buf[3] |= alarmDontCare
	case OnMatchingSecondMinuteHour:
		buf[0] = decToBcd(clamp(a.Seconds, 0, 59))
		buf[1] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[2] = d.encodeHours(a.Hours, a.PM)
		buf[3] |= alarmDontCare
	case OnMatchingSecondMinuteHourDate:
		buf[0] = decToBcd(clamp(a.Seconds, 0, 59))
		buf[1] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[2] = d.encodeHours(a.Hours, a.PM)
		buf[3] = decToBcd(clamp(a.Date, 1, 31)) &^ alarmDaySelect
	case OnMatchingSecondMinuteHourDay:
		buf[0] = decToBcd(clamp(a.Seconds, 0, 59))
		buf[1] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[2] = d.encodeHours(a.Hours, a.PM)
		buf[3] = decToBcd(clamp(a.Day, 1, 7)) | alarmDaySelect
	}

	if err := d.setControlBits(1<<A1IE, 0); err != nil {
		return err
	}
	return d.writeRegister(RegAlarm1Seconds, buf[:])
}

// SetAlarm2 programs alarm 2 and enables it in the control register.
// It follows the same don't-care convention as SetAlarm1 over the
// 3-byte minute/hour/date frame.
func (d *Device) SetAlarm2(a Alarm2, mask Alarm2Mask) error {
	switch mask {
	case OnEveryMinute, OnMatchingMinute, OnMatchingMinuteHour,
		OnMatchingMinuteHourDate, OnMatchingMinuteHourDay:
	default:
		return ErrInvalidAlarmMask
	}

	buf := [3]byte{}
	if err := d.readRegister(RegAlarm2Minutes, buf[:]); err != nil {
		return err
	}

	switch mask {
	case OnEveryMinute:
		for i := range buf {
			buf[i] |= alarmDontCare
		}
	case OnMatchingMinute:
		buf[0] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[1] |= alarmDontCare
		buf[2] |= alarmDontCare
	case OnMatchingMinuteHour:
		buf[0] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[1] = d.encodeHours(a.Hours, a.PM)
		buf[2] |= alarmDontCare
	case OnMatchingMinuteHourDate:
		buf[0] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[1] = d.encodeHours(a.Hours, a.PM)
		buf[2] = decToBcd(clamp(a.Date, 1, 31)) &^ alarmDaySelect
	case OnMatchingMinuteHourDay:
		buf[0] = decToBcd(clamp(a.Minutes, 0, 59))
		buf[1] = d.encodeHours(a.Hours, a.PM)
		buf[2] = decToBcd(clamp(a.Day, 1, 7)) | alarmDaySelect
	}

	if err := d.setControlBits(1<<A2IE, 0); err != nil {
		return err
	}
	return d.writeRegister(RegAlarm2Minutes, buf[:])
}

// EnableAlarmInterrupt routes the alarms to the INT/SQW pin (INTCN).
// An armed alarm then pulls the pin low when it matches. The square
// wave output uses the same pin; see EnableSquareWave.
func (d *Device) EnableAlarmInterrupt(enable bool) error {
	if enable {
		return d.setControlBits(1<<INTCN, 0)
	}
	return d.setControlBits(0, 1<<INTCN)
}

// EnableOscillator starts or stops the oscillator. Stopping only
// takes effect while the chip runs from its backup battery; on Vcc
// the oscillator always runs.
func (d *Device) EnableOscillator(enable bool) error {
	if enable {
		return d.setControlBits(0, 1<<EOSC)
	}
	return d.setControlBits(1<<EOSC, 0)
}

// Enable32kHz gates the dedicated 32.768 kHz output pin.
func (d *Device) Enable32kHz(enable bool) error {
	buf := [1]byte{}
	if err := d.readRegister(RegStatus, buf[:]); err != nil {
		return err
	}
	if enable {
		buf[0] |= 1 << EN32K
	} else {
		buf[0] &^= 1 << EN32K
	}
	return d.writeRegister(RegStatus, buf[:])
}

// EnableSquareWave drives the battery-backed square wave on the
// INT/SQW pin. The pin is shared with the alarm interrupts, so
// enabling the square wave also clears INTCN; disabling it leaves
// INTCN alone and the pin reverts to whatever the alarm routing says.
func (d *Device) EnableSquareWave(enable bool) error {
	if enable {
		return d.setControlBits(1<<BBSQW, 1<<INTCN)
	}
	return d.setControlBits(0, 1<<BBSQW)
}

// SetSquareWaveFrequency selects the square wave output rate. An
// unknown frequency returns ErrInvalidFrequency without touching the
// bus.
func (d *Device) SetSquareWaveFrequency(f Frequency) error {
	switch f {
	case Freq1Hz, Freq1024Hz, Freq4096Hz, Freq8192Hz:
	default:
		return ErrInvalidFrequency
	}
	buf := [1]byte{}
	if err := d.readRegister(RegControl, buf[:]); err != nil {
		return err
	}
	buf[0] &^= 0x3 << RS1
	buf[0] |= uint8(f) << RS1
	return d.writeRegister(RegControl, buf[:])
}

// ForceTemperatureConversion asks the TCXO to run a conversion now
// instead of waiting for the 64-second cycle. Returns ErrBusy while a
// conversion is already running.
func (d *Device) ForceTemperatureConversion() error {
	buf := [1]byte{}
	if err := d.readRegister(RegStatus, buf[:]); err != nil {
		return err
	}
	if buf[0]&(1<<BSY) != 0 {
		return ErrBusy
	}
	return d.setControlBits(1<<CONV, 0)
}

// ReadTemperature returns the die temperature in degrees Celsius at
// 0.25 degree resolution. The integer part is two's complement, so
// readings below zero come out right (e.g. 0xFF/0xC0 is -0.25).
func (d *Device) ReadTemperature() (float32, error) {
	buf := [2]byte{}
	if err := d.readRegister(RegTemp, buf[:]); err != nil {
		return 0, err
	}
	return float32(int8(buf[0])) + float32(buf[1]>>6)*0.25, nil
}

// OscillatorStopped reports whether the oscillator stop flag is set,
// meaning the clock lost time at some point and the time registers
// cannot be trusted until the time is set again.
func (d *Device) OscillatorStopped() (bool, error) {
	buf := [1]byte{}
	if err := d.readRegister(RegStatus, buf[:]); err != nil {
		return false, err
	}
	return buf[0]&(1<<OSF) != 0, nil
}

// SetAgingOffset writes the two's-complement crystal aging trim.
// Positive values slow the clock down, negative values speed it up.
func (d *Device) SetAgingOffset(offset int8) error {
	buf := [1]byte{uint8(offset)}
	return d.writeRegister(RegAging, buf[:])
}

// encodeHours encodes an hours field for the current mode, clamping
// to 23 first. In 24-hour mode only the upper bound is enforced.
func (d *Device) encodeHours(hours uint8, pm bool) uint8 {
	hours = clamp(hours, 0, 23)
	if d.mode == Mode12 {
		return encodeHours12(hours, pm)
	}
	return encodeHours24(hours)
}

// setControlBits rewrites the control register with set bits ORed in
// and clear bits removed, leaving the rest untouched.
func (d *Device) setControlBits(set, clear uint8) error {
	buf := [1]byte{}
	if err := d.readRegister(RegControl, buf[:]); err != nil {
		return err
	}
	buf[0] |= set
	buf[0] &^= clear
	return d.writeRegister(RegControl, buf[:])
}

// readRegister reads len(buf) bytes starting at reg: the register
// address is written and the bus held open for the read, as one
// transaction.
func (d *Device) readRegister(reg uint8, buf []byte) error {
	return d.bus.Tx(uint16(d.Address), []byte{reg}, buf)
}

// writeRegister writes data starting at reg in one transaction.
func (d *Device) writeRegister(reg uint8, data []byte) error {
	w := make([]byte, len(data)+1)
	w[0] = reg
	copy(w[1:], data)
	return d.bus.Tx(uint16(d.Address), w, nil)
}
