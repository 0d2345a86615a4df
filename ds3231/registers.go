package ds3231

const (
	// Address is the I2C address of the DS3231. It is fixed by the chip.
	Address = 0x68

	// Timekeeping registers, seconds first. SetTime/ReadTime move all
	// seven bytes in one transaction.
	RegSeconds = 0x00
	RegMinutes = 0x01
	RegHours   = 0x02
	RegDay     = 0x03
	RegDate    = 0x04
	RegMonth   = 0x05 // bit 7 carries the century flag
	RegYear    = 0x06

	RegAlarm1Seconds = 0x07 // 4-byte alarm 1 frame starts here
	RegAlarm2Minutes = 0x0B // 3-byte alarm 2 frame starts here

	RegControl = 0x0E
	RegStatus  = 0x0F
	RegAging   = 0x10
	RegTemp    = 0x11 // MSB; 0x12 holds the 2 fraction bits
)

// Control register (0x0E) bit positions.
const (
	A1IE  = 0 // alarm 1 interrupt enable
	A2IE  = 1 // alarm 2 interrupt enable
	INTCN = 2 // interrupt control: alarms on INT/SQW instead of square wave
	RS1   = 3 // square wave rate select, low bit
	RS2   = 4 // square wave rate select, high bit
	CONV  = 5 // force temperature conversion
	BBSQW = 6 // battery-backed square wave enable
	EOSC  = 7 // oscillator disable (active high)
)

// Status register (0x0F) bit positions.
const (
	BSY   = 2 // TCXO busy with a conversion
	EN32K = 3 // 32.768 kHz output enable
	OSF   = 7 // oscillator stop flag
)

// Hours register mode/flag bits, shared by the time and alarm frames.
const (
	hourPM     = 1 << 5 // PM when in 12-hour mode
	hourMode12 = 1 << 6 // 12-hour mode select
)

// Per-byte alarm frame bits.
const (
	alarmDontCare  = 1 << 7 // field excluded from the match
	alarmDaySelect = 1 << 6 // day-of-week instead of date-of-month
)

// Alarm1Mask selects which fields of an Alarm1 participate in the
// match. The values are the chip's A1M4..A1M1 bit pattern (plus the
// DY/DT bit for the day variant) as laid out in the datasheet.
type Alarm1Mask uint8

const (
	OnEverySecond                  Alarm1Mask = 0x0F
	OnMatchingSecond               Alarm1Mask = 0x0E
	OnMatchingSecondMinute         Alarm1Mask = 0x0C
	OnMatchingSecondMinuteHour     Alarm1Mask = 0x08
	OnMatchingSecondMinuteHourDate Alarm1Mask = 0x00
	OnMatchingSecondMinuteHourDay  Alarm1Mask = 0x10
)

// Alarm2Mask selects which fields of an Alarm2 participate in the
// match. Alarm 2 has minute resolution, so there is no seconds
// variant.
type Alarm2Mask uint8

const (
	OnEveryMinute            Alarm2Mask = 0x07
	OnMatchingMinute         Alarm2Mask = 0x06
	OnMatchingMinuteHour     Alarm2Mask = 0x05
	OnMatchingMinuteHourDate Alarm2Mask = 0x00
	OnMatchingMinuteHourDay  Alarm2Mask = 0x01
)

// Frequency is a square wave output frequency, the 2-bit RS2/RS1
// field of the control register.
type Frequency uint8

const (
	Freq1Hz    Frequency = 0x0
	Freq1024Hz Frequency = 0x1
	Freq4096Hz Frequency = 0x2
	Freq8192Hz Frequency = 0x3
)
