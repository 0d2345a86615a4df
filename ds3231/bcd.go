package ds3231

// decToBcd packs a 0..99 value as BCD: tens digit in the high nibble,
// ones digit in the low nibble.
func decToBcd(dec uint8) uint8 {
	return (dec/10)<<4 | dec%10
}

// bcdToDec unpacks BCD. Callers mask off any flag bits above the tens
// digit before calling; the tens width differs per register.
func bcdToDec(bcd uint8) uint8 {
	return 10*(bcd>>4) + bcd&0x0F
}

// encodeHours12 packs an hour for 12-hour mode: BCD hour, PM flag in
// bit 5, and bit 6 set to select 12-hour mode. Hours above 12 are
// folded into the 1..12 PM range first.
func encodeHours12(hour uint8, pm bool) uint8 {
	if hour > 12 {
		hour -= 12
		pm = true
	}
	b := decToBcd(hour) | hourMode12
	if pm {
		b |= hourPM
	}
	return b
}

// decodeHours12 is the inverse of encodeHours12. The tens digit is a
// single bit in 12-hour mode.
func decodeHours12(b uint8) (hour uint8, pm bool) {
	return bcdToDec(b & 0x1F), b&hourPM != 0
}

// encodeHours24 packs an hour for 24-hour mode with bit 6 clear.
func encodeHours24(hour uint8) uint8 {
	return decToBcd(hour) &^ hourMode12
}

func clamp(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
