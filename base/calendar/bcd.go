package calendar

// ToBCD converts a value in [0, 99] to packed BCD.
func ToBCD(dec int) uint8 {
	if dec < 0 || dec > 99 {
		panic("value out of BCD range")
	}
	return uint8(dec + 6*(dec/10))
}

// FromBCD converts packed BCD to its decimal value.
func FromBCD(bcd uint8) int {
	return int(bcd - 6*(bcd>>4))
}
