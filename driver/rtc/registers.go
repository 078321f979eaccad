package rtc

const (
	Seconds  = 0x00 // BCD seconds
	Minutes  = 0x01 // BCD minutes
	Hours    = 0x02 // BCD hours, bit 5 is PM in 12-hour format
	Days     = 0x03 // BCD day of month
	Weekdays = 0x04 // day of week, 0 is Sunday
	Months   = 0x05 // BCD month
	Years    = 0x06 // BCD year since 2000
	ClkFmt   = 0x07 // clock format, bit 0 selects 24-hour format
	Tick     = 0x08 // tick period selector
	IntEn    = 0x09 // interrupt enable
	IntSts   = 0x0A // interrupt status, write one to clear

	numRegisters = 0x0B
)

const (
	ClkFmt24h = 1 << 0
	HoursPM   = 1 << 5

	IntTick = 1 << 1 // tick interrupt enable and status bit
)

const (
	baseYear = 2000
	maxYear  = 2099
)
