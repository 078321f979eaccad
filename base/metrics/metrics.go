package metrics

const (
	WallClockTicksH          = "The total number of ticks applied to the wall clock"
	WallClockTicksN          = "rtctime_wallclock_ticks"
	WallClockTicksCoalescedH = "The total number of ticks merged into a pending notification"
	WallClockTicksCoalescedN = "rtctime_wallclock_ticks_coalesced"
	WallClockEpochH          = "The current wall clock value in seconds since the Unix epoch"
	WallClockEpochN          = "rtctime_wallclock_epoch_seconds"

	RTCInterruptsH         = "The total number of RTC tick interrupts handled"
	RTCInterruptsN         = "rtctime_rtc_interrupts"
	RTCSpuriousInterruptsH = "The total number of RTC interrupts without an enabled pending source"
	RTCSpuriousInterruptsN = "rtctime_rtc_spurious_interrupts"

	TimerExpirationsMissedH = "The total number of timer expirations delivered late"
	TimerExpirationsMissedN = "rtctime_timer_expirations_missed"

	ReportLinesH = "The total number of time lines written to the console"
	ReportLinesN = "rtctime_report_lines"
)
