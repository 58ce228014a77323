package qdc

import "qdc-go/x/mathx"

// ---------------- Watchdog ----------------

// SetWatchdogEnable enables the watchdog that monitors for motion.
// Two successive counts restart the timer.
func (c *Controller[N]) SetWatchdogEnable(enable bool) { c.set(CtrlWDE, enable) }

func (c *Controller[N]) IsWatchdogEnabled() bool { return c.is(CtrlWDE) }

// SetWatchdogInterruptOnTimeoutEnable gates the interrupt raised on timeout.
// The timeout flag itself is set either way.
func (c *Controller[N]) SetWatchdogInterruptOnTimeoutEnable(enable bool) { c.set(CtrlDIE, enable) }

func (c *Controller[N]) IsWatchdogInterruptOnTimeoutEnabled() bool { return c.is(CtrlDIE) }

// SetWatchdogTimeoutCycles sets the number of clock cycles without two
// successive counts before the watchdog times out.
func (c *Controller[N]) SetWatchdogTimeoutCycles(cycles uint16) {
	c.regs.ModifyField(WtrWDOG, cycles)
}

func (c *Controller[N]) WatchdogTimeoutCycles() uint16 { return c.regs.ReadField(WtrWDOG) }

// ---------------- Counting mode ----------------

func (c *Controller[N]) SetReverseCountingEnable(enable bool) { c.set(CtrlREV, enable) }
func (c *Controller[N]) IsReverseCountingEnabled() bool       { return c.is(CtrlREV) }

// SetSinglePhaseCountingEnable selects single-phase mode. When disabled
// PHASEA/PHASEB are decoded as quadrature. When enabled a rising edge on
// PHASEA counts; the direction follows PHASEB, inverted by reverse counting.
func (c *Controller[N]) SetSinglePhaseCountingEnable(enable bool) { c.set(CtrlPH1, enable) }
func (c *Controller[N]) IsSinglePhaseCountingEnabled() bool       { return c.is(CtrlPH1) }

// ---------------- HOME ----------------

func (c *Controller[N]) SetHomeSignalInterruptEnable(enable bool) { c.set(CtrlHIE, enable) }
func (c *Controller[N]) IsHomeSignalInterruptEnabled() bool       { return c.is(CtrlHIE) }

// SetHomeSignalNegativeEdgeEnable selects the falling edge of HOME instead of
// the rising edge. One bit: the two edges are mutually exclusive.
func (c *Controller[N]) SetHomeSignalNegativeEdgeEnable(enable bool) { c.set(CtrlHNE, enable) }
func (c *Controller[N]) IsHomeSignalNegativeEdgeEnabled() bool       { return c.is(CtrlHNE) }

// SetHomeInitializePositionCounterEnable lets HOME load UINIT/LINIT into the
// position counter.
func (c *Controller[N]) SetHomeInitializePositionCounterEnable(enable bool) {
	c.set(CtrlHIP, enable)
}

func (c *Controller[N]) IsHomeInitializePositionCounterEnabled() bool { return c.is(CtrlHIP) }

// ---------------- INDEX ----------------

func (c *Controller[N]) SetIndexSignalInterruptEnable(enable bool) { c.set(CtrlXIE, enable) }
func (c *Controller[N]) IsIndexSignalInterruptEnabled() bool       { return c.is(CtrlXIE) }

// SetIndexSignalNegativeEdgeEnable selects the falling edge of INDEX, which
// also drives the revolution counter.
func (c *Controller[N]) SetIndexSignalNegativeEdgeEnable(enable bool) { c.set(CtrlXNE, enable) }
func (c *Controller[N]) IsIndexSignalNegativeEdgeEnabled() bool       { return c.is(CtrlXNE) }

func (c *Controller[N]) SetIndexInitializePositionCounterEnable(enable bool) {
	c.set(CtrlXIP, enable)
}

func (c *Controller[N]) IsIndexInitializePositionCounterEnabled() bool { return c.is(CtrlXIP) }

// ---------------- Position initialization ----------------

// InitializePositionCounterToValue programs UINIT/LINIT and then pulses SWIP.
// The two steps must not be interleaved with other access to this instance.
func (c *Controller[N]) InitializePositionCounterToValue(value uint32) {
	c.SetPositionInitializationValue(value)
	c.regs.ModifyField(CtrlSWIP, 1)
}

// SetPositionInitializationValue programs UINIT/LINIT without loading them.
func (c *Controller[N]) SetPositionInitializationValue(value uint32) {
	c.write32(UinitINIT, LinitINIT, value)
}

func (c *Controller[N]) PositionInitializationValue() uint32 {
	return c.read32(UinitINIT, LinitINIT)
}

// ---------------- Compare ----------------

func (c *Controller[N]) SetCompareInterruptEnable(enable bool) { c.set(CtrlCMPIE, enable) }
func (c *Controller[N]) IsCompareInterruptEnabled() bool       { return c.is(CtrlCMPIE) }

func (c *Controller[N]) SetCompareValue(value uint32) { c.write32(UcompCOMP, LcompCOMP, value) }
func (c *Controller[N]) CompareValue() uint32         { return c.read32(UcompCOMP, LcompCOMP) }

// ---------------- Input filter ----------------

const (
	PrescalerMin   = 1
	PrescalerMax   = 128
	FilterCountMin = 3
	FilterCountMax = 10
)

// Prescaler returns the effective clock divisor applied to the filter and
// counters, i.e. 1<<FILT_PRSC, not the raw field.
func (c *Controller[N]) Prescaler() uint16 {
	return 1 << c.regs.ReadField(FiltPRSC)
}

// SetPrescaler sets the clock divisor, clamped to [1,128]. FILT_PRSC holds the
// exponent, so divisors between powers of two round down: 3 reads back from
// Prescaler as 2 and 100 as 64.
func (c *Controller[N]) SetPrescaler(prescaler uint16) {
	d := mathx.Clamp(prescaler, PrescalerMin, PrescalerMax)
	c.regs.ModifyField(FiltPRSC, uint16(mathx.Log2Floor(d)))
}

// InputFilterCount returns the number of consecutive agreeing samples the
// filter needs before accepting a transition.
func (c *Controller[N]) InputFilterCount() uint16 {
	return c.regs.ReadField(FiltCNT) + FilterCountMin
}

// SetInputFilterCount sets the agreeing sample count, clamped to [3,10].
// Higher counts add input latency.
func (c *Controller[N]) SetInputFilterCount(value uint16) {
	v := mathx.Clamp(value, FilterCountMin, FilterCountMax)
	c.regs.ModifyField(FiltCNT, v-FilterCountMin)
}

// DisableInputFilter zeroes the sample period.
func (c *Controller[N]) DisableInputFilter() { c.regs.ModifyField(FiltPER, 0) }

// InputSamplingPeriod returns the filter sample period in clock cycles;
// 0 means the filter is bypassed.
func (c *Controller[N]) InputSamplingPeriod() uint16 { return c.regs.ReadField(FiltPER) }

// SetInputSamplingPeriod sets the filter sample period in clock cycles.
// A non-zero period is first written to 0: the filter has to be disarmed
// before it can take a new period.
func (c *Controller[N]) SetInputSamplingPeriod(value uint8) {
	if c.regs.ReadField(FiltPER) != 0 {
		c.regs.ModifyField(FiltPER, 0)
	}
	c.regs.ModifyField(FiltPER, uint16(value))
}

// ---------------- TRIGGER ----------------

// SetTriggerClearPrimaryEnable clears position, revolution and difference
// counters on the rising edge of TRIGGER.
func (c *Controller[N]) SetTriggerClearPrimaryEnable(enable bool) { c.set(Ctrl2UPDPOS, enable) }
func (c *Controller[N]) IsTriggerClearPrimaryEnabled() bool       { return c.is(Ctrl2UPDPOS) }

// SetTriggerUpdatePreviousEnable latches the hold registers on the rising
// edge of TRIGGER.
func (c *Controller[N]) SetTriggerUpdatePreviousEnable(enable bool) { c.set(Ctrl2UPDHLD, enable) }
func (c *Controller[N]) IsTriggerUpdatePreviousEnabled() bool       { return c.is(Ctrl2UPDHLD) }

// ---------------- Modulus ----------------

// SetModulusCountingEnable makes the position counter wrap at the modulus
// value instead of at 32 bits.
func (c *Controller[N]) SetModulusCountingEnable(enable bool) { c.set(Ctrl2MOD, enable) }
func (c *Controller[N]) IsModulusCountingEnabled() bool       { return c.is(Ctrl2MOD) }

func (c *Controller[N]) SetModulusValue(value uint32) { c.write32(UmodMOD, LmodMOD, value) }
func (c *Controller[N]) ModulusValue() uint32         { return c.read32(UmodMOD, LmodMOD) }

// SetRevolutionModulusModeEnable counts revolutions on modulus roll instead
// of on INDEX.
func (c *Controller[N]) SetRevolutionModulusModeEnable(enable bool) { c.set(Ctrl2REVMOD, enable) }
func (c *Controller[N]) IsRevolutionModulusModeEnabled() bool       { return c.is(Ctrl2REVMOD) }

// SetPositionMatchOnReadEnable drives POSMATCH when a counter is read rather
// than on compare match.
func (c *Controller[N]) SetPositionMatchOnReadEnable(enable bool) { c.set(Ctrl2OUTCTL, enable) }
func (c *Controller[N]) IsPositionMatchOnReadEnabled() bool       { return c.is(Ctrl2OUTCTL) }
