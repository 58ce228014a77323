package qdc

import "qdc-go/x/mathx"

const (
	TestPulseCountMax = 255
	// TestPulsePeriodMax is the accepted input bound. TEST_PERIOD is five bits
	// wide, so 32 is stored as 31.
	TestPulsePeriodMax = 32
)

// SetTestModeEnable routes the internal quadrature generator to the counter
// in place of the PHASEA/PHASEB pins.
func (c *Controller[N]) SetTestModeEnable(enable bool) { c.set(TstTEN, enable) }
func (c *Controller[N]) IsTestModeEnabled() bool       { return c.is(TstTEN) }

// SetTestCounterEnable starts the generator; nothing is emitted until it is set.
func (c *Controller[N]) SetTestCounterEnable(enable bool) { c.set(TstTCE, enable) }
func (c *Controller[N]) IsTestCounterEnabled() bool       { return c.is(TstTCE) }

// SetTestReverseModeEnable makes the generator count downwards.
func (c *Controller[N]) SetTestReverseModeEnable(enable bool) { c.set(TstQDN, enable) }
func (c *Controller[N]) IsTestReverseModeEnabled() bool       { return c.is(TstQDN) }

// TestPulseCount returns the number of quadrature pulses the generator emits.
func (c *Controller[N]) TestPulseCount() uint16 { return c.regs.ReadField(TstCOUNT) }

// SetTestPulseCount sets the number of pulses, clamped to [0,255].
func (c *Controller[N]) SetTestPulseCount(value uint16) {
	c.regs.ModifyField(TstCOUNT, mathx.Clamp(value, 0, TestPulseCountMax))
}

// TestPulsePeriod returns the generator period in clock cycles. The field is
// five bits wide, so it never reads back more than 31, even after
// SetTestPulsePeriod(32).
func (c *Controller[N]) TestPulsePeriod() uint16 { return c.regs.ReadField(TstPERIOD) }

// SetTestPulsePeriod sets the generator period, clamped to [0,32] and then to
// what TEST_PERIOD can hold: 32 is stored as 31.
func (c *Controller[N]) SetTestPulsePeriod(value uint16) {
	v := mathx.Clamp(value, 0, TestPulsePeriodMax)
	c.regs.ModifyField(TstPERIOD, mathx.Clamp(v, 0, TstPERIOD.Max()))
}
