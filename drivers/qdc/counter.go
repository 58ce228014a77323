package qdc

import "qdc-go/x/mathx"

// Counts is one coherent snapshot of the three counters.
type Counts struct {
	Position   uint32 `json:"position"`
	Revolution uint16 `json:"revolution"`
	Difference uint16 `json:"difference"`
}

// Inputs is the IMR bitmap. From MSB to LSB: filtered PHASEA, filtered
// PHASEB, filtered INDEX, filtered HOME, raw PHASEA, raw PHASEB, raw INDEX,
// raw HOME.
type Inputs uint8

const (
	InputHome Inputs = 1 << iota
	InputIndex
	InputPhaseB
	InputPhaseA
	InputFilteredHome
	InputFilteredIndex
	InputFilteredPhaseB
	InputFilteredPhaseA
)

func (i Inputs) Has(in Inputs) bool { return i&in != 0 }

// Raw returns the unfiltered signals in the low nibble.
func (i Inputs) Raw() uint8 { return uint8(i) & 0x0F }

// Filtered returns the filtered signals in the low nibble.
func (i Inputs) Filtered() uint8 { return uint8(i) >> 4 }

// PositionDifference reads POSD.
//
// Side effect: the read latches POSD, REV and the position into the hold
// registers, and POSD restarts from zero.
func (c *Controller[N]) PositionDifference() uint16 { return c.regs.ReadField(PosdPOSD) }

// PreviousPositionDifference reads POSDH, the difference captured by the last
// counter read. No side effect; useful for velocity.
func (c *Controller[N]) PreviousPositionDifference() uint16 {
	return c.regs.ReadField(PosdhPOSDH)
}

// RevolutionCount reads REV, counted on INDEX edges.
//
// Side effect: latches the hold registers, as PositionDifference.
func (c *Controller[N]) RevolutionCount() uint16 { return c.regs.ReadField(RevREV) }

// PreviousRevolutionCount reads REVH. No side effect.
func (c *Controller[N]) PreviousRevolutionCount() uint16 { return c.regs.ReadField(RevhREVH) }

// PositionCount reads the 32-bit position.
//
// Side effect: the UPOS read latches the hold registers; the lower half is
// then taken from LPOSH so both halves belong to the same instant.
func (c *Controller[N]) PositionCount() uint32 {
	u := c.regs.ReadField(UposPOS)
	l := c.regs.ReadField(LposhPOSH)
	return mathx.Join16(u, l)
}

// PreviousPositionCount reads UPOSH/LPOSH. No side effect; repeated calls
// return the same snapshot.
func (c *Controller[N]) PreviousPositionCount() uint32 {
	return c.read32(UposhPOSH, LposhPOSH)
}

// Counts takes one snapshot through POSD and returns it with the latched
// revolution and position values.
func (c *Controller[N]) Counts() Counts {
	d := c.regs.ReadField(PosdPOSD)
	return Counts{
		Position:   c.read32(UposhPOSH, LposhPOSH),
		Revolution: c.regs.ReadField(RevhREVH),
		Difference: d,
	}
}

// Hold returns the hold registers without taking a new snapshot.
func (c *Controller[N]) Hold() Counts {
	return Counts{
		Position:   c.read32(UposhPOSH, LposhPOSH),
		Revolution: c.regs.ReadField(RevhREVH),
		Difference: c.regs.ReadField(PosdhPOSDH),
	}
}

// CountDirection reports whether the last count was upwards.
func (c *Controller[N]) CountDirection() bool { return c.is(Ctrl2DIR) }

// InputMonitor returns the raw IMR bitmap; see Inputs for the bit order.
func (c *Controller[N]) InputMonitor() uint8 { return uint8(c.regs.ReadField(ImrINPUTS)) }

// Inputs returns InputMonitor as a typed bitmap.
func (c *Controller[N]) Inputs() Inputs { return Inputs(c.InputMonitor()) }
