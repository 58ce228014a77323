// Package qdc provides a TinyGo driver for the ENC quadrature decoder found on
// the NXP i.MX RT family.
//
// Design notes (reference manual, ENC chapter):
// • Four instances, 16-bit registers, 32-bit quantities split UPPER/LOWER.
// • Reading POSD, REV, UPOS or LPOS latches POSD/REV/POS into the hold registers.
// • CTRL and CTRL2 carry write-1-to-clear interrupt flags next to plain enables.
// • FILT_PER must be written to 0 before it is given a new non-zero value.
// • SWIP loads UINIT/LINIT into the position counter and self-clears.
//
// Nothing in this package returns an error: out-of-range numeric inputs are
// clamped to the nearest value the hardware field accepts.
package qdc

import "qdc-go/x/mathx"

// Instance selects one of the four physical ENC peripherals at compile time.
type Instance interface {
	ENC1 | ENC2 | ENC3 | ENC4
	Number() uint8
}

type (
	ENC1 struct{}
	ENC2 struct{}
	ENC3 struct{}
	ENC4 struct{}
)

func (ENC1) Number() uint8 { return 1 }
func (ENC2) Number() uint8 { return 2 }
func (ENC3) Number() uint8 { return 3 }
func (ENC4) Number() uint8 { return 4 }

// Peripheral is the ownership token for one ENC instance's registers.
// Whoever holds it may build a Controller from it; copies must not be used
// while a Controller owns the instance.
type Peripheral[N Instance] struct {
	regs Registers
}

// NewPeripheral wraps a raw register window as the token for instance N.
func NewPeripheral[N Instance](rf RegisterFile) Peripheral[N] {
	return Peripheral[N]{regs: NewFieldAccess(rf)}
}

// PeripheralWith wraps an existing field-level register layer.
func PeripheralWith[N Instance](regs Registers) Peripheral[N] {
	return Peripheral[N]{regs: regs}
}

// Number returns the instance number (1..4).
func (p Peripheral[N]) Number() uint8 {
	var n N
	return n.Number()
}

// Valid reports whether p refers to a register window.
func (p Peripheral[N]) Valid() bool { return p.regs != nil }

// Controller drives one ENC instance.
type Controller[N Instance] struct {
	p    Peripheral[N]
	regs Registers
}

// QDC1..QDC4 name the controllers of each physical instance.
type (
	QDC1 = Controller[ENC1]
	QDC2 = Controller[ENC2]
	QDC3 = Controller[ENC3]
	QDC4 = Controller[ENC4]
)

// New takes ownership of the instance. No register is accessed: the
// peripheral keeps whatever state it had, call Reset for power-on values.
func New[N Instance](p Peripheral[N]) *Controller[N] {
	return &Controller[N]{p: p, regs: p.regs}
}

// Instance returns the instance number (1..4).
func (c *Controller[N]) Instance() uint8 { return c.p.Number() }

// Release gives the instance back as-is. No register is accessed; use Reset
// first if the peripheral must be left in a known state. The Controller must
// not be used afterwards.
func (c *Controller[N]) Release() Peripheral[N] {
	p := c.p
	c.p = Peripheral[N]{}
	c.regs = nil
	return p
}

// Reset returns every writable register to its power-on value and clears the
// sticky flags. Hold registers are read-only and keep their last snapshot.
func (c *Controller[N]) Reset() {
	// Filter period first: it must never be reprogrammed while non-zero.
	c.regs.ModifyField(word(RegFILT), 0)
	c.regs.ModifyField(word(RegCTRL), W1CMask(RegCTRL))
	c.regs.ModifyField(word(RegCTRL2), W1CMask(RegCTRL2))
	for _, r := range []Reg{
		RegWTR, RegTST,
		RegUINIT, RegLINIT, RegUMOD, RegLMOD, RegUCOMP, RegLCOMP,
		RegPOSD, RegREV, RegUPOS, RegLPOS,
	} {
		c.regs.ModifyField(word(r), 0)
	}
}

// ---------------- Field helpers ----------------

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (c *Controller[N]) set(f Field, enable bool) { c.regs.ModifyField(f, b2u(enable)) }
func (c *Controller[N]) is(f Field) bool          { return c.regs.ReadField(f) == 1 }

// clear writes 1 to a write-1-to-clear flag.
func (c *Controller[N]) clear(f Field) { c.regs.ModifyField(f, 1) }

// write32 stores upper then lower.
func (c *Controller[N]) write32(upper, lower Field, v uint32) {
	u, l := mathx.Split16(v)
	c.regs.ModifyField(upper, u)
	c.regs.ModifyField(lower, l)
}

func (c *Controller[N]) read32(upper, lower Field) uint32 {
	u := c.regs.ReadField(upper)
	l := c.regs.ReadField(lower)
	return mathx.Join16(u, l)
}
