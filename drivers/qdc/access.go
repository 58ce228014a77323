package qdc

// RegisterFile is the raw 16-bit register window of one ENC instance.
// Load and Store are single bus transactions; any read side effects of the
// peripheral happen inside Load.
type RegisterFile interface {
	Load(r Reg) uint16
	Store(r Reg, v uint16)
}

// Registers is the field-level access the Controller is written against.
//
// ModifyField must read the register, replace only the bits of f and write it
// back as one transaction with respect to other callers of the same instance.
type Registers interface {
	ReadField(f Field) uint16
	ModifyField(f Field, v uint16)
}

// Atomic is implemented by register files that can run a read-modify-write
// sequence without interruption (e.g. with interrupts masked).
type Atomic interface {
	Atomically(fn func())
}

type fieldAccess struct {
	rf RegisterFile
}

// NewFieldAccess adapts a RegisterFile to Registers.
//
// Write-1-to-clear flag bits other than the modified field are written back as
// 0, so updating an enable bit never clears a pending flag in the same register.
func NewFieldAccess(rf RegisterFile) Registers {
	return fieldAccess{rf: rf}
}

func (a fieldAccess) ReadField(f Field) uint16 {
	return (a.rf.Load(f.Reg) & f.Mask()) >> f.Shift
}

func (a fieldAccess) ModifyField(f Field, v uint16) {
	if f.Mask() == 0xFFFF {
		a.modify(f, v)
		return
	}
	if at, ok := a.rf.(Atomic); ok {
		at.Atomically(func() { a.modify(f, v) })
		return
	}
	a.modify(f, v)
}

func (a fieldAccess) modify(f Field, v uint16) {
	mask := f.Mask()
	if mask == 0xFFFF {
		// Whole register: no read, which would also latch the hold registers.
		a.rf.Store(f.Reg, v)
		return
	}
	cur := a.rf.Load(f.Reg)
	next := cur &^ mask &^ W1CMask(f.Reg)
	next |= (v << f.Shift) & mask
	a.rf.Store(f.Reg, next)
}
