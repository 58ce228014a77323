//go:build mimxrt1062

package qdc

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

// Instance base addresses on the i.MX RT1060.
var baseAddr = [...]uintptr{
	1: 0x403C8000,
	2: 0x403CC000,
	3: 0x403D0000,
	4: 0x403D4000,
}

type mmio struct {
	base uintptr
}

func (m mmio) addr(r Reg) *uint16 {
	return (*uint16)(unsafe.Pointer(m.base + uintptr(r)))
}

func (m mmio) Load(r Reg) uint16     { return volatile.LoadUint16(m.addr(r)) }
func (m mmio) Store(r Reg, v uint16) { volatile.StoreUint16(m.addr(r), v) }

// Atomically runs fn with interrupts masked so that a read-modify-write
// cannot interleave with an interrupt handler touching the same register.
func (m mmio) Atomically(fn func()) {
	mask := interrupt.Disable()
	fn()
	interrupt.Restore(mask)
}

// Take returns the token for instance N's memory-mapped registers. It must be
// called once per instance; the ENC clock gate must already be enabled.
func Take[N Instance]() Peripheral[N] {
	var n N
	return NewPeripheral[N](mmio{base: baseAddr[n.Number()]})
}
