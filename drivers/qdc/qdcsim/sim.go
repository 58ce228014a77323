// Package qdcsim simulates an ENC register window on the host.
//
// The simulator models what the driver relies on: write-1-to-clear flags,
// read-only registers, the hold-register latch on counter reads, SWIP, and
// the test-signal generator. It also keeps a trace of every register access.
// Modulus wrap is not simulated; roll flags are raised explicitly with Raise.
package qdcsim

import (
	"fmt"
	"sync"

	"qdc-go/drivers/qdc"
	"qdc-go/x/mathx"
)

type Op uint8

const (
	OpLoad Op = iota
	OpStore
)

func (o Op) String() string {
	if o == OpStore {
		return "W"
	}
	return "R"
}

// Access is one register transaction seen by the simulator.
type Access struct {
	Op    Op
	Reg   qdc.Reg
	Value uint16
}

func (a Access) String() string { return fmt.Sprintf("%s %s=%#06x", a.Op, a.Reg, a.Value) }

// Sim implements qdc.RegisterFile. Hardware-side stimulus (Count, Index,
// Raise, ...) may come from another goroutine.
type Sim struct {
	mu    sync.Mutex
	regs  [qdc.RegCount]uint16
	trace []Access

	// filtHazards counts FILT writes that changed a non-zero sample period
	// to another non-zero value.
	filtHazards int
}

func New() *Sim { return &Sim{} }

// ---------------- qdc.RegisterFile ----------------

func (s *Sim) Load(r qdc.Reg) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.regs[r.Index()]
	s.trace = append(s.trace, Access{Op: OpLoad, Reg: r, Value: v})
	if qdc.Snapshots(r) {
		s.latch()
		s.clearRead(r)
	}
	return v
}

func (s *Sim) Store(r qdc.Reg, v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = append(s.trace, Access{Op: OpStore, Reg: r, Value: v})
	if qdc.ReadOnly(r) {
		return
	}
	cur := s.regs[r.Index()]
	switch r {
	case qdc.RegCTRL:
		next := w1c(r, cur, v) &^ qdc.CtrlSWIP.Mask()
		s.regs[r.Index()] = next
		if v&qdc.CtrlSWIP.Mask() != 0 {
			s.loadInit()
		}
	case qdc.RegCTRL2:
		dir := qdc.Ctrl2DIR.Mask()
		s.regs[r.Index()] = w1c(r, cur, v)&^dir | cur&dir
	case qdc.RegFILT:
		was, now := field(cur, qdc.FiltPER), field(v, qdc.FiltPER)
		if was != 0 && now != 0 && was != now {
			s.filtHazards++
		}
		s.regs[r.Index()] = v
	default:
		s.regs[r.Index()] = v
	}
}

// w1c merges a CPU write into a register holding write-1-to-clear flags.
func w1c(r qdc.Reg, cur, v uint16) uint16 {
	m := qdc.W1CMask(r)
	return v&^m | cur&m&^v
}

func field(v uint16, f qdc.Field) uint16 { return (v & f.Mask()) >> f.Shift }

// latch copies the counters into the hold registers. Caller holds mu.
func (s *Sim) latch() {
	s.regs[qdc.RegPOSDH.Index()] = s.regs[qdc.RegPOSD.Index()]
	s.regs[qdc.RegREVH.Index()] = s.regs[qdc.RegREV.Index()]
	s.regs[qdc.RegUPOSH.Index()] = s.regs[qdc.RegUPOS.Index()]
	s.regs[qdc.RegLPOSH.Index()] = s.regs[qdc.RegLPOS.Index()]
}

// clearRead zeroes the counter that was read; UPOS and LPOS are one counter.
func (s *Sim) clearRead(r qdc.Reg) {
	switch r {
	case qdc.RegUPOS, qdc.RegLPOS:
		s.setPosition(0)
	default:
		s.regs[r.Index()] = 0
	}
}

func (s *Sim) loadInit() {
	s.regs[qdc.RegUPOS.Index()] = s.regs[qdc.RegUINIT.Index()]
	s.regs[qdc.RegLPOS.Index()] = s.regs[qdc.RegLINIT.Index()]
}

func (s *Sim) position() uint32 {
	return mathx.Join16(s.regs[qdc.RegUPOS.Index()], s.regs[qdc.RegLPOS.Index()])
}

func (s *Sim) setPosition(v uint32) {
	u, l := mathx.Split16(v)
	s.regs[qdc.RegUPOS.Index()] = u
	s.regs[qdc.RegLPOS.Index()] = l
}

func (s *Sim) bit(f qdc.Field) bool { return field(s.regs[f.Reg.Index()], f) == 1 }

func (s *Sim) setBit(f qdc.Field, on bool) {
	if on {
		s.regs[f.Reg.Index()] |= f.Mask()
	} else {
		s.regs[f.Reg.Index()] &^= f.Mask()
	}
}

// ---------------- Hardware-side stimulus ----------------

// Count applies n quadrature counts, positive meaning the forward direction
// of the inputs. CTRL.REV inverts the counting direction. The compare flag is
// raised when the position passes through the compare value.
func (s *Sim) Count(n int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count(n)
}

func (s *Sim) count(n int32) {
	if n == 0 {
		return
	}
	if s.bit(qdc.CtrlREV) {
		n = -n
	}
	step := uint32(1)
	if n < 0 {
		step = ^uint32(0)
		n = -n
	}
	cmp := mathx.Join16(s.regs[qdc.RegUCOMP.Index()], s.regs[qdc.RegLCOMP.Index()])
	pos := s.position()
	posd := s.regs[qdc.RegPOSD.Index()]
	for i := int32(0); i < n; i++ {
		pos += step
		posd += uint16(step)
		if pos == cmp {
			s.setBit(qdc.CtrlCMPIRQ, true)
		}
	}
	s.setPosition(pos)
	s.regs[qdc.RegPOSD.Index()] = posd
	s.setBit(qdc.Ctrl2DIR, step == 1)
}

// Index simulates an active INDEX edge: the revolution counter moves in the
// last counting direction, the INDEX flag is raised and, if enabled, the
// position counter is initialized.
func (s *Sim) Index() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bit(qdc.Ctrl2DIR) {
		s.regs[qdc.RegREV.Index()]++
	} else {
		s.regs[qdc.RegREV.Index()]--
	}
	s.setBit(qdc.CtrlXIRQ, true)
	if s.bit(qdc.CtrlXIP) {
		s.loadInit()
	}
}

// Home simulates an active HOME edge.
func (s *Sim) Home() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setBit(qdc.CtrlHIRQ, true)
	if s.bit(qdc.CtrlHIP) {
		s.loadInit()
	}
}

// Trigger simulates a rising edge on TRIGGER.
func (s *Sim) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bit(qdc.Ctrl2UPDHLD) {
		s.latch()
	}
	if s.bit(qdc.Ctrl2UPDPOS) {
		s.regs[qdc.RegPOSD.Index()] = 0
		s.regs[qdc.RegREV.Index()] = 0
		s.setPosition(0)
	}
}

// WatchdogExpire simulates the watchdog running out. Only an enabled
// watchdog raises its flag.
func (s *Sim) WatchdogExpire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bit(qdc.CtrlWDE) {
		s.setBit(qdc.CtrlDIRQ, true)
	}
}

var flagFields = map[qdc.Flags]qdc.Field{
	qdc.FlagWatchdogTimeout: qdc.CtrlDIRQ,
	qdc.FlagHome:            qdc.CtrlHIRQ,
	qdc.FlagIndex:           qdc.CtrlXIRQ,
	qdc.FlagCompare:         qdc.CtrlCMPIRQ,
	qdc.FlagRollover:        qdc.Ctrl2ROIRQ,
	qdc.FlagRollunder:       qdc.Ctrl2RUIRQ,
}

// Raise sets sticky flags directly, regardless of their enables.
func (s *Sim) Raise(f qdc.Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for flag, fld := range flagFields {
		if f.Has(flag) {
			s.setBit(fld, true)
		}
	}
}

// SetInputs sets the IMR bitmap.
func (s *Sim) SetInputs(in qdc.Inputs) {
	s.mu.Lock()
	s.regs[qdc.RegIMR.Index()] = uint16(in)
	s.mu.Unlock()
}

// RunTestGenerator emits one burst from the test generator if test mode and
// the test counter are enabled, and returns the number of counts applied.
func (s *Sim) RunTestGenerator() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bit(qdc.TstTEN) || !s.bit(qdc.TstTCE) {
		return 0
	}
	n := int32(field(s.regs[qdc.RegTST.Index()], qdc.TstCOUNT))
	if s.bit(qdc.TstQDN) {
		n = -n
	}
	s.count(n)
	return n
}

// ---------------- Inspection ----------------

// Peek returns a register without side effects or tracing.
func (s *Sim) Peek(r qdc.Reg) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[r.Index()]
}

// Poke sets a register without side effects or tracing, including
// registers the CPU cannot write.
func (s *Sim) Poke(r qdc.Reg, v uint16) {
	s.mu.Lock()
	s.regs[r.Index()] = v
	s.mu.Unlock()
}

// Registers returns a copy of the whole register window.
func (s *Sim) Registers() [qdc.RegCount]uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs
}

// SetRegisters replaces the whole register window.
func (s *Sim) SetRegisters(regs [qdc.RegCount]uint16) {
	s.mu.Lock()
	s.regs = regs
	s.mu.Unlock()
}

// Trace returns the accesses recorded since the last ResetTrace.
func (s *Sim) Trace() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Access(nil), s.trace...)
}

// Stores returns only the writes to r from the trace.
func (s *Sim) Stores(r qdc.Reg) []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint16
	for _, a := range s.trace {
		if a.Op == OpStore && a.Reg == r {
			out = append(out, a.Value)
		}
	}
	return out
}

func (s *Sim) ResetTrace() {
	s.mu.Lock()
	s.trace = s.trace[:0]
	s.mu.Unlock()
}

// FilterHazards returns how many times FILT_PER was changed from one
// non-zero value to another without passing through zero.
func (s *Sim) FilterHazards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtHazards
}

var _ qdc.RegisterFile = (*Sim)(nil)
