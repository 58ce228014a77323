package qdcsim

import (
	"path/filepath"
	"testing"

	"qdc-go/drivers/qdc"
)

func TestReadOnlyRegistersIgnoreWrites(t *testing.T) {
	s := New()
	s.Poke(qdc.RegIMR, 0x55)
	s.Store(qdc.RegIMR, 0)
	s.Store(qdc.RegUPOSH, 9)
	if got := s.Peek(qdc.RegIMR); got != 0x55 {
		t.Fatalf("IMR = %#x, want 0x55", got)
	}
	if got := s.Peek(qdc.RegUPOSH); got != 0 {
		t.Fatalf("UPOSH = %d, want 0", got)
	}
	if n := len(s.Stores(qdc.RegIMR)); n != 1 {
		t.Fatalf("ignored write not traced: %d", n)
	}
}

func TestWriteOneToClear(t *testing.T) {
	s := New()
	s.Poke(qdc.RegCTRL, qdc.CtrlHIRQ.Mask()|qdc.CtrlXIRQ.Mask())

	// Writing zero to a flag leaves it; writing one clears it.
	s.Store(qdc.RegCTRL, qdc.CtrlHIRQ.Mask()|qdc.CtrlWDE.Mask())
	want := qdc.CtrlXIRQ.Mask() | qdc.CtrlWDE.Mask()
	if got := s.Peek(qdc.RegCTRL); got != want {
		t.Fatalf("CTRL = %#04x, want %#04x", got, want)
	}

	// Writing one to a clear flag does not set it.
	s.Store(qdc.RegCTRL2, qdc.Ctrl2ROIRQ.Mask())
	if got := s.Peek(qdc.RegCTRL2); got != 0 {
		t.Fatalf("CTRL2 = %#04x, want 0", got)
	}
}

func TestDirectionIsReadOnly(t *testing.T) {
	s := New()
	s.Count(1)
	s.Store(qdc.RegCTRL2, 0)
	if s.Peek(qdc.RegCTRL2)&qdc.Ctrl2DIR.Mask() == 0 {
		t.Fatalf("CPU write cleared DIR")
	}
	s.Store(qdc.RegCTRL2, qdc.Ctrl2MOD.Mask())
	s.Count(-1)
	if got := s.Peek(qdc.RegCTRL2); got != qdc.Ctrl2MOD.Mask() {
		t.Fatalf("CTRL2 = %#04x", got)
	}
}

func TestSoftwareInitSelfClears(t *testing.T) {
	s := New()
	s.Store(qdc.RegUINIT, 0x0001)
	s.Store(qdc.RegLINIT, 0x0002)
	s.Count(40)
	s.Store(qdc.RegCTRL, qdc.CtrlSWIP.Mask()|qdc.CtrlPH1.Mask())
	if got := s.Peek(qdc.RegCTRL); got != qdc.CtrlPH1.Mask() {
		t.Fatalf("CTRL = %#04x, SWIP should read back as zero", got)
	}
	if got := s.position(); got != 0x00010002 {
		t.Fatalf("position = %#x", got)
	}
}

func TestSnapshotReadLatchesAndClears(t *testing.T) {
	s := New()
	s.Count(-2)
	s.Index()

	if got := s.Load(qdc.RegREV); got != 0xFFFF {
		t.Fatalf("REV = %#x", got)
	}
	regs := s.Registers()
	if regs[qdc.RegREVH.Index()] != 0xFFFF || regs[qdc.RegPOSDH.Index()] != 0xFFFE {
		t.Fatalf("holds not latched: REVH=%#x POSDH=%#x", regs[qdc.RegREVH.Index()], regs[qdc.RegPOSDH.Index()])
	}
	if regs[qdc.RegUPOSH.Index()] != 0xFFFF || regs[qdc.RegLPOSH.Index()] != 0xFFFE {
		t.Fatalf("position holds = %#x:%#x", regs[qdc.RegUPOSH.Index()], regs[qdc.RegLPOSH.Index()])
	}
	if regs[qdc.RegREV.Index()] != 0 {
		t.Fatalf("REV not cleared by its read")
	}
	if regs[qdc.RegPOSD.Index()] != 0xFFFE {
		t.Fatalf("POSD cleared by a REV read")
	}
}

func TestFilterHazardCounting(t *testing.T) {
	s := New()
	s.Store(qdc.RegFILT, 4)
	s.Store(qdc.RegFILT, 4|0x0100)
	if s.FilterHazards() != 0 {
		t.Fatalf("same period counted as hazard")
	}
	s.Store(qdc.RegFILT, 6)
	if s.FilterHazards() != 1 {
		t.Fatalf("FilterHazards() = %d, want 1", s.FilterHazards())
	}
	s.Store(qdc.RegFILT, 0)
	s.Store(qdc.RegFILT, 9)
	if s.FilterHazards() != 1 {
		t.Fatalf("zero-first rewrite counted as hazard")
	}
}

func TestRaiseIgnoresEnables(t *testing.T) {
	s := New()
	s.Raise(qdc.FlagRollover | qdc.FlagWatchdogTimeout)
	if s.Peek(qdc.RegCTRL) != qdc.CtrlDIRQ.Mask() {
		t.Fatalf("CTRL = %#04x", s.Peek(qdc.RegCTRL))
	}
	if s.Peek(qdc.RegCTRL2) != qdc.Ctrl2ROIRQ.Mask() {
		t.Fatalf("CTRL2 = %#04x", s.Peek(qdc.RegCTRL2))
	}
}

func TestTraceString(t *testing.T) {
	s := New()
	s.Store(qdc.RegWTR, 0x10)
	s.Load(qdc.RegWTR)
	tr := s.Trace()
	if len(tr) != 2 {
		t.Fatalf("trace len = %d", len(tr))
	}
	if got := tr[0].String(); got != "W WTR=0x0010" {
		t.Fatalf("trace[0] = %q", got)
	}
	if got := tr[1].String(); got != "R WTR=0x0010" {
		t.Fatalf("trace[1] = %q", got)
	}
	s.ResetTrace()
	if len(s.Trace()) != 0 {
		t.Fatalf("ResetTrace left entries")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	st, err := OpenStore(filepath.Join(t.TempDir(), "qdc.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer st.Close()

	empty, err := st.Load(2)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if empty.Registers() != [qdc.RegCount]uint16{} {
		t.Fatalf("unsaved instance not zeroed")
	}

	s := New()
	s.Store(qdc.RegUMOD, 0x1234)
	s.Store(qdc.RegLMOD, 0x5678)
	s.Count(300)
	s.Raise(qdc.FlagHome)
	if err := st.Save(2, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save(4, New()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := st.Load(2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Registers() != s.Registers() {
		t.Fatalf("loaded registers differ:\n got %v\nwant %v", got.Registers(), s.Registers())
	}
	if len(got.Trace()) != 0 {
		t.Fatalf("Load produced a trace")
	}

	ids, err := st.Instances()
	if err != nil {
		t.Fatalf("Instances: %v", err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 4 {
		t.Fatalf("Instances() = %v, want [2 4]", ids)
	}
}
