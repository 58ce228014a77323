package qdc

// Reg is the byte offset of a 16-bit register from the instance base.
type Reg uint8

const (
	RegCTRL  Reg = 0x00 // control
	RegFILT  Reg = 0x02 // input filter
	RegWTR   Reg = 0x04 // watchdog timeout
	RegPOSD  Reg = 0x06 // position difference counter
	RegPOSDH Reg = 0x08 // position difference hold (R)
	RegREV   Reg = 0x0A // revolution counter
	RegREVH  Reg = 0x0C // revolution hold (R)
	RegUPOS  Reg = 0x0E // upper position counter
	RegLPOS  Reg = 0x10 // lower position counter
	RegUPOSH Reg = 0x12 // upper position hold (R)
	RegLPOSH Reg = 0x14 // lower position hold (R)
	RegUINIT Reg = 0x16 // upper initialization
	RegLINIT Reg = 0x18 // lower initialization
	RegIMR   Reg = 0x1A // input monitor (R)
	RegTST   Reg = 0x1C // test
	RegCTRL2 Reg = 0x1E // control 2
	RegUMOD  Reg = 0x20 // upper modulus
	RegLMOD  Reg = 0x22 // lower modulus
	RegUCOMP Reg = 0x24 // upper position compare
	RegLCOMP Reg = 0x26 // lower position compare

	// RegCount is the number of 16-bit registers in the window.
	RegCount = 20
)

var regNames = [RegCount]string{
	"CTRL", "FILT", "WTR", "POSD", "POSDH", "REV", "REVH", "UPOS", "LPOS", "UPOSH",
	"LPOSH", "UINIT", "LINIT", "IMR", "TST", "CTRL2", "UMOD", "LMOD", "UCOMP", "LCOMP",
}

// Index returns the register's position in a RegCount-sized array.
func (r Reg) Index() int { return int(r) >> 1 }

func (r Reg) String() string {
	if i := r.Index(); i < RegCount && r&1 == 0 {
		return regNames[i]
	}
	return "REG?"
}

// AllRegisters returns every register offset in address order.
func AllRegisters() []Reg {
	out := make([]Reg, RegCount)
	for i := range out {
		out[i] = Reg(i << 1)
	}
	return out
}

// Field is a contiguous group of bits within one register.
type Field struct {
	Reg   Reg
	Shift uint8
	Width uint8
}

// Mask returns the field's bits in register position.
func (f Field) Mask() uint16 { return uint16(1<<f.Width-1) << f.Shift }

// Max returns the largest value the field can hold.
func (f Field) Max() uint16 { return uint16(1<<f.Width - 1) }

func bit(r Reg, n uint8) Field { return Field{Reg: r, Shift: n, Width: 1} }

// CTRL
var (
	CtrlCMPIE  = bit(RegCTRL, 0)
	CtrlCMPIRQ = bit(RegCTRL, 1) // w1c
	CtrlWDE    = bit(RegCTRL, 2)
	CtrlDIE    = bit(RegCTRL, 3)
	CtrlDIRQ   = bit(RegCTRL, 4) // w1c
	CtrlXNE    = bit(RegCTRL, 5)
	CtrlXIP    = bit(RegCTRL, 6)
	CtrlXIE    = bit(RegCTRL, 7)
	CtrlXIRQ   = bit(RegCTRL, 8) // w1c
	CtrlPH1    = bit(RegCTRL, 9)
	CtrlREV    = bit(RegCTRL, 10)
	CtrlSWIP   = bit(RegCTRL, 11) // self-clearing
	CtrlHNE    = bit(RegCTRL, 12)
	CtrlHIP    = bit(RegCTRL, 13)
	CtrlHIE    = bit(RegCTRL, 14)
	CtrlHIRQ   = bit(RegCTRL, 15) // w1c
)

// FILT
var (
	FiltPER  = Field{Reg: RegFILT, Shift: 0, Width: 8}
	FiltCNT  = Field{Reg: RegFILT, Shift: 8, Width: 3}
	FiltPRSC = Field{Reg: RegFILT, Shift: 13, Width: 3}
)

// TST
var (
	TstCOUNT  = Field{Reg: RegTST, Shift: 0, Width: 8}
	TstPERIOD = Field{Reg: RegTST, Shift: 8, Width: 5}
	TstQDN    = bit(RegTST, 13)
	TstTCE    = bit(RegTST, 14)
	TstTEN    = bit(RegTST, 15)
)

// CTRL2
var (
	Ctrl2UPDHLD = bit(RegCTRL2, 0)
	Ctrl2UPDPOS = bit(RegCTRL2, 1)
	Ctrl2MOD    = bit(RegCTRL2, 2)
	Ctrl2DIR    = bit(RegCTRL2, 3) // read-only
	Ctrl2RUIE   = bit(RegCTRL2, 4)
	Ctrl2RUIRQ  = bit(RegCTRL2, 5) // w1c
	Ctrl2ROIE   = bit(RegCTRL2, 6)
	Ctrl2ROIRQ  = bit(RegCTRL2, 7) // w1c
	Ctrl2REVMOD = bit(RegCTRL2, 8)
	Ctrl2OUTCTL = bit(RegCTRL2, 9)
)

// Whole-register fields.
var (
	WtrWDOG    = word(RegWTR)
	PosdPOSD   = word(RegPOSD)
	PosdhPOSDH = word(RegPOSDH)
	RevREV     = word(RegREV)
	RevhREVH   = word(RegREVH)
	UposPOS    = word(RegUPOS)
	LposPOS    = word(RegLPOS)
	UposhPOSH  = word(RegUPOSH)
	LposhPOSH  = word(RegLPOSH)
	UinitINIT  = word(RegUINIT)
	LinitINIT  = word(RegLINIT)
	UmodMOD    = word(RegUMOD)
	LmodMOD    = word(RegLMOD)
	UcompCOMP  = word(RegUCOMP)
	LcompCOMP  = word(RegLCOMP)

	// ImrINPUTS holds FPHA FPHB FIND FHOM PHA PHB INDEX HOME, MSB first.
	ImrINPUTS = Field{Reg: RegIMR, Shift: 0, Width: 8}
)

func word(r Reg) Field { return Field{Reg: r, Shift: 0, Width: 16} }

// W1CMask returns the write-1-to-clear flag bits of r.
func W1CMask(r Reg) uint16 {
	switch r {
	case RegCTRL:
		return CtrlHIRQ.Mask() | CtrlXIRQ.Mask() | CtrlDIRQ.Mask() | CtrlCMPIRQ.Mask()
	case RegCTRL2:
		return Ctrl2ROIRQ.Mask() | Ctrl2RUIRQ.Mask()
	default:
		return 0
	}
}

// ReadOnly reports whether CPU writes to r are ignored by the peripheral.
func ReadOnly(r Reg) bool {
	switch r {
	case RegPOSDH, RegREVH, RegUPOSH, RegLPOSH, RegIMR:
		return true
	default:
		return false
	}
}

// Snapshots reports whether a read of r latches the counters into the
// hold registers.
func Snapshots(r Reg) bool {
	switch r {
	case RegPOSD, RegREV, RegUPOS, RegLPOS:
		return true
	default:
		return false
	}
}
