package qdc

// Flags is a set of sticky interrupt flags. Hardware sets a flag whether or
// not its interrupt is enabled; only an explicit clear resets it.
type Flags uint8

const (
	FlagWatchdogTimeout Flags = 1 << iota
	FlagHome
	FlagIndex
	FlagCompare
	FlagRollover
	FlagRollunder

	AllFlags = FlagWatchdogTimeout | FlagHome | FlagIndex | FlagCompare | FlagRollover | FlagRollunder
)

var flagInfo = [...]struct {
	flag  Flags
	field Field
	name  string
}{
	{FlagWatchdogTimeout, CtrlDIRQ, "watchdog"},
	{FlagHome, CtrlHIRQ, "home"},
	{FlagIndex, CtrlXIRQ, "index"},
	{FlagCompare, CtrlCMPIRQ, "compare"},
	{FlagRollover, Ctrl2ROIRQ, "rollover"},
	{FlagRollunder, Ctrl2RUIRQ, "rollunder"},
}

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Names returns the names of the set flags in a fixed order.
func (f Flags) Names() []string {
	var out []string
	for _, fi := range flagInfo {
		if f.Has(fi.flag) {
			out = append(out, fi.name)
		}
	}
	return out
}

func (f Flags) String() string {
	s := ""
	for _, n := range f.Names() {
		if s != "" {
			s += "|"
		}
		s += n
	}
	if s == "" {
		return "none"
	}
	return s
}

// ParseFlag maps a flag name as returned by Names back to its bit.
func ParseFlag(name string) (Flags, bool) {
	for _, fi := range flagInfo {
		if fi.name == name {
			return fi.flag, true
		}
	}
	return 0, false
}

// Status reads all sticky flags.
func (c *Controller[N]) Status() Flags {
	var f Flags
	for _, fi := range flagInfo {
		if c.is(fi.field) {
			f |= fi.flag
		}
	}
	return f
}

// ClearFlags clears each flag in f with its own dedicated write.
func (c *Controller[N]) ClearFlags(f Flags) {
	for _, fi := range flagInfo {
		if f.Has(fi.flag) {
			c.clear(fi.field)
		}
	}
}

// ---------------- Watchdog ----------------

// ClearWatchdogTimeout clears the watchdog timeout flag.
func (c *Controller[N]) ClearWatchdogTimeout() { c.clear(CtrlDIRQ) }

// IsWatchdogTimeout reports the watchdog timeout flag. It stays set until
// cleared or the watchdog is disabled.
func (c *Controller[N]) IsWatchdogTimeout() bool { return c.is(CtrlDIRQ) }

// ---------------- HOME / INDEX ----------------

func (c *Controller[N]) ClearHomeSignalInterrupt()       { c.clear(CtrlHIRQ) }
func (c *Controller[N]) IsHomeSignalInterruptSet() bool  { return c.is(CtrlHIRQ) }
func (c *Controller[N]) ClearIndexSignalInterrupt()      { c.clear(CtrlXIRQ) }
func (c *Controller[N]) IsIndexSignalInterruptSet() bool { return c.is(CtrlXIRQ) }
func (c *Controller[N]) ClearCompareInterrupt()          { c.clear(CtrlCMPIRQ) }
func (c *Controller[N]) IsCompareInterruptSet() bool     { return c.is(CtrlCMPIRQ) }

// ---------------- Modulus roll ----------------

// SetModulusRollunderInterruptEnable gates the rollunder interrupt.
// The exact wrap condition that raises the flag is not pinned down here;
// see the reference manual for the part in use.
func (c *Controller[N]) SetModulusRollunderInterruptEnable(enable bool) { c.set(Ctrl2RUIE, enable) }
func (c *Controller[N]) IsModulusRollunderInterruptEnabled() bool       { return c.is(Ctrl2RUIE) }
func (c *Controller[N]) ClearModulusRollunderInterrupt()                { c.clear(Ctrl2RUIRQ) }
func (c *Controller[N]) IsModulusRollunderInterruptSet() bool           { return c.is(Ctrl2RUIRQ) }

// SetModulusRolloverInterruptEnable gates the rollover interrupt. As with
// rollunder, the wrap condition is part-specific.
func (c *Controller[N]) SetModulusRolloverInterruptEnable(enable bool) { c.set(Ctrl2ROIE, enable) }
func (c *Controller[N]) IsModulusRolloverInterruptEnabled() bool       { return c.is(Ctrl2ROIE) }
func (c *Controller[N]) ClearModulusRolloverInterrupt()                { c.clear(Ctrl2ROIRQ) }
func (c *Controller[N]) IsModulusRolloverInterruptSet() bool           { return c.is(Ctrl2ROIRQ) }
