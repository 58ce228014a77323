package qdc_test

import (
	"testing"

	"qdc-go/drivers/qdc"
)

func TestStickyFlagsSurviveDisable(t *testing.T) {
	c, sim := newQDC(t)
	type flag struct {
		name   string
		raise  qdc.Flags
		enable func(bool)
		isSet  func() bool
		clear  func()
	}
	flags := []flag{
		{"watchdog", qdc.FlagWatchdogTimeout, c.SetWatchdogInterruptOnTimeoutEnable, c.IsWatchdogTimeout, c.ClearWatchdogTimeout},
		{"home", qdc.FlagHome, c.SetHomeSignalInterruptEnable, c.IsHomeSignalInterruptSet, c.ClearHomeSignalInterrupt},
		{"index", qdc.FlagIndex, c.SetIndexSignalInterruptEnable, c.IsIndexSignalInterruptSet, c.ClearIndexSignalInterrupt},
		{"compare", qdc.FlagCompare, c.SetCompareInterruptEnable, c.IsCompareInterruptSet, c.ClearCompareInterrupt},
		{"rollover", qdc.FlagRollover, c.SetModulusRolloverInterruptEnable, c.IsModulusRolloverInterruptSet, c.ClearModulusRolloverInterrupt},
		{"rollunder", qdc.FlagRollunder, c.SetModulusRollunderInterruptEnable, c.IsModulusRollunderInterruptSet, c.ClearModulusRollunderInterrupt},
	}

	for _, f := range flags {
		f.enable(true)
		sim.Raise(f.raise)
		f.enable(false)
		if !f.isSet() {
			t.Fatalf("%s: flag lost after disabling its interrupt", f.name)
		}
		f.enable(true)
		f.enable(false)
		if !f.isSet() {
			t.Fatalf("%s: flag lost after toggling its interrupt", f.name)
		}
		f.clear()
		if f.isSet() {
			t.Fatalf("%s: flag still set after clear", f.name)
		}
	}
}

func TestClearOnlyTouchesOneFlag(t *testing.T) {
	c, sim := newQDC(t)
	sim.Raise(qdc.AllFlags)

	c.ClearHomeSignalInterrupt()
	if got, want := c.Status(), qdc.AllFlags&^qdc.FlagHome; got != want {
		t.Fatalf("after ClearHome: %v, want %v", got, want)
	}
	c.ClearModulusRolloverInterrupt()
	if got, want := c.Status(), qdc.AllFlags&^(qdc.FlagHome|qdc.FlagRollover); got != want {
		t.Fatalf("after ClearRollover: %v, want %v", got, want)
	}

	c.ClearFlags(qdc.FlagIndex | qdc.FlagCompare)
	if got, want := c.Status(), qdc.FlagWatchdogTimeout|qdc.FlagRollunder; got != want {
		t.Fatalf("after ClearFlags: %v, want %v", got, want)
	}
	c.ClearFlags(qdc.AllFlags)
	if got := c.Status(); got != 0 {
		t.Fatalf("after ClearFlags(All): %v", got)
	}
}

func TestFlagsSetWithoutInterruptEnable(t *testing.T) {
	c, sim := newQDC(t)
	c.SetCompareValue(100)
	sim.Count(150)
	if !c.IsCompareInterruptSet() {
		t.Fatalf("compare flag not set with interrupt disabled")
	}
	sim.Index()
	sim.Home()
	if got := c.Status(); got != qdc.FlagCompare|qdc.FlagIndex|qdc.FlagHome {
		t.Fatalf("Status() = %v", got)
	}
}

func TestWatchdogTimeout(t *testing.T) {
	c, sim := newQDC(t)
	sim.WatchdogExpire()
	if c.IsWatchdogTimeout() {
		t.Fatalf("disabled watchdog timed out")
	}
	c.SetWatchdogEnable(true)
	c.SetWatchdogTimeoutCycles(1000)
	sim.WatchdogExpire()
	if !c.IsWatchdogTimeout() {
		t.Fatalf("timeout flag not set")
	}
	c.ClearWatchdogTimeout()
	if c.IsWatchdogTimeout() {
		t.Fatalf("timeout flag not cleared")
	}
	if !c.IsWatchdogEnabled() {
		t.Fatalf("clearing the flag disabled the watchdog")
	}
}

func TestFlagNames(t *testing.T) {
	f := qdc.FlagHome | qdc.FlagRollunder
	if got := f.String(); got != "home|rollunder" {
		t.Fatalf("String() = %q", got)
	}
	if got := qdc.Flags(0).String(); got != "none" {
		t.Fatalf("empty String() = %q", got)
	}
	for _, n := range qdc.AllFlags.Names() {
		fl, ok := qdc.ParseFlag(n)
		if !ok || !qdc.AllFlags.Has(fl) {
			t.Fatalf("ParseFlag(%q) = %v, %v", n, fl, ok)
		}
	}
	if _, ok := qdc.ParseFlag("bogus"); ok {
		t.Fatalf("ParseFlag accepted unknown name")
	}
}
