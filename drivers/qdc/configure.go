package qdc

// Config is the complete configurable state of one instance. Sticky flags and
// counters are not part of it.
type Config struct {
	ReverseCounting bool `json:"reverse_counting,omitempty"`
	SinglePhase     bool `json:"single_phase,omitempty"`

	Watchdog WatchdogConfig  `json:"watchdog"`
	Filter   FilterConfig    `json:"filter"`
	Home     ReferenceConfig `json:"home"`
	Index    ReferenceConfig `json:"index"`
	Compare  CompareConfig   `json:"compare"`
	Modulus  ModulusConfig   `json:"modulus"`
	Trigger  TriggerConfig   `json:"trigger"`
	Test     TestConfig      `json:"test"`

	// InitValue is programmed into UINIT/LINIT; it is loaded into the
	// position counter by HOME/INDEX (if enabled) or InitializePosition.
	InitValue uint32 `json:"init_value,omitempty"`
}

type WatchdogConfig struct {
	Enable        bool   `json:"enable,omitempty"`
	Interrupt     bool   `json:"interrupt,omitempty"`
	TimeoutCycles uint16 `json:"timeout_cycles,omitempty"`
}

// FilterConfig values are clamped as by SetPrescaler, SetInputFilterCount.
// A zero SamplePeriod bypasses the filter.
type FilterConfig struct {
	Prescaler    uint16 `json:"prescaler,omitempty"`
	SampleCount  uint16 `json:"sample_count,omitempty"`
	SamplePeriod uint8  `json:"sample_period,omitempty"`
}

// ReferenceConfig applies to HOME and INDEX alike.
type ReferenceConfig struct {
	NegativeEdge       bool `json:"negative_edge,omitempty"`
	InitializePosition bool `json:"initialize_position,omitempty"`
	Interrupt          bool `json:"interrupt,omitempty"`
}

type CompareConfig struct {
	Value     uint32 `json:"value,omitempty"`
	Interrupt bool   `json:"interrupt,omitempty"`
}

type ModulusConfig struct {
	Enable             bool   `json:"enable,omitempty"`
	Value              uint32 `json:"value,omitempty"`
	RevolutionOnRoll   bool   `json:"revolution_on_roll,omitempty"`
	RolloverInterrupt  bool   `json:"rollover_interrupt,omitempty"`
	RollunderInterrupt bool   `json:"rollunder_interrupt,omitempty"`
}

type TriggerConfig struct {
	ClearPrimary   bool `json:"clear_primary,omitempty"`
	UpdatePrevious bool `json:"update_previous,omitempty"`
	MatchOnRead    bool `json:"match_on_read,omitempty"`
}

type TestConfig struct {
	Enable      bool   `json:"enable,omitempty"`
	Counter     bool   `json:"counter,omitempty"`
	Reverse     bool   `json:"reverse,omitempty"`
	PulseCount  uint16 `json:"pulse_count,omitempty"`
	PulsePeriod uint16 `json:"pulse_period,omitempty"`
}

// DefaultConfig matches the state after Reset.
func DefaultConfig() Config {
	return Config{
		Filter: FilterConfig{Prescaler: PrescalerMin, SampleCount: FilterCountMin},
	}
}

// Configure applies cfg field by field. The filter is disarmed before its
// prescaler and count change and re-armed last; the test generator is
// enabled last so it starts with its final parameters.
func (c *Controller[N]) Configure(cfg Config) {
	c.DisableInputFilter()
	c.SetPrescaler(cfg.Filter.Prescaler)
	c.SetInputFilterCount(cfg.Filter.SampleCount)

	c.SetReverseCountingEnable(cfg.ReverseCounting)
	c.SetSinglePhaseCountingEnable(cfg.SinglePhase)

	c.SetWatchdogTimeoutCycles(cfg.Watchdog.TimeoutCycles)
	c.SetWatchdogInterruptOnTimeoutEnable(cfg.Watchdog.Interrupt)
	c.SetWatchdogEnable(cfg.Watchdog.Enable)

	c.SetPositionInitializationValue(cfg.InitValue)

	c.SetHomeSignalNegativeEdgeEnable(cfg.Home.NegativeEdge)
	c.SetHomeInitializePositionCounterEnable(cfg.Home.InitializePosition)
	c.SetHomeSignalInterruptEnable(cfg.Home.Interrupt)

	c.SetIndexSignalNegativeEdgeEnable(cfg.Index.NegativeEdge)
	c.SetIndexInitializePositionCounterEnable(cfg.Index.InitializePosition)
	c.SetIndexSignalInterruptEnable(cfg.Index.Interrupt)

	c.SetCompareValue(cfg.Compare.Value)
	c.SetCompareInterruptEnable(cfg.Compare.Interrupt)

	c.SetModulusValue(cfg.Modulus.Value)
	c.SetRevolutionModulusModeEnable(cfg.Modulus.RevolutionOnRoll)
	c.SetModulusRolloverInterruptEnable(cfg.Modulus.RolloverInterrupt)
	c.SetModulusRollunderInterruptEnable(cfg.Modulus.RollunderInterrupt)
	c.SetModulusCountingEnable(cfg.Modulus.Enable)

	c.SetTriggerClearPrimaryEnable(cfg.Trigger.ClearPrimary)
	c.SetTriggerUpdatePreviousEnable(cfg.Trigger.UpdatePrevious)
	c.SetPositionMatchOnReadEnable(cfg.Trigger.MatchOnRead)

	c.SetTestPulseCount(cfg.Test.PulseCount)
	c.SetTestPulsePeriod(cfg.Test.PulsePeriod)
	c.SetTestReverseModeEnable(cfg.Test.Reverse)
	c.SetTestModeEnable(cfg.Test.Enable)
	c.SetTestCounterEnable(cfg.Test.Counter)

	if cfg.Filter.SamplePeriod != 0 {
		c.SetInputSamplingPeriod(cfg.Filter.SamplePeriod)
	}
}

// Config reads the current configuration back. Numeric fields come back as
// the hardware holds them, i.e. after clamping.
func (c *Controller[N]) Config() Config {
	return Config{
		ReverseCounting: c.IsReverseCountingEnabled(),
		SinglePhase:     c.IsSinglePhaseCountingEnabled(),
		Watchdog: WatchdogConfig{
			Enable:        c.IsWatchdogEnabled(),
			Interrupt:     c.IsWatchdogInterruptOnTimeoutEnabled(),
			TimeoutCycles: c.WatchdogTimeoutCycles(),
		},
		Filter: FilterConfig{
			Prescaler:    c.Prescaler(),
			SampleCount:  c.InputFilterCount(),
			SamplePeriod: uint8(c.InputSamplingPeriod()),
		},
		Home: ReferenceConfig{
			NegativeEdge:       c.IsHomeSignalNegativeEdgeEnabled(),
			InitializePosition: c.IsHomeInitializePositionCounterEnabled(),
			Interrupt:          c.IsHomeSignalInterruptEnabled(),
		},
		Index: ReferenceConfig{
			NegativeEdge:       c.IsIndexSignalNegativeEdgeEnabled(),
			InitializePosition: c.IsIndexInitializePositionCounterEnabled(),
			Interrupt:          c.IsIndexSignalInterruptEnabled(),
		},
		Compare: CompareConfig{
			Value:     c.CompareValue(),
			Interrupt: c.IsCompareInterruptEnabled(),
		},
		Modulus: ModulusConfig{
			Enable:             c.IsModulusCountingEnabled(),
			Value:              c.ModulusValue(),
			RevolutionOnRoll:   c.IsRevolutionModulusModeEnabled(),
			RolloverInterrupt:  c.IsModulusRolloverInterruptEnabled(),
			RollunderInterrupt: c.IsModulusRollunderInterruptEnabled(),
		},
		Trigger: TriggerConfig{
			ClearPrimary:   c.IsTriggerClearPrimaryEnabled(),
			UpdatePrevious: c.IsTriggerUpdatePreviousEnabled(),
			MatchOnRead:    c.IsPositionMatchOnReadEnabled(),
		},
		Test: TestConfig{
			Enable:      c.IsTestModeEnabled(),
			Counter:     c.IsTestCounterEnabled(),
			Reverse:     c.IsTestReverseModeEnabled(),
			PulseCount:  c.TestPulseCount(),
			PulsePeriod: c.TestPulsePeriod(),
		},
		InitValue: c.PositionInitializationValue(),
	}
}
