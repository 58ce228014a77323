// cmd/qdcsim/stimulus.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
)

// Stimulus commands act on the hardware side of the simulator.

func NewCountCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "count N",
		Short: "Apply N quadrature counts (use -- before negative N)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 0, 32)
			if err != nil {
				return &errcode.E{C: errcode.InvalidParams, Op: "count", Msg: args[0], Err: err}
			}
			s.sim.Count(int32(n))
			return nil
		},
	}
}

func NewIndexCommand(s *session) *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Pulse the INDEX input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i := 0; i < times; i++ {
				s.sim.Index()
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "number of pulses")
	return cmd
}

func NewHomeCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Pulse the HOME input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.sim.Home()
			return nil
		},
	}
}

func NewTriggerCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Pulse the TRIGGER input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.sim.Trigger()
			return nil
		},
	}
}

func NewRaiseCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "raise FLAG...",
		Short: "Set sticky flags directly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFlags(args)
			if err != nil {
				return err
			}
			s.sim.Raise(f)
			return nil
		},
	}
}

func NewInputsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "inputs BITMAP",
		Short: "Set the input monitor bitmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[0], 0, 8)
			if err != nil {
				return &errcode.E{C: errcode.InvalidParams, Op: "inputs", Msg: args[0], Err: err}
			}
			s.sim.SetInputs(qdc.Inputs(v))
			return nil
		},
	}
}

// NewTestGenCommand programs the test-signal generator and runs one burst.
func NewTestGenCommand(s *session) *cobra.Command {
	var count, period uint16
	var reverse bool
	cmd := &cobra.Command{
		Use:   "test-gen",
		Short: "Run the test-signal generator once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.enc.SetTestModeEnable(false)
			s.enc.SetTestCounterEnable(false)
			s.enc.SetTestPulseCount(count)
			s.enc.SetTestPulsePeriod(period)
			s.enc.SetTestReverseModeEnable(reverse)
			s.enc.SetTestModeEnable(true)
			s.enc.SetTestCounterEnable(true)
			n := s.sim.RunTestGenerator()
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d counts\n", n)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&count, "count", 16, "pulses per burst (clamped to 255)")
	cmd.Flags().Uint16Var(&period, "period", 1, "pulse period (clamped to 31)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "count down")
	return cmd
}
