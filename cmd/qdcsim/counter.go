// cmd/qdcsim/counter.go
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
)

func printCounts(w io.Writer, c qdc.Counts, up bool) {
	dir := "down"
	if up {
		dir = "up"
	}
	fmt.Fprintf(w, "position=%d (%#010x) revolution=%d difference=%d direction=%s\n",
		int32(c.Position), c.Position, int16(c.Revolution), int16(c.Difference), dir)
}

// NewDumpCommand prints the whole register window without side effects.
func NewDumpCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regs := s.sim.Registers()
			for _, r := range qdc.AllRegisters() {
				fmt.Fprintf(cmd.OutOrStdout(), "%#04x %-6s %#06x\n", uint8(r), r, regs[r.Index()])
			}
			return nil
		},
	}
}

func NewReadCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Read the counters (latches the hold registers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCounts(cmd.OutOrStdout(), s.enc.Counts(), s.enc.CountDirection())
			return nil
		},
	}
}

func NewHoldCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "hold",
		Short: "Read the hold registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCounts(cmd.OutOrStdout(), s.enc.Hold(), s.enc.CountDirection())
			return nil
		},
	}
}

func NewStatusCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print sticky flags and input monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := s.enc.Inputs()
			fmt.Fprintf(cmd.OutOrStdout(), "flags=%s inputs=%#04x raw=%04b filtered=%04b\n",
				s.enc.Status(), uint8(in), in.Raw(), in.Filtered())
			return nil
		},
	}
}

func parseFlags(names []string) (qdc.Flags, error) {
	var f qdc.Flags
	for _, n := range names {
		for _, part := range strings.Split(n, "|") {
			fl, ok := qdc.ParseFlag(strings.TrimSpace(part))
			if !ok {
				return 0, &errcode.E{C: errcode.InvalidParams, Op: "flags", Msg: "unknown flag " + part}
			}
			f |= fl
		}
	}
	return f, nil
}

func NewClearCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [flag...]",
		Short: "Clear sticky flags (all if none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := qdc.AllFlags
			if len(args) > 0 {
				var err error
				if f, err = parseFlags(args); err != nil {
					return err
				}
			}
			s.enc.ClearFlags(f)
			fmt.Fprintf(cmd.OutOrStdout(), "flags=%s\n", s.enc.Status())
			return nil
		},
	}
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "parse", Msg: s, Err: err}
	}
	return uint32(v), nil
}

func NewInitCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init VALUE",
		Short: "Load VALUE into the position counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseUint32(args[0])
			if err != nil {
				return err
			}
			s.enc.InitializePositionCounterToValue(v)
			return nil
		},
	}
}
