// cmd/qdcsim/root.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"qdc-go/drivers/qdc/qdcsim"
	"qdc-go/errcode"
	"qdc-go/services/encoder"
	"qdc-go/x/mathx"
)

const (
	DBOptionName       = "db"
	InstanceOptionName = "instance"
	TraceOptionName    = "trace"
)

// session is the state shared by one command invocation: the simulated
// register file loaded from the store and a controller driving it.
type session struct {
	dbPath   string
	instance uint8
	trace    bool

	store *qdcsim.Store
	sim   *qdcsim.Sim
	enc   encoder.Encoder
}

func (s *session) open() error {
	if !mathx.Between(s.instance, 1, 4) {
		return &errcode.E{C: errcode.UnknownInstance, Op: "open", Msg: fmt.Sprintf("instance %d", s.instance)}
	}
	st, err := qdcsim.OpenStore(s.dbPath)
	if err != nil {
		return errcode.Wrap(errcode.StoreFailed, "open "+s.dbPath, err)
	}
	sim, err := st.Load(s.instance)
	if err != nil {
		st.Close()
		return errcode.Wrap(errcode.StoreFailed, "load", err)
	}
	s.store, s.sim = st, sim
	s.enc = encoder.NewController(s.instance, sim)
	return nil
}

func (s *session) close(errOut io.Writer) error {
	if s.store == nil {
		return nil
	}
	defer func() {
		s.store.Close()
		s.store = nil
	}()
	if s.trace {
		for _, a := range s.sim.Trace() {
			fmt.Fprintln(errOut, a)
		}
	}
	if err := s.store.Save(s.instance, s.sim); err != nil {
		return errcode.Wrap(errcode.StoreFailed, "save", err)
	}
	return nil
}

func NewRootCommand(out io.Writer) *cobra.Command {
	s := &session{}
	var instance uint
	cmd := &cobra.Command{
		Use:          "qdcsim",
		Short:        "Drive a simulated ENC quadrature decoder",
		SilenceUsage: true,
	}
	// withSession loads the instance before RunE and saves it afterwards,
	// also when RunE fails.
	withSession := func(c *cobra.Command) *cobra.Command {
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			s.instance = uint8(mathx.Clamp(instance, 0, 255))
			if err := s.open(); err != nil {
				return err
			}
			err := run(cmd, args)
			if cerr := s.close(cmd.ErrOrStderr()); err == nil {
				err = cerr
			}
			return err
		}
		return c
	}

	cmd.SetOut(out)
	for _, c := range []*cobra.Command{
		NewDumpCommand(s),
		NewReadCommand(s),
		NewHoldCommand(s),
		NewStatusCommand(s),
		NewClearCommand(s),
		NewInitCommand(s),
		NewConfigCommand(s),
		NewApplyCommand(s),
		NewResetCommand(s),
		NewCountCommand(s),
		NewIndexCommand(s),
		NewHomeCommand(s),
		NewTriggerCommand(s),
		NewRaiseCommand(s),
		NewInputsCommand(s),
		NewTestGenCommand(s),
	} {
		cmd.AddCommand(withSession(c))
	}
	cmd.AddCommand(NewListCommand(s))

	cmd.PersistentFlags().StringVar(&s.dbPath, DBOptionName, "qdcsim.db", "bbolt file holding the simulated registers")
	cmd.PersistentFlags().UintVarP(&instance, InstanceOptionName, "i", 1, "ENC instance (1..4)")
	cmd.PersistentFlags().BoolVar(&s.trace, TraceOptionName, false, "print register accesses to stderr")
	return cmd
}

// NewListCommand lists the instances that have saved state.
func NewListCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List instances with saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := qdcsim.OpenStore(s.dbPath)
			if err != nil {
				return errcode.Wrap(errcode.StoreFailed, "open "+s.dbPath, err)
			}
			defer st.Close()
			ids, err := st.Instances()
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "ENC%d\n", id)
			}
			return nil
		},
	}
}
