// cmd/qdcsim/config.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
)

const FileOptionName = "file"

func printConfig(cmd *cobra.Command, cfg qdc.Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

// NewConfigCommand prints the configuration read back from the registers.
func NewConfigCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the current configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfig(cmd, s.enc.Config())
		},
	}
}

// NewApplyCommand applies a YAML qdc.Config and prints what the hardware
// accepted after clamping.
func NewApplyCommand(s *session) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a configuration from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			cfg := qdc.DefaultConfig()
			if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
				return errcode.Wrap(errcode.InvalidPayload, "apply "+file, err)
			}
			s.enc.Configure(cfg)
			return printConfig(cmd, s.enc.Config())
		},
	}
	cmd.Flags().StringVarP(&file, FileOptionName, "f", "", "YAML file")
	_ = cmd.MarkFlagRequired(FileOptionName)
	return cmd
}

func NewResetCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Return the instance to its power-on state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.enc.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "reset")
			return nil
		},
	}
}
