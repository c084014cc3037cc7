package main

import (
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logging.Logger("scitt/cmd")

const (
	FlagLogLevel = "log-level"

	// EnvPrefix prefixes the environment variables bound to flags, e.g.
	// --keycustody-url is read from SCITT_KEYCUSTODY_URL.
	EnvPrefix = "SCITT"
)

// NewRootCommand creates the scitt command tree. Every command gets its own
// viper instance so flags and environment are resolved per invocation.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "scitt",
		Short:         "Create and verify SCITT signed statements",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}
			if level := v.GetString(FlagLogLevel); level != "" {
				if err := logging.SetLogLevel("*", level); err != nil {
					return fmt.Errorf("setting log level: %w", err)
				}
			}
			return nil
		},
	}
	cmd.PersistentFlags().String(FlagLogLevel, "", "log level for all subsystems (debug, info, warn, error)")

	cmd.AddCommand(
		newCreateCommand(v),
		newVerifyCommand(v),
		newKeyCommand(v),
	)
	return cmd
}
