package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/storacha/go-scitt/principal/es256/signer"
	"github.com/storacha/go-scitt/principal/es256/verifier"
)

const FlagPEMFile = "pem-file"

func newKeyCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage ES256 signing keys",
	}

	gen := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new ES256 signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signer.Generate()
			if err != nil {
				return err
			}
			sstr, err := signer.Format(s)
			if err != nil {
				return err
			}
			vstr, err := verifier.Format(s.Verifier())
			if err != nil {
				return err
			}

			if path := v.GetString(FlagPEMFile); path != "" {
				b, err := signer.MarshalPEM(s)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, b, 0o600); err != nil {
					return fmt.Errorf("writing private key: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", vstr, sstr)
			return nil
		},
	}
	gen.Flags().String(FlagPEMFile, "", "also write the private key as PEM to this path")

	cmd.AddCommand(gen)
	return cmd
}
