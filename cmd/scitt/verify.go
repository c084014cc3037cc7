package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/storacha/go-scitt/decode"
	"github.com/storacha/go-scitt/statement"
)

const (
	FlagStatementFile = "statement-file"
	FlagTrustedKey    = "trusted-key"
)

func newVerifyCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-statement",
		Short: "Verify a signed statement",
		Long: `Verify a signed statement.

The signature is checked against the public key bound into the statement's
protected header. With --payload-file the payload digest is checked too, and
with --trusted-key the bound key must be the given multibase encoded key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, v)
		},
	}

	cmd.Flags().String(FlagStatementFile, "signed-statement.cbor", "path to the signed statement")
	cmd.Flags().String(FlagPayloadFile, "", "path to the payload the statement is about")
	cmd.Flags().String(FlagTrustedKey, "", "multibase encoded ES256 verifier the statement must be signed with")

	return cmd
}

func runVerify(cmd *cobra.Command, v *viper.Viper) error {
	raw, err := os.ReadFile(v.GetString(FlagStatementFile))
	if err != nil {
		return fmt.Errorf("reading signed statement: %w", err)
	}

	var opts []statement.VerifyOption
	if pf := v.GetString(FlagPayloadFile); pf != "" {
		payload, err := os.ReadFile(pf)
		if err != nil {
			return fmt.Errorf("reading payload: %w", err)
		}
		opts = append(opts, statement.WithPayload(payload))
	}
	if tk := v.GetString(FlagTrustedKey); tk != "" {
		verifier, err := decode.ParseVerifier(tk)
		if err != nil {
			return fmt.Errorf("parsing trusted key: %w", err)
		}
		opts = append(opts, statement.WithTrustedKey(verifier))
	}

	env, err := statement.Verify(raw, opts...)
	if err != nil {
		return err
	}

	hdr := env.Protected()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Subject:          %s\n", hdr.CWTClaims.Subject)
	fmt.Fprintf(w, "Issuer:           %s\n", hdr.CWTClaims.Issuer)
	fmt.Fprintf(w, "Content type:     %s\n", hdr.ContentType)
	fmt.Fprintf(w, "Payload digest:   %s\n", hex.EncodeToString(env.PayloadDigest()))
	if hdr.PayloadLocation != "" {
		fmt.Fprintf(w, "Payload location: %s\n", hdr.PayloadLocation)
	}
	fmt.Fprintf(w, "Certificates:     %d\n", len(env.Unprotected().CertChain))
	return nil
}
