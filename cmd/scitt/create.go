package main

import (
	"bytes"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/storacha/go-scitt/bundle"
	"github.com/storacha/go-scitt/client/keycustody"
	"github.com/storacha/go-scitt/decode"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/principal/es256/signer"
	"github.com/storacha/go-scitt/statement"
)

const (
	FlagSubject           = "subject"
	FlagPayloadFile       = "payload-file"
	FlagContentType       = "content-type"
	FlagPayloadLocation   = "payload-location"
	FlagOutputFile        = "output-file"
	FlagSigningKeyFile    = "signing-key-file"
	FlagSigningKey        = "signing-key"
	FlagIssuer            = "issuer"
	FlagKeyID             = "key-id"
	FlagCertificateFile   = "certificate-file"
	FlagBundleFile        = "bundle-file"
	FlagKeyCustodyURL     = "keycustody-url"
	FlagKeyCustodyAPIKey  = "keycustody-api-key"
	FlagKeyCustodyKeypair = "keycustody-keypair"
)

func newCreateCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-statement",
		Short: "Create a signed statement about a payload",
		Long: `Create a signed statement about a payload.

The statement is a COSE_Sign1 hash envelope: its payload is the SHA-256 digest
of the payload file and its protected header binds the issuer, the subject and
the issuer's public key.

The signing key is taken from, in order of preference:

* a PEM encoded P-256 private key (--signing-key-file)
* a multibase encoded ES256 signer (--signing-key)
* a remote key custody service (--keycustody-url, --keycustody-keypair)

Every flag can also be set with an environment variable prefixed with SCITT_,
e.g. SCITT_KEYCUSTODY_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, v)
		},
	}

	cmd.Flags().String(FlagSubject, "", "subject of the statement (required)")
	cmd.Flags().String(FlagPayloadFile, "scitt-payload.json", "path to the payload the statement is about")
	cmd.Flags().String(FlagContentType, statement.DefaultContentType, "media type of the payload")
	cmd.Flags().String(FlagPayloadLocation, "", "where the payload can be retrieved from; omitted from the statement when empty")
	cmd.Flags().String(FlagOutputFile, "signed-statement.cbor", "path the signed statement is written to")
	cmd.Flags().String(FlagSigningKeyFile, "", "path to a PEM encoded P-256 private key")
	cmd.Flags().String(FlagSigningKey, "", "multibase encoded ES256 signer")
	cmd.Flags().String(FlagIssuer, "", "issuer of the statement, required with a local signing key")
	cmd.Flags().String(FlagKeyID, "", "key identifier; defaults to the certificate or key digest")
	cmd.Flags().String(FlagCertificateFile, "", "path to the PEM encoded certificate chain of the signing key, leaf first")
	cmd.Flags().String(FlagBundleFile, "", "also write a CAR bundle of the statement and payload to this path")
	cmd.Flags().String(FlagKeyCustodyURL, "", "base URL of the key custody service")
	cmd.Flags().String(FlagKeyCustodyAPIKey, "", "API key for the key custody service")
	cmd.Flags().String(FlagKeyCustodyKeypair, "", "alias of the key pair held by the key custody service")

	return cmd
}

func runCreate(cmd *cobra.Command, v *viper.Viper) error {
	subject := v.GetString(FlagSubject)
	if subject == "" {
		return fmt.Errorf("--%s is required", FlagSubject)
	}

	payloadFile := v.GetString(FlagPayloadFile)
	payload, err := os.ReadFile(payloadFile)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	issuer, err := loadIssuer(v)
	if err != nil {
		return err
	}

	opts := []statement.Option{statement.WithContentType(v.GetString(FlagContentType))}
	if loc := v.GetString(FlagPayloadLocation); loc != "" {
		opts = append(opts, statement.WithPayloadLocation(loc))
	}

	raw, err := statement.Create(cmd.Context(), issuer, subject, payload, opts...)
	if err != nil {
		return err
	}

	out := v.GetString(FlagOutputFile)
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return fmt.Errorf("writing signed statement: %w", err)
	}
	link, err := statement.Link(raw)
	if err != nil {
		return err
	}
	log.Infow("wrote signed statement", "path", out, "cid", link.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Signed statement %s written to %s\n", link, out)

	if bf := v.GetString(FlagBundleFile); bf != "" {
		if err := writeBundle(bf, raw, payload); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bundle written to %s\n", bf)
	}
	return nil
}

func loadIssuer(v *viper.Viper) (principal.Issuer, error) {
	var key principal.SigningKey
	switch {
	case v.GetString(FlagSigningKeyFile) != "":
		b, err := os.ReadFile(v.GetString(FlagSigningKeyFile))
		if err != nil {
			return nil, fmt.Errorf("reading signing key: %w", err)
		}
		key, err = signer.FromPEM(b)
		if err != nil {
			return nil, err
		}
	case v.GetString(FlagSigningKey) != "":
		var err error
		key, err = decode.ParseSigner(v.GetString(FlagSigningKey))
		if err != nil {
			return nil, fmt.Errorf("parsing signing key: %w", err)
		}
	case v.GetString(FlagKeyCustodyURL) != "":
		var opts []keycustody.Option
		if k := v.GetString(FlagKeyCustodyAPIKey); k != "" {
			opts = append(opts, keycustody.WithAPIKey(k))
		}
		log.Debugw("using key custody service", "url", v.GetString(FlagKeyCustodyURL), "keypair", v.GetString(FlagKeyCustodyKeypair))
		client, err := keycustody.New(v.GetString(FlagKeyCustodyURL), v.GetString(FlagKeyCustodyKeypair), opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("no signing key: set --%s, --%s or --%s", FlagSigningKeyFile, FlagSigningKey, FlagKeyCustodyURL)
	}

	iss := v.GetString(FlagIssuer)
	if iss == "" {
		return nil, fmt.Errorf("--%s is required with a local signing key", FlagIssuer)
	}

	var idopts []identity.Option
	if kid := v.GetString(FlagKeyID); kid != "" {
		idopts = append(idopts, identity.WithKeyID([]byte(kid)))
	}

	var id identity.Identity
	if cf := v.GetString(FlagCertificateFile); cf != "" {
		chain, err := readCertificateChain(cf)
		if err != nil {
			return nil, err
		}
		id, err = identity.FromCertificateChain(chain, iss, idopts...)
		if err != nil {
			return nil, err
		}
		x, y := key.Verifier().Coordinates()
		if !bytes.Equal(x, id.PublicKey.X) || !bytes.Equal(y, id.PublicKey.Y) {
			return nil, fmt.Errorf("leaf certificate does not hold the signing key's public key")
		}
	} else {
		var err error
		id, err = identity.FromKey(key.Verifier(), iss, idopts...)
		if err != nil {
			return nil, err
		}
	}
	return principal.NewIssuer(identity.Static(id), key), nil
}

// readCertificateChain reads the CERTIFICATE blocks of a PEM file in order.
func readCertificateChain(path string) ([][]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading certificate chain: %w", err)
	}
	var chain [][]byte
	for {
		var block *pem.Block
		block, b = pem.Decode(b)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			chain = append(chain, block.Bytes)
		}
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return chain, nil
}

func writeBundle(path string, raw, payload []byte) error {
	rd, err := bundle.Encode(bundle.Bundle{Statement: raw, Payload: payload})
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bundle file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, rd); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return f.Close()
}
