package bundle

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/storacha/go-scitt/core/car"
	"github.com/storacha/go-scitt/core/ipld"
	"github.com/storacha/go-scitt/core/iterable"
	"github.com/storacha/go-scitt/statement"
	"github.com/storacha/go-scitt/testing/fixtures"
	"github.com/storacha/go-scitt/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	payload := []byte(`{"hello":"world"}`)
	raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, "artifact-1", payload)
	require.NoError(t, err)

	rd, err := Encode(Bundle{Statement: raw, Payload: payload})
	require.NoError(t, err)
	data, err := io.ReadAll(rd)
	require.NoError(t, err)

	t.Run("root is the statement", func(t *testing.T) {
		roots, _, err := car.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, roots, 1)
		link, err := statement.Link(raw)
		require.NoError(t, err)
		require.Equal(t, link.String(), roots[0].String())
	})

	b, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, raw, b.Statement)
	require.Equal(t, payload, b.Payload)

	_, err = statement.Verify(b.Statement, statement.WithPayload(b.Payload))
	require.NoError(t, err)
}

func TestStatementOnly(t *testing.T) {
	raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, "artifact-1", []byte("payload"))
	require.NoError(t, err)

	rd, err := Encode(Bundle{Statement: raw})
	require.NoError(t, err)
	b, err := Decode(rd)
	require.NoError(t, err)
	require.Equal(t, raw, b.Statement)
	require.Nil(t, b.Payload)
}

func TestPayloadMismatch(t *testing.T) {
	raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, "artifact-1", []byte("payload"))
	require.NoError(t, err)

	t.Run("encode", func(t *testing.T) {
		_, err := Encode(Bundle{Statement: raw, Payload: []byte("other")})
		require.ErrorIs(t, err, statement.ErrPayloadMismatch)
	})

	t.Run("decode", func(t *testing.T) {
		root := helpers.Must(statement.Link(raw))
		blocks := []ipld.Block{
			ipld.NewBlockUnsafe(root, raw),
			helpers.Must(ipld.NewBlock(PayloadCode, []byte("other"))),
		}
		_, err := Decode(car.Encode([]ipld.Link{root}, iterable.From(blocks)))
		require.ErrorIs(t, err, statement.ErrPayloadMismatch)
	})
}

func TestDecodeInvalid(t *testing.T) {
	t.Run("not a statement", func(t *testing.T) {
		_, err := Encode(Bundle{Statement: []byte("nope")})
		require.Error(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, "artifact-1", []byte("payload"))
		require.NoError(t, err)
		root := helpers.Must(statement.Link(raw))
		_, err = Decode(car.Encode([]ipld.Link{root}, iterable.From([]ipld.Block{})))
		require.ErrorContains(t, err, "missing root block")
	})

	t.Run("no roots", func(t *testing.T) {
		_, err := Decode(car.Encode(nil, iterable.From([]ipld.Block{})))
		require.ErrorContains(t, err, "unexpected number of roots")
	})
}
