package operation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeTagging(t *testing.T) {
	t.Parallel()

	ok := operation.Success(42)
	assert.True(t, ok.OK)
	assert.Equal(t, 42, ok.Value)
	assert.Empty(t, ok.Err)

	failed := operation.Failure("Test error")
	assert.False(t, failed.OK)
	assert.Nil(t, failed.Value)
	assert.Equal(t, "Test error", failed.Err)
}

func TestFromFunc(t *testing.T) {
	t.Parallel()

	op := operation.FromFunc(func(ctx context.Context) (any, error) {
		return "done", nil
	})

	v, err := op(context.Background(), instrument.New())
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	op = operation.FromFunc(func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})

	_, err = op(context.Background(), instrument.New())
	assert.EqualError(t, err, "boom")
}

func TestFromWASMInvalidBinary(t *testing.T) {
	t.Parallel()

	op := operation.FromWASM([]byte("not a wasm module"), "main")

	_, err := op(context.Background(), instrument.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to instantiate module")
}
