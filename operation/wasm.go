package operation

import (
	"context"
	"fmt"

	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// FromWASM returns an operation that instantiates the given WASM binary and
// calls one of its exported functions with the given parameters. The runtime
// lives only for the invocation, so instantiation cost is part of the
// measured footprint.
func FromWASM(binary []byte, fnName string, params ...uint64) Operation {
	return func(ctx context.Context, _ *instrument.Instruments) (any, error) {
		r := wazero.NewRuntime(ctx)
		defer r.Close(ctx)

		wasi_snapshot_preview1.MustInstantiate(ctx, r)

		module, err := r.Instantiate(ctx, binary)
		if err != nil {
			return nil, fmt.Errorf("failed to instantiate module: %w", err)
		}

		function := module.ExportedFunction(fnName)
		if function == nil {
			return nil, fmt.Errorf("function %q not found", fnName)
		}

		return function.Call(ctx, params...)
	}
}
