// Package cli implements the gas2nel commands: run built-in workloads under
// the meter and inspect the active scoring policy.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/Dlordkendex/gas2nel/telemetry"
	"github.com/spf13/cobra"
)

var (
	svc      meter.Service
	exporter *telemetry.Exporter

	includeFlags []string
	duration     time.Duration
	sizeMB       int
	wasmFile     string
	wasmFunction string
)

// SetService wires the metering service the commands run against.
func SetService(s meter.Service) {
	svc = s
}

// SetExporter wires an optional telemetry exporter; when set, every run's
// result is published after measurement.
func SetExporter(e *telemetry.Exporter) {
	exporter = e
}

// NewRunCmd builds the run command with its built-in workloads.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [sleep|spin|alloc|fetch|file|wasm]",
		Short: "Run a workload under the meter",
		Long: `Run a built-in workload under the meter and print its result.

Examples:
  # Sleep for one second and score it
  gas2nel run sleep --duration 1s --include metric,report

  # Fetch a URL and attribute the transferred bytes
  gas2nel run fetch https://example.com --include metric

  # Measure a WASM export
  gas2nel run wasm --wasm-file add.wasm --wasm-function add`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			op, err := buildWorkload(args)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			res := svc.SetOptions(meter.Options{Include: includeFlags}).
				EstimateGas(cmd.Context(), op)
			logJSONCmd(*cmd, res)

			if exporter != nil {
				if err := exporter.Export(cmd.Context(), res); err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logSuccessCmd(*cmd, "Result exported")
			}
		},
	}

	cmd.Flags().StringSliceVar(&includeFlags, "include", []string{}, "sections to attach to the result (metric, report)")
	cmd.Flags().DurationVar(&duration, "duration", 100*time.Millisecond, "duration for the sleep and spin workloads")
	cmd.Flags().IntVar(&sizeMB, "size", 16, "payload size in MB for the alloc and file workloads")
	cmd.Flags().StringVar(&wasmFile, "wasm-file", "", "path to the WASM module for the wasm workload")
	cmd.Flags().StringVar(&wasmFunction, "wasm-function", "", "exported function to call in the WASM module")

	return cmd
}

func buildWorkload(args []string) (operation.Operation, error) {
	switch args[0] {
	case "sleep":
		return operation.FromFunc(func(ctx context.Context) (any, error) {
			time.Sleep(duration)

			return duration.String(), nil
		}), nil
	case "spin":
		return operation.FromFunc(func(ctx context.Context) (any, error) {
			deadline := time.Now().Add(duration)
			var spins uint64
			for time.Now().Before(deadline) {
				spins++
			}

			return spins, nil
		}), nil
	case "alloc":
		return operation.FromFunc(func(ctx context.Context) (any, error) {
			buf := make([]byte, sizeMB<<20)
			for i := range buf {
				buf[i] = byte(i)
			}

			return len(buf), nil
		}), nil
	case "fetch":
		if len(args) < 2 {
			return nil, fmt.Errorf("fetch requires a URL")
		}
		url := args[1]

		return func(ctx context.Context, ins *instrument.Instruments) (any, error) {
			resp, err := ins.HTTPClient().Get(url)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				return nil, err
			}

			return resp.Status, nil
		}, nil
	case "file":
		return func(ctx context.Context, ins *instrument.Instruments) (any, error) {
			path := filepath.Join(os.TempDir(), fmt.Sprintf("gas2nel-%d", time.Now().UnixNano()))
			defer os.Remove(path)

			if err := ins.WriteFile(path, make([]byte, sizeMB<<20), 0o600); err != nil {
				return nil, err
			}
			data, err := ins.ReadFile(path)
			if err != nil {
				return nil, err
			}

			return len(data), nil
		}, nil
	case "wasm":
		if wasmFile == "" || wasmFunction == "" {
			return nil, fmt.Errorf("wasm requires --wasm-file and --wasm-function")
		}
		binary, err := os.ReadFile(wasmFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read WASM file: %w", err)
		}

		return operation.FromWASM(binary, wasmFunction), nil
	default:
		return nil, fmt.Errorf("unknown workload %q", args[0])
	}
}
