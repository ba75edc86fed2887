package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Dlordkendex/gas2nel/cli"
	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/meter/middleware"
	"github.com/Dlordkendex/gas2nel/pkg/estimator"
	"github.com/Dlordkendex/gas2nel/pkg/mqtt"
	"github.com/Dlordkendex/gas2nel/pkg/prometheus"
	"github.com/Dlordkendex/gas2nel/telemetry"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	svcName = "gas2nel"
	pathEnv = ".env"
)

type envConfig struct {
	LogLevel    string        `env:"GAS2NEL_LOG_LEVEL"    envDefault:"info"`
	InstanceID  string        `env:"GAS2NEL_INSTANCE_ID"`
	PolicyPath  string        `env:"GAS2NEL_POLICY_PATH"`
	MQTTAddress string        `env:"GAS2NEL_MQTT_ADDRESS"`
	MQTTQoS     uint8         `env:"GAS2NEL_MQTT_QOS"     envDefault:"2"`
	MQTTTimeout time.Duration `env:"GAS2NEL_MQTT_TIMEOUT" envDefault:"30s"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	policy := estimator.Default()
	if cfg.PolicyPath != "" {
		p, err := estimator.LoadPolicy(cfg.PolicyPath)
		if err != nil {
			return fmt.Errorf("failed to load scoring policy: %w", err)
		}
		policy = p
		logger.Info("Loaded scoring policy", slog.String("path", cfg.PolicyPath))
	}

	m := meter.New(meter.Options{})
	m.SetPolicy(policy)

	var svc meter.Service = m
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(noop.NewTracerProvider().Tracer(svcName), svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	cli.SetService(svc)
	cli.SetPolicy(policy)

	if cfg.MQTTAddress != "" {
		pub, err := mqtt.NewPublisher(cfg.MQTTAddress, cfg.MQTTQoS, cfg.InstanceID, cfg.MQTTTimeout, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize mqtt publisher: %w", err)
		}
		cli.SetExporter(telemetry.NewExporter(cfg.InstanceID, pub))
	}

	rootCmd := &cobra.Command{
		Use:   svcName,
		Short: "Resource metering and gas estimation",
		Long:  `gas2nel measures the resource footprint of a unit of work and scores it as gas.`,
	}
	rootCmd.AddCommand(cli.NewRunCmd())
	rootCmd.AddCommand(cli.NewPolicyCmd())

	return rootCmd.Execute()
}
