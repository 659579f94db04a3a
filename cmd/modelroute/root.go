package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ineyio/modelroute"
	"github.com/ineyio/modelroute/meter"
)

// app carries what every subcommand needs. Flags are read through viper so
// MODELROUTE_* environment variables can stand in for them.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "modelroute",
		Short: "Inspect model routing decisions and context budgets",
		Long: `modelroute runs the routing rules and the token estimator over a
conversation file, the same way a chat backend does before dispatching a turn.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "catalog config file (default is the embedded catalog)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = a.v.BindPFlags(root.PersistentFlags())
	a.v.SetEnvPrefix("MODELROUTE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(
		newModelsCmd(a),
		newRouteCmd(a),
		newUsageCmd(a),
	)
	return root
}

func (a *app) logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(a.v.GetString("log-level"))}

	var handler slog.Handler
	switch strings.ToLower(a.v.GetString("log-format")) {
	case "json":
		handler = slog.NewJSONHandler(a.errOut, opts)
	default:
		handler = slog.NewTextHandler(a.errOut, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (a *app) config() (modelroute.Config, error) {
	path := a.v.GetString("config")
	if path == "" {
		return modelroute.DefaultConfig(), nil
	}
	cfg, err := modelroute.LoadConfig(path)
	if err != nil {
		return modelroute.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (a *app) router(logger *slog.Logger) (*modelroute.Router, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return modelroute.NewRouter(cfg, modelroute.WithMeter(meter.NewLogMeter(logger)))
}
