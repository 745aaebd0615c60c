package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/courier/internal/app"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:           "courier",
		Short:         "Courier - watch HTTP endpoints from the terminal",
		Long:          "Courier polls configured HTTP endpoints and shows each request's lifecycle, data and errors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config path (default ~/.config/courier/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(watchCmd(), fetchCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "courier: %v\n", err)
		return 1
	}
	return 0
}

func baseOptions() app.Options {
	return app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}
}

func watchCmd() *cobra.Command {
	var (
		poll        time.Duration
		theme       string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the endpoint dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := baseOptions()
			opts.PollInterval = poll
			opts.Theme = theme
			opts.MetricsAddr = metricsAddr
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 0, "refresh interval (default from config, 2s)")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme: Nightfox, Kanagawa, Slate")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func fetchCmd() *cobra.Command {
	var (
		timeout time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Request every configured target once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := baseOptions()
			opts.Timeout = timeout

			reports, err := app.Fetch(cmd.Context(), opts, os.Stderr)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TARGET\tPATH\tRESULT\tDURATION\tURL")
				for _, r := range reports {
					result := "ok"
					if r.Failed() {
						result = r.Error.Name + ": " + r.Error.Message
					}
					fmt.Fprintf(w, "%s\t%v\t%s\t%s\t%s\n",
						r.Target,
						r.Path,
						result,
						r.Duration.Round(time.Millisecond),
						r.URL,
					)
				}
				w.Flush()
			}

			for _, r := range reports {
				if r.Failed() {
					return fmt.Errorf("%s failed", r.Target)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default from config, 5s)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}
