// Command cwcgo is the compositor core's process entry point: a small
// cobra root command gated on the CWCGO_CONFIG env var, grounded on
// yaoapp/yao's cobra root command plus godotenv/uuid idiom (SPEC_FULL.md
// §1.4). The Scene/Surface/Seat Service implementations a real session
// needs are supplied by a backend package outside this module's scope
// (spec.md §6 calls them external collaborators); this binary wires the
// compositor core and its event loop around whatever is passed in.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cwcgo.dev/cwcgo/internal/clog"
	"cwcgo.dev/cwcgo/internal/compositor"
	"cwcgo.dev/cwcgo/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var logPath string

	root := &cobra.Command{
		Use:   "cwcgo",
		Short: "cwcgo is a tiling Wayland compositor core",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load() // development convenience; a missing .env is not an error
			if configPath == "" {
				configPath = os.Getenv("CWCGO_CONFIG")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to cwcgo's YAML config (defaults to $CWCGO_CONFIG)")
	root.PersistentFlags().StringVar(&logPath, "log", "/var/log/cwcgo/cwcgo.log", "path to the rotated log file")

	root.AddCommand(newRunCmd(&configPath, &logPath))
	root.AddCommand(newValidateConfigCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd(configPath, logPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "start the compositor core's event loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			clog.Configure(*logPath, 10, 5, 28, clog.Info)
			runID := uuid.NewString()
			log := clog.For("cmd").With("run_id", runID)

			s, err := compositor.NewServer(compositor.Options{ConfigPath: *configPath})
			if err != nil {
				return fmt.Errorf("starting compositor: %w", err)
			}
			log.Info("compositor starting", "config", *configPath)
			defer s.Shutdown()
			return s.Run()
		},
	}
}

func newValidateConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "parse and clamp the config file, reporting any errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if *configPath == "" {
				return fmt.Errorf("no config path given (set --config or CWCGO_CONFIG)")
			}
			store := config.NewStore(nil, *configPath)
			cfg := store.Current()
			fmt.Printf("border_width=%d useless_gaps=%d mwfact=%.2f master_count=%d default_layout=%s\n",
				cfg.BorderWidth, cfg.UselessGaps, cfg.MasterWFact, cfg.MasterCount, cfg.DefaultLayout)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the cwcgo version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}
