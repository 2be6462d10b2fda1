package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cbenchf/internal/app"
	"cbenchf/internal/config"
	cberrors "cbenchf/internal/errors"
	"cbenchf/internal/ui"
	"cbenchf/pkg/settings"
)

// version is set at build time via ldflags
var version = "dev"

// cfg holds the settings resolved in PersistentPreRunE.
var cfg *settings.Settings

var rootCmd = &cobra.Command{
	Use:     "cbenchf",
	Short:   "cbenchf - run benchmark containers through the Docker CLI",
	Version: version,
	Long: `cbenchf checks that you may use the container runtime's control socket
and then starts an image with the runtime's command-line client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")

		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return cberrors.NewConfigError(
				"Failed to load configuration",
				err.Error(),
				"Check config.yaml and any CBENCHF_* environment variables",
				err,
			)
		}
		cfg = loaded

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})))
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run COMMAND",
	Short: "Run a command in a container image",
	Long: `Run verifies access to the control socket and then executes
"<runtime-binary> run [-d] <image> <COMMAND>". COMMAND is passed to the
runtime as a single argument. Images that are not present locally are pulled
by the runtime.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detached := cfg.Detached
		if foreground, _ := cmd.Flags().GetBool("foreground"); foreground {
			detached = false
		}

		req := app.RunRequest{
			Image:    cfg.DefaultImage,
			Command:  args[0],
			Detached: detached,
		}

		if err := app.Run(cmd.Context(), app.NewFactory(cfg), req); err != nil {
			return err
		}

		if detached {
			ui.NewConsole().PrintSuccess(fmt.Sprintf("Started %s in detached mode", req.Image))
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check access to the container runtime socket",
	Long: `Check verifies that the control socket is owned by you or by one of your
groups. With --ping it also asks the daemon behind the socket to respond.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ping, _ := cmd.Flags().GetBool("ping")

		result, err := app.Check(cmd.Context(), app.NewFactory(cfg), ping)
		if err != nil {
			return err
		}

		console := ui.NewConsole()
		console.PrintSuccess(fmt.Sprintf("You have permission to use %s", result.SocketPath))
		if result.Daemon != nil {
			console.PrintInfo(fmt.Sprintf("Daemon reachable: API %s on %s", result.Daemon.APIVersion, result.Daemon.OSType))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: $XDG_CONFIG_HOME/cbenchf/config.yaml, then ./config.yaml)")
	rootCmd.PersistentFlags().String("socket", settings.DefaultSocketPath, "Path to the container runtime control socket")
	rootCmd.PersistentFlags().String("runtime-binary", settings.DefaultRuntimeBinary, "Container runtime CLI to invoke")
	rootCmd.PersistentFlags().String("log-level", settings.DefaultLogLevel, "Log level: debug, info, warn or error")

	runCmd.Flags().StringP("image", "i", "", "Image to run (default: default_image from config)")
	runCmd.Flags().BoolP("detach", "d", true, "Run the container in the background")
	runCmd.Flags().Bool("foreground", false, "Run attached to the container; same as --detach=false")
	runCmd.MarkFlagsMutuallyExclusive("detach", "foreground")
	rootCmd.AddCommand(runCmd)

	checkCmd.Flags().Bool("ping", false, "Also check that the daemon answers on the socket")
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cberrors.HandleError(err)
		if code, ok := cberrors.ExitCode(err); ok && code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
