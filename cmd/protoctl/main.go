// Command protoctl runs the protocol engine: a config-driven HTTP/WS
// server for submitting JSON automation protocols, plus validate/run
// subcommands for authoring workflows from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vireodyne/protoctl/internal/actions"
	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/backend"
	"github.com/vireodyne/protoctl/internal/boundary"
	"github.com/vireodyne/protoctl/internal/config"
	"github.com/vireodyne/protoctl/internal/executor"
	"github.com/vireodyne/protoctl/internal/integration/process"
	"github.com/vireodyne/protoctl/internal/parser"
	"github.com/vireodyne/protoctl/internal/registry"
	"github.com/vireodyne/protoctl/internal/vision"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:   "protoctl",
		Short: "JSON-driven keyboard/mouse/clipboard/screen automation engine",
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "project configuration directory (defaults to ./.protoctl)")

	root.AddCommand(newServeCmd(&configDir))
	root.AddCommand(newValidateCmd(&configDir))
	root.AddCommand(newRunCmd(&configDir))
	root.AddCommand(newDocsCmd())

	return root
}

// engine bundles everything wired from configuration: the registry,
// parser, executor, vision verifier, boundary adapter, and the process
// supervisor backing the window backend (open_app/close_app).
type engine struct {
	application *app.Application
	cfg         *config.Config
	adapter     *boundary.Adapter
	supervisor  *process.Supervisor
}

func buildEngine(ctx context.Context, configDir string, dryRun bool) (*engine, error) {
	logger := app.GetLogger()

	if configDir == "" {
		configDir = ".protoctl"
	}
	cfg := config.New(config.WithProjectConfigDir(configDir))
	if err := cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("protoctl: load config: %w", err)
	}
	if dryRun {
		if err := cfg.Set("executor.dryRun", true); err != nil {
			return nil, fmt.Errorf("protoctl: set dry-run: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider()

	reg := registry.New()
	actions.RegisterAll(reg)

	processCfg := cfg.Process()
	supervisor := process.NewSupervisor(process.WithMaxProcesses(processCfg.MaxProcesses))

	kbd := backend.NewKeyboard(logger)
	mouse := backend.NewMouse(logger)
	screen := backend.NewScreen(logger)
	clipboard := backend.NewClipboard(logger, kbd)
	window := backend.NewWindow(logger, supervisor)
	file := backend.NewFile(logger, kbd)
	system := backend.NewSystem(logger)
	edit := backend.NewEdit(kbd)

	visionCfg := cfg.Vision()
	verifier, err := vision.NewVerifier(screen, visionCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("protoctl: vision verifier: %w", err)
	}

	screenCfg := cfg.Screen()
	browser, err := backend.NewBrowser(logger, backend.BrowserOptions{
		Headless:       false,
		ViewportWidth:  screenCfg.Width,
		ViewportHeight: screenCfg.Height,
	})
	if err != nil {
		logger.Warn("browser backend unavailable, browser_* actions will fail: %v", err)
	}

	executorCfg := cfg.Executor()
	exec := executor.New(reg, executorCfg, logger)

	deps := registry.Dependencies{
		Keyboard:  kbd,
		Mouse:     mouse,
		Screen:    screen,
		Clipboard: clipboard,
		Window:    window,
		File:      file,
		System:    system,
		Edit:      edit,
		Verifier:  verifier,
		Macro:     exec,
	}
	if browser != nil {
		deps.Browser = browser
	}
	reg.InjectDependencies(deps)

	p := parser.New(reg, screenCfg.Width, screenCfg.Height)

	adapter := boundary.New(p, exec, logger)

	application := app.New(app.Config{Logger: logger})
	if err := application.Start(); err != nil {
		return nil, err
	}
	application.RegisterCloser(func(context.Context) error {
		return tp.Shutdown(context.Background())
	})
	application.RegisterCloser(func(context.Context) error {
		supervisor.Shutdown(time.Duration(processCfg.ShutdownTimeoutSeconds) * time.Second)
		return nil
	})
	application.RegisterCloser(func(context.Context) error {
		cfg.Close()
		return nil
	})
	if browser != nil {
		application.RegisterCloser(func(context.Context) error {
			return browser.Close()
		})
	}

	return &engine{application: application, cfg: cfg, adapter: adapter, supervisor: supervisor}, nil
}

func newServeCmd(configDir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP/WS boundary server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx, *configDir, false)
			if err != nil {
				return err
			}
			defer eng.application.Shutdown(context.Background())

			router := boundary.NewRouter(eng.adapter)
			srv := &http.Server{Addr: addr, Handler: router}

			eng.application.RegisterCloser(srv.Shutdown)

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case <-sigCtx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return eng.application.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8787", "listen address")
	return cmd
}

func newValidateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <protocol.json>",
		Short: "validate a protocol document without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx, *configDir, false)
			if err != nil {
				return err
			}
			defer eng.application.Shutdown(context.Background())

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := eng.adapter.Validate(raw)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
			if !result.IsValid {
				return fmt.Errorf("protoctl: validation failed")
			}
			return nil
		},
	}
}

func newRunCmd(configDir *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <protocol.json>",
		Short: "validate and execute a protocol document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(ctx, *configDir, dryRun)
			if err != nil {
				return err
			}
			defer eng.application.Shutdown(context.Background())

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			report, err := eng.adapter.Submit(ctx, raw)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
			if !report.Valid {
				return fmt.Errorf("protoctl: protocol rejected")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "execute without dispatching to real backends")
	return cmd
}

func newDocsCmd() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "print the action catalog as Markdown or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			actions.RegisterAll(reg)

			switch format {
			case "json":
				raw, err := reg.GetActionLibraryForAI()
				if err != nil {
					return err
				}
				fmt.Println(string(raw))
			case "markdown", "":
				md, err := reg.GenerateDocumentation(category)
				if err != nil {
					return err
				}
				fmt.Println(md)
			default:
				return fmt.Errorf("protoctl: unknown docs format %q (want markdown or json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "restrict Markdown output to one action category")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or json")
	return cmd
}
