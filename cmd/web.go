package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/smdata-dev/smdata/internal/api"
	"github.com/smdata-dev/smdata/internal/build"
	"github.com/smdata-dev/smdata/internal/config"
	"github.com/smdata-dev/smdata/internal/metrics"
	"github.com/smdata-dev/smdata/internal/notification"
	"github.com/smdata-dev/smdata/internal/server"
	"github.com/smdata-dev/smdata/internal/service"
	"github.com/smdata-dev/smdata/internal/telemetry"
)

// NewWebCmd returns the "web" subcommand that starts the HTTP server.
func NewWebCmd(cfg *config.AppConfig) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the smdata web server",
		Long: `Start the HTTP server which serves the site pages and accepts contact
form submissions on /contact/. Stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
			logFile := filepath.Join(cfg.LogDir(), "system.log")
			printBanner(build.Version, serverURL, logFile, cfg)

			if err := runWeb(cfg); err != nil {
				fmt.Fprintf(os.Stderr, "An error occurred: %v\nPlease check the logs at: %s\n", err, logFile)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	return cmd
}

func runWeb(cfg *config.AppConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "smdata",
		ServiceVersion: build.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Insecure:       true,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	var mirrors []slog.Handler
	if h := tp.LogHandler(); h != nil {
		mirrors = append(mirrors, h)
	}
	sysLogger, err := newSystemLogger(cfg, mirrors...)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			sysLogger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	sysLogger.Info("smdata starting",
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("email_backend", cfg.EmailBackend),
		slog.Bool("sendgrid_eu_residency", cfg.SendGridEUResidency),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	store, closeStore, err := openStore(ctx, cfg, sysLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	notifyCfg := cfg.NotificationConfig()
	sender, err := notification.NewSender(notifyCfg, sysLogger)
	if err != nil {
		return fmt.Errorf("configuring email backend: %w", err)
	}

	m := metrics.New(store)

	contactSvc := service.NewContactService(store, sender, m, service.ContactOptions{
		Composer:      composerFromConfig(cfg, notifyCfg),
		NotifyTimeout: cfg.NotifyTimeout,
		Verbose:       cfg.LogVerbose,
	}, sysLogger)

	var assets fs.FS
	if WebFS != nil {
		if sub, err := fs.Sub(WebFS, "static"); err == nil {
			assets = sub
		}
	}

	apiSrv := api.New(contactSvc, WebFS, sysLogger)
	srv := server.New(apiSrv, server.Options{
		Port:               cfg.Port,
		Assets:             assets,
		Metrics:            m,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, sysLogger)

	sysLogger.Info("server ready", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	return srv.Run(ctx)
}

// composerFromConfig addresses notifications with the same sender config the
// backend was built from.
func composerFromConfig(cfg *config.AppConfig, nc notification.Config) service.Composer {
	return service.Composer{
		SiteName:    cfg.SiteName,
		From:        nc.FromAddr,
		Recipient:   nc.Recipient,
		PhoneRegion: cfg.PhoneRegion,
	}
}

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bannerLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	bannerBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("24")).
			Padding(0, 2)
)

// printBanner writes the startup banner to stdout. It is the only output
// visible in the terminal during normal operation; all structured logs go
// to the log file instead.
func printBanner(version, serverURL, logFile string, cfg *config.AppConfig) {
	store := "sqlite " + cfg.SQLitePath()
	if cfg.UsesPostgres() {
		store = "postgres"
	}
	rows := []string{
		bannerTitle.Render("smdata " + version),
		"",
		bannerLabel.Render("Site") + serverURL,
		bannerLabel.Render("Email") + cfg.EmailBackend,
		bannerLabel.Render("Store") + store,
		bannerLabel.Render("Logs") + logFile,
	}
	fmt.Println(bannerBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	fmt.Println()
}
