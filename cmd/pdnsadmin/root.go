package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/poyrazK/pdnsadmin/internal/adapters/api"
	"github.com/poyrazK/pdnsadmin/internal/adapters/repository"
	"github.com/poyrazK/pdnsadmin/internal/config"
	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/infrastructure/metrics"
)

type cli struct {
	cfgPath  string
	cfg      *config.Config
	reported bool
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdnsadmin",
		Short: "Manage PowerDNS zones, records and supermasters",
		Long: `Manage the zones, records, zone templates and supermasters stored in a
PowerDNS SQL backend while keeping SOA serials, ownership and template links
consistent.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgPath, "config", "c", "", "path to the YAML configuration file")

	root.AddCommand(
		c.schemaCmd(),
		c.zoneCmd(),
		c.recordCmd(),
		c.supermasterCmd(),
		c.templateCmd(),
		c.serialCmd(),
		c.serveCmd(),
	)
	return root
}

// withApp opens the store and services for one command and prints whatever the services
// reported to the message sink.
func (c *cli) withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), c.cfg, newLogger(c.cfg.Log, cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		err = fn(cmd, args, a)
		for _, msg := range a.sink.Drain() {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", msg)
			c.reported = true
		}
		return err
	}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func (c *cli) schemaCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "schema", Short: "Manage the database schema"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the PowerDNS and admin tables that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := repository.ApplySchema(cmd.Context(), a.db, a.dialect, a.tables); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", a.dialect)
			return nil
		}),
	})
	return cmd
}

func (c *cli) serialCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "serial", Short: "Inspect SOA serials"}
	cmd.AddCommand(&cobra.Command{
		Use:   "next <current>",
		Short: "Print the serial that follows current today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid serial %q", args[0])
			}
			calc, err := domain.NewSerialCalculator(c.cfg.DNS.Timezone)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calc.Next(uint32(current)))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <zone-id>",
		Short: "Print the current SOA serial of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			serial, err := a.records.GetSOASerial(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), serial)
			return nil
		}),
	})
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve health and Prometheus metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			checks := map[string]api.HealthChecker{"database": a.repo}
			if a.notifier != nil {
				checks["redis"] = a.notifier
			}
			mux := http.NewServeMux()
			api.NewOpsHandler(checks, a.logger).RegisterRoutes(mux)
			return serve(cmd.Context(), a, mux)
		}),
	}
}

func serve(ctx context.Context, a *app, handler http.Handler) error {
	srv := &http.Server{
		Addr:              a.cfg.Metrics.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			metrics.DBConnectionsActive.Set(float64(a.db.Stats().OpenConnections))
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("ops endpoint listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
