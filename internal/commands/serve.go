package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			srv, err := server.New(a.svc, server.Config{
				Addr:           a.cfg.Server.Addr,
				JWTSecret:      a.cfg.Server.JWTSecret,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				Clock:          a.clock,
			}, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for --user signed with server.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return fmt.Errorf("server.jwt_secret is not set (or TALLY_JWT_SECRET)")
			}
			tok, err := server.NewToken([]byte(cfg.Server.JWTSecret), opts.user, ttl, time.Now())
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
