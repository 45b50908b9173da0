package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/convopanel/pkg/agent"
)

func newAgentCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Serve a local echo agent on /api/message",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveAgent(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "HTTP listen address")
	return cmd
}

func serveAgent(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           agent.NewRouter(agent.New(nil)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", addr).Msg("agent listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve agent")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down agent")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
