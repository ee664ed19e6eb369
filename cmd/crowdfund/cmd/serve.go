// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/neilotoole/errgroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/crowdfund/rpc"
	"github.com/ava-labs/crowdfund/server"
	"github.com/ava-labs/crowdfund/utils"
)

func newServeCmd(c *crowdfund) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON-RPC API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(address) == 0 {
				address = c.cfg.HTTPAddress
			}
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return err
			}
			s, err := c.newServer(listener)
			if err != nil {
				_ = listener.Close()
				return err
			}
			utils.Fprintf(cmd.OutOrStdout(), "{{green}}serving on{{/}} %s\n", listener.Addr())
			return c.serve(cmd.Context(), s)
		},
	}
	cmd.Flags().StringVar(&address, "http-address", "", "address to listen on (defaults to the configured httpAddress)")
	return cmd
}

func (c *crowdfund) newServer(listener net.Listener) (*server.Server, error) {
	s := server.New(
		c.log,
		listener,
		server.NewDefaultHTTPConfig(),
		c.cfg.AllowedOrigins,
		c.cfg.ShutdownTimeout,
	)
	handler, err := server.NewHandler(rpc.NewJSONRPCServer(c.controller), rpc.Name)
	if err != nil {
		return nil, err
	}
	s.AddRoute(handler, rpc.JSONRPCEndpoint)
	s.AddRoute(promhttp.HandlerFor(c.gatherers, promhttp.HandlerOpts{}), rpc.MetricsEndpoint)
	return s, nil
}

// serve runs [s] until [ctx] is cancelled or the process is interrupted.
func (c *crowdfund) serve(ctx context.Context, s *server.Server) error {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	// Dispatch blocks until shutdown, so both goroutines must run at once
	// regardless of the CPU count.
	g, gctx := errgroup.WithContextN(ctx, 2, 0)
	g.Go(func() error {
		if err := s.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case sig := <-signals:
			c.log.Info("received signal", zap.Stringer("signal", sig))
		case <-gctx.Done():
		}
		return s.Shutdown()
	})
	return g.Wait()
}
