package cmd

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/foomo/itemmodel/pkg/handler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewSocketCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:               "socket <url>",
		Short:             "Start socket server",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: urlArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("socket")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r, history, err := newRepo(ctx, l, v, args[0])
			if err != nil {
				return err
			}
			defer history.Close()

			// create socket server
			handle := handler.NewSocket(l, r)

			// listen on socket
			var lc net.ListenConfig
			ln, err := lc.Listen(ctx, "tcp", addressFlag(v))
			if err != nil {
				return err
			}

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return r.Start(gCtx)
			})
			g.Go(func() error {
				<-gCtx.Done()
				return ln.Close()
			})
			g.Go(func() error {
				l.Info("started listening", zap.String("address", ln.Addr().String()))
				for {
					// this blocks until connection or error
					conn, err := ln.Accept()
					if errors.Is(err, net.ErrClosed) {
						return nil
					} else if err != nil {
						l.Error("could not accept connection", zap.Error(err))
						continue
					}

					// a goroutine handles conn so that the loop can accept other connections
					go func() {
						l.Debug("accepted connection", zap.String("source", conn.RemoteAddr().String()))
						handle.Serve(gCtx, conn)
						if err := conn.Close(); err != nil {
							l.Debug("failed to close connection", zap.Error(err))
						}
					}()
				}
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v, "127.0.0.1:8081")
	addRepoFlags(flags, v)

	return cmd
}
