package cli

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/stat-report-converter/internal/api"
	"github.com/insightdelivered/stat-report-converter/internal/app"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	*rootOptions

	host string
	port int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP conversion API",
		Long: `Starts the HTTP API:

  GET  /api/health   liveness and version
  POST /api/convert  multipart "file" or form "text", returns JSON or,
                     with download=true, the CSV as attachment`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (default from config)")
	return cmd
}

func (o *serveOptions) run(cmd *cobra.Command, _ []string) error {
	srv := o.cfg.Server
	if o.host != "" {
		srv.Host = o.host
	}
	if o.port != 0 {
		srv.Port = o.port
	}

	h := &api.Handler{
		Keys:      o.cfg.Parser.Keys,
		Dialect:   o.cfg.Parser.Dialect,
		Secondary: o.cfg.Output.Secondary,
		Logger:    o.logger,
	}
	server := api.NewApp(srv, h)
	addr := net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port))

	return serve(cmd.Context(), o.logger, addr, server)
}

// listener is the part of *fiber.App that serve drives.
type listener interface {
	Listen(addr string) error
	ShutdownWithTimeout(d time.Duration) error
}

// serve runs l until ctx is cancelled or Listen fails.
func serve(ctx context.Context, log *slog.Logger, addr string, l listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", slog.String("addr", addr), slog.String("version", app.BuildVersion()))
		return l.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")
		return l.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}
