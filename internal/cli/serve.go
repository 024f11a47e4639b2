package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/infra/httpapi"
)

// newServeCommand creates the serve command running the reference backend.
func newServeCommand(get provider) *cobra.Command {
	var opts struct {
		Addr       string
		Driver     string
		DSN        string
		HardDelete bool
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference REST backend",
		Long: `Serve the task REST API from a local database.

The client works with any backend speaking the same API; this one stores
tasks in SQLite (default <data dir>/todo/tasks.db) or MySQL.

Examples:
  todo serve
  todo serve --addr :8080 --hard-delete
  todo serve --driver mysql --dsn "user:pass@tcp(localhost:3306)/todo?parseTime=true"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := get()
			srv := &c.AppConfig.Server
			flags := cmd.Flags()
			if flags.Changed("addr") {
				srv.Addr = opts.Addr
			}
			if flags.Changed("driver") {
				srv.Driver = opts.Driver
			}
			if flags.Changed("dsn") {
				srv.DSN = opts.DSN
			}
			if flags.Changed("hard-delete") {
				srv.HardDelete = opts.HardDelete
			}
			if err := c.AppConfig.Validate(); err != nil {
				return err
			}

			store, err := c.OpenTaskStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := c.ServerHandler(store).Routes()
			return httpapi.Run(ctx, srv.Addr, handler, c.Logger, func(addr net.Addr) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s (%s)\n", addr, driverLabel(srv))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", domain.DefaultServerAddr, "Listen address (default server.addr)")
	cmd.Flags().StringVar(&opts.Driver, "driver", domain.DriverSQLite, "Storage driver: sqlite or mysql")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Database DSN (sqlite: file path)")
	cmd.Flags().BoolVar(&opts.HardDelete, "hard-delete", false, "Remove rows instead of setting deletedAt")

	return cmd
}

func driverLabel(srv *domain.ServerConfig) string {
	if srv.HardDelete {
		return srv.Driver + ", hard delete"
	}
	return srv.Driver
}
