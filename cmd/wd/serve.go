package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/weekdo/internal/api"
	"github.com/steveyegge/weekdo/internal/dashboard"
	"github.com/steveyegge/weekdo/internal/todos"
	"github.com/steveyegge/weekdo/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "server",
	Short:   "Serve the todo list as a REST API",
	Long: `Serve the todo list over HTTP.

Endpoints (relative to base_path, default /todos):
  GET    /              list, ?day= and ?completed= filters
  GET    /day/{day}     todos for one day
  GET    /{id}          one todo
  POST   /              create
  PUT    /{id}          update
  DELETE /{id}          delete
  PUT    /{id}/toggle   mark done or open

Also served: /health, /metrics and, unless --no-dashboard is given, the /ws
WebSocket endpoint which pushes todo_update, stats and store_changed
messages. Unless --no-watch is given, edits made to the data file by other
programs are reported as store_changed.`,
	Example: `  wd serve
  wd serve --addr :8080 --base-path /api/todos
  WEEKDO_DATA_FILE=/srv/todos.json wd serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noDash, _ := cmd.Flags().GetBool("no-dashboard"); noDash {
			cfg.Dashboard = false
		}
		if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
			cfg.Watch = false
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("base-path", "", "path the todo routes are mounted under (default /todos)")
	serveCmd.Flags().Bool("no-dashboard", false, "do not serve the /ws live-update endpoint")
	serveCmd.Flags().Bool("no-watch", false, "do not watch the data file for outside changes")

	bindFlag(v, "addr", serveCmd.Flags().Lookup("addr"))
	bindFlag(v, "base_path", serveCmd.Flags().Lookup("base-path"))

	rootCmd.AddCommand(serveCmd)
}

// runServe serves until ctx is done.
func runServe(ctx context.Context) error {
	logger := logs.Logger("api")

	var (
		svc     *todos.Service
		hub     *dashboard.Hub
		changes *dashboard.Handler
		opts    []todos.Option
	)

	if cfg.Dashboard {
		hub = dashboard.NewHub(&dashboard.Config{
			Stats:  func() todos.Stats { return svc.Stats() },
			Logger: logs.Logger("dashboard"),
		})
		changes = dashboard.NewHandler(hub, logs.Logger("dashboard"))
		opts = append(opts, todos.WithNotifier(changes))

		hub.Start()
		defer hub.Stop()
	}

	svc = newService(opts...)

	server := api.NewServer(svc, &api.Config{
		Addr:     cfg.Addr,
		BasePath: cfg.BasePath,
		Hub:      hub,
		Logger:   logger,
	})
	if err := server.Start(); err != nil {
		return err
	}

	if cfg.Watch {
		fw, err := startWatcher(cfg.DataFile)
		if err != nil {
			_ = server.Stop()
			return err
		}
		defer fw.Stop()

		debouncer := watch.NewDebouncer(watch.DefaultDebounceInterval, func(ev watch.FileEvent) {
			if changes != nil {
				changes.StoreChanged(ev.Path, ev.Op.String(), svc.Stats())
			}
		})
		debouncer.Start()
		defer debouncer.Stop()

		go forwardFileEvents(fw.Events(), fw.Errors(), logs.Logger("watch"), debouncer.Queue)
	}

	<-ctx.Done()

	logger.Println("Shutting down...")
	return server.Stop()
}

// startWatcher watches the data file, creating its directory if needed.
func startWatcher(path string) (*watch.FileWatcher, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	fw, err := watch.NewFileWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Start(path); err != nil {
		return nil, err
	}
	return fw, nil
}

// forwardFileEvents logs every watcher event and error, calls onChange for
// each event, and returns once both channels are closed.
func forwardFileEvents(events <-chan watch.FileEvent, errs <-chan error, logger *log.Logger, onChange func(watch.FileEvent)) {
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			logger.Printf("Data file %s: %s", ev.Op, ev.Path)
			onChange(ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Printf("Watcher error: %v", err)
		}
	}
}
