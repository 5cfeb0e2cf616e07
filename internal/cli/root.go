package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sufec-tui/internal/chat"
	"sufec-tui/internal/model"
	"sufec-tui/internal/store"
	"sufec-tui/internal/transport"
	"sufec-tui/internal/tui"
)

type App struct {
	Dir     string
	LogPath string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sufec",
		Short:        "Sufec chat client (TUI + scriptable commands)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive client
  sufec

  # Scriptable access to the same account state
  sufec contacts list
  sufec rooms history ops-room --limit 20
  sufec archive search "deploy"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SUFEC_DIR", ""), "Path to the account directory (default ~/.sufec)")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", envOr("SUFEC_LOG", ""), "Log file path (default <dir>/client.log for the TUI, stderr otherwise)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newContactsCmd(app))
	cmd.AddCommand(newRoomsCmd(app))
	cmd.AddCommand(newArchiveCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (app *App) store() (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

func (app *App) loadAccount() (store.Store, *model.Account, error) {
	st, err := app.store()
	if err != nil {
		return store.Store{}, nil, err
	}
	a, err := st.LoadAccount()
	if err != nil {
		return store.Store{}, nil, fmt.Errorf("%w (run `sufec init <address>` first?)", err)
	}
	return st, a, nil
}

// cliLogger logs to stderr for scriptable commands.
func (app *App) cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// tuiLogger logs to a file: the TUI owns the terminal, so stderr would
// scribble over the screen.
func (app *App) tuiLogger(st store.Store) (*slog.Logger, func(), error) {
	path := app.LogPath
	if path == "" {
		if err := st.Ensure(); err != nil {
			return nil, nil, err
		}
		path = filepath.Join(st.Dir, "client.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewTextHandler(f, nil))
	return log, func() { _ = f.Close() }, nil
}

func runTUI(app *App) error {
	st, account, err := app.loadAccount()
	if err != nil {
		return err
	}
	log, closeLog, err := app.tuiLogger(st)
	if err != nil {
		return err
	}
	defer closeLog()

	engine := chat.NewEngine(st, account, log)

	// The wire transport is an external collaborator; without a
	// homeserver configured we run on the in-process loopback so the
	// client stays usable (and testable) offline.
	hub := transport.NewHub()
	engine.SetFanOut(&transport.FanOut{Sender: hub, Log: log})

	shutdown := make(chan struct{})
	go chat.RunListener(engine, hub, shutdown, log)
	defer close(shutdown)

	return tui.Run(engine)
}
