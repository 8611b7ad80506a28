package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RooCodeInc/RooVersation/api"
	"github.com/RooCodeInc/RooVersation/builder"
	"github.com/RooCodeInc/RooVersation/server"
	"github.com/RooCodeInc/RooVersation/settings"
	"github.com/RooCodeInc/RooVersation/task"
	"github.com/RooCodeInc/RooVersation/tui"
	"github.com/RooCodeInc/RooVersation/utils"
)

var (
	verbose bool
	addr    string
	dsn     string
	source  string
	backend string
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func defaultDsn() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", ".rooversation", "tasks.db")
	}
	return filepath.Join(home, ".rooversation", "tasks.db")
}

func loadSettings() settings.Settings {
	cfg, err := settings.Load()
	if err != nil {
		cfg = settings.Default()
	}
	if source != "" {
		cfg.Source = source
	}
	if backend != "" {
		cfg.BackendURL = backend
	}
	return cfg
}

func ServeHandler(cmd *cobra.Command, args []string) error {
	log := newLogger()

	seedPath, err := cmd.Flags().GetString("seed")
	if err != nil {
		return err
	}
	if seedPath != "" {
		seedSource, err := cmd.Flags().GetString("seed-source")
		if err != nil {
			return err
		}
		if err := server.Seed(dsn, seedSource, seedPath, log); err != nil {
			return fmt.Errorf("seeding task database: %w", err)
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", addr).Str("dsn", dsn).Msg("listening")

	err = server.Serve(ln, dsn, log)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func ViewHandler(cmd *cobra.Command, args []string) error {
	cfg := loadSettings()
	if !task.ValidSource(cfg.Source) {
		return fmt.Errorf("unknown task source %q", cfg.Source)
	}
	return tui.NewViewer(cfg, newLogger()).Run()
}

func BuildHandler(cmd *cobra.Command, args []string) error {
	cfg := loadSettings()
	log := newLogger()

	path, err := builder.DefaultStorePath()
	if err != nil {
		return err
	}
	store, err := builder.OpenStore(path)
	if err != nil {
		return fmt.Errorf("opening builder store: %w", err)
	}
	defer store.Close()

	draft, err := store.LoadDraft()
	if err != nil {
		return fmt.Errorf("loading draft: %w", err)
	}

	return tui.NewBuilder(cfg, store, draft, log).Run()
}

func TasksHandler(cmd *cobra.Command, args []string) error {
	cfg := loadSettings()
	if !task.ValidSource(cfg.Source) {
		return fmt.Errorf("unknown task source %q", cfg.Source)
	}

	client := api.NewClient(cfg.BackendURL)
	tasks, err := client.ListTasks(cmd.Context(), cfg.Source)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	headers := []string{"ID", "Timestamp", "First Message"}
	var data [][]string
	for _, t := range tasks {
		data = append(data, []string{
			t.ID,
			time.UnixMilli(t.Timestamp).Format(time.RFC3339),
			t.FirstMessage,
		})
	}
	utils.RenderTable(headers, data)

	return nil
}

func NewCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task backend server",
		Args:  cobra.ExactArgs(0),
		RunE:  ServeHandler,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":7180", "Listen address")
	serveCmd.Flags().StringVar(&dsn, "dsn", defaultDsn(), "Path to the task database")
	serveCmd.Flags().String("seed", "", "Seed the database from a JSON export before serving")
	serveCmd.Flags().String("seed-source", task.SourceProduction, "Source the seed file belongs to")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse tasks and conversations in the terminal",
		Args:  cobra.ExactArgs(0),
		RunE:  ViewHandler,
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Compose a draft conversation and test it against an API",
		Args:  cobra.ExactArgs(0),
		RunE:  BuildHandler,
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks from the backend",
		Args:  cobra.ExactArgs(0),
		RunE:  TasksHandler,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rooversation",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("RooVersation version %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}

	rootCmd := &cobra.Command{
		Use:   "rooversation",
		Short: "Browse, inspect and build AI conversations",
		RunE:  ViewHandler,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Task source (nightly, production)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Backend base URL")

	rootCmd.AddCommand(serveCmd, viewCmd, buildCmd, tasksCmd, versionCmd)

	return rootCmd
}
