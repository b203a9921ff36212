package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
)

// AppFactory builds the application once configuration is known. The
// returned cleanup releases storage and runs after the command.
type AppFactory func(ctx context.Context, cfg *config.Config) (*App, func(), error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory AppFactory
	app     *App
	config  *config.Config
	cleanup func()

	configFile string
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(factory AppFactory) *RootCommand {
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "tk",
		Short: "A personal task tracker with deadline reminders",
		Long: `Task Tracker (tk) keeps a list of tasks with deadlines and reminds you
before they are due and while they are overdue.

EXAMPLES:
  tk add "Write report" --due 2h           # Add a task due in two hours
  tk add "Pay rent" --due 2024-06-01T09:00 # Add a task with an absolute deadline
  tk list --pending                        # Show what is left
  tk toggle 3f2a                           # Complete (or reopen) a task by id prefix
  tk delete 3f2a                           # Delete a task after confirmation
  tk export -f yaml -o tasks.yaml          # Export the list
  tk import tasks.json                     # Replace the list from a JSON export
  tk watch                                 # Keep sending reminders in the foreground
  tk board                                 # Open the interactive board

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

  The config file is ~/.tk/config.toml, or the path in --config or TK_CONFIG.

  Storage Configuration:
    TK_STORAGE_BACKEND                     sqlite, file or memory (default: sqlite)
    TK_STORAGE_DIR                         Storage directory (default: ~/.tk)
    TK_STORAGE_FILENAME                    Storage filename (default: tk.db or tasks.json)
    TK_STORAGE_KEY                         Record key (default: simpleTaskManagerTasks)
    TK_STORAGE_QUOTA_BYTES                 Maximum record size (default: 5242880)

  Reminder Configuration:
    TK_REMINDER_INTERVAL                   Sweep interval (default: 1m)
    TK_REMINDER_PRE_DEADLINE_WINDOW        Warn this long before a deadline (default: 3m)
    TK_REMINDER_OVERDUE_FIRST_DELAY        First overdue reminder after (default: 24h)
    TK_REMINDER_OVERDUE_REPEAT             Repeat overdue reminders every (default: 24h)

  Notification Configuration:
    TK_NOTIFY_BACKEND                      desktop, log or none (default: desktop)
    TK_NOTIFY_APP_NAME                     Application name shown on notifications (default: tk)

  Logging Configuration:
    TK_LOG_LEVEL                           debug, info, warn or error (default: info)
    TK_LOG_FORMAT                          text, json or logfmt (default: text)
    TK_DEBUG                               Print debug traces to stderr

GETTING HELP:
  tk [command] --help                      # Get help for any specific command
  tk completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			return root.setup(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the parent of every
// command context.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer func() {
		if r.cleanup != nil {
			r.cleanup()
			r.cleanup = nil
		}
	}()
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args for testing
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration loaded for the last command.
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "Config file (overrides TK_CONFIG)")

	// Storage configuration
	flags.String("storage-backend", "", "Storage backend: sqlite, file or memory (overrides TK_STORAGE_BACKEND)")
	flags.String("storage-dir", "", "Storage directory (overrides TK_STORAGE_DIR)")
	flags.String("storage-key", "", "Record key (overrides TK_STORAGE_KEY)")

	// Reminder configuration
	flags.Duration("reminder-interval", 0, "Sweep interval (overrides TK_REMINDER_INTERVAL)")
	flags.String("notify", "", "Notification backend: desktop, log or none (overrides TK_NOTIFY_BACKEND)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TK_LOG_LEVEL)")
	flags.String("log-format", "", "Log format (overrides TK_LOG_FORMAT)")

	// Application configuration
	flags.String("env", "", "Environment: production, development or testing (overrides TK_ENV)")
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}

	overrides.StorageBackend = stringFlag("storage-backend")
	overrides.StorageDir = stringFlag("storage-dir")
	overrides.StorageKey = stringFlag("storage-key")
	overrides.NotifyBackend = stringFlag("notify")
	overrides.LogLevel = stringFlag("log-level")
	overrides.LogFormat = stringFlag("log-format")
	overrides.Env = stringFlag("env")

	if flags.Changed("reminder-interval") {
		interval, _ := flags.GetDuration("reminder-interval")
		overrides.ReminderInterval = &interval
	}

	return overrides
}

// setup loads configuration and builds the app for the command about to run.
func (r *RootCommand) setup(ctx context.Context) error {
	loader := config.NewLoader()
	if r.configFile != "" {
		loader = loader.WithConfigFile(r.configFile)
	}
	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg

	app, cleanup, err := r.factory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	r.app = app
	r.cleanup = cleanup
	return nil
}

// needsApp is false for commands that never touch tasks.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Add command
	var due string
	addCmd := &cobra.Command{
		Use:   "add [task content]",
		Short: "Add a task with a deadline",
		Long: `Add a new incomplete task.

The deadline is an ISO 8601 date or date-time, read in local time when it
has no zone, or a relative offset: 30m, 2h, 1d, 2w.

Examples:
  tk add "Write report" --due 2h
  tk add "Dentist" --due "2024-06-01 09:30"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			handler := NewAddCommand(r.app)
			handler.Due = due
			return r.handle("add task", handler.Execute(ctx, args))
		},
	}
	addCmd.Flags().StringVarP(&due, "due", "d", "", "Deadline (required)")
	_ = addCmd.MarkFlagRequired("due")

	// List command
	var pending, done bool
	var sortOrder, listFormat string
	listCmd := &cobra.Command{
		Use:     "list [text]",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in the order they were added.

Text filters search within task content (case-insensitive partial matching).

Examples:
  tk list                    # All tasks
  tk list --pending          # Incomplete tasks only
  tk list --sort due report  # Tasks containing "report", earliest deadline first`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			handler := NewListCommand(r.app)
			handler.Format = listFormat
			handler.Filter.Sort = api.SortOrder(sortOrder)
			switch {
			case pending && done:
				return r.handle("list tasks", fmt.Errorf("--pending and --done cannot be combined"))
			case pending:
				handler.Filter.Status = api.StatusPending
			case done:
				handler.Filter.Status = api.StatusDone
			}
			return r.handle("list tasks", handler.Execute(ctx, args))
		},
	}
	listCmd.Flags().BoolVar(&pending, "pending", false, "Only incomplete tasks")
	listCmd.Flags().BoolVar(&done, "done", false, "Only completed tasks")
	listCmd.Flags().StringVar(&sortOrder, "sort", string(api.SortByCreated), "Sort order: created or due")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format: table or json")

	// Toggle command
	toggleCmd := &cobra.Command{
		Use:     "toggle <id>...",
		Aliases: []string{"done"},
		Short:   "Complete or reopen tasks",
		Long:    "Flip the completion state of one or more tasks. An id may be shortened to any unique prefix.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return r.handle("toggle task", NewToggleCommand(r.app).Execute(ctx, args))
		},
	}

	// Delete command
	var deleteYes bool
	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task permanently.

This operation cannot be undone. You will be asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			handler := NewDeleteCommand(r.app)
			handler.Yes = deleteYes
			return r.handle("delete task", handler.Execute(ctx, args))
		},
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")

	// Export command
	var exportFormat, exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the task list",
		Long: `Export every task in the specified format.

Supported formats:
  json - the same shape import accepts (default)
  yaml - YAML sequence of tasks
  csv  - comma-separated values with a header row`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			handler := NewExportCommand(r.app)
			handler.Format = exportFormat
			handler.Output = exportOutput
			return r.handle("export tasks", handler.Execute(ctx, args))
		},
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", FormatJSON, "Output format: json, yaml or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")

	// Import command
	var importYes bool
	importCmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Replace the task list from a JSON export",
		Long: `Replace every task with the JSON array in file, or stdin.

The whole import is rejected when any task is missing an id, content or
due date, or when ids repeat. You will be asked to confirm before existing
tasks are replaced unless --yes is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			handler := NewImportCommand(r.app)
			handler.Yes = importYes
			return r.handle("import tasks", handler.Execute(ctx, args))
		},
	}
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip confirmation")

	// Status command
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show how things are going",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return r.handle("show status", NewStatusCommand(r.app).Execute(ctx, args))
		},
	}

	// Sweep command
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Send due reminders once",
		Long:  "Run a single reminder pass and exit. Suitable for cron.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			return r.handle("send reminders", NewSweepCommand(r.app).Execute(ctx, args))
		},
	}

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Send reminders until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()

			return r.handle("watch deadlines", NewWatchCommand(r.app).Execute(ctx, args))
		},
	}

	// Board command
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive task board",
		Long: `Open a full-screen board of pending and completed tasks.

Keys: j/k move, space toggles, a adds, d deletes (asks first), q quits.
Reminders keep running while the board is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()

			return r.handle("open board", NewBoardCommand(r.app).Execute(ctx, args))
		},
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		toggleCmd,
		deleteCmd,
		exportCmd,
		importCmd,
		statusCmd,
		sweepCmd,
		watchCmd,
		boardCmd,
	)
}

func (r *RootCommand) handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewErrorHandler().WithLogger(r.app.logger).Handle(operation, err)
}

// commandContext bounds one-shot commands by the application timeout.
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// interactiveContext runs until SIGINT or SIGTERM.
func (r *RootCommand) interactiveContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}
