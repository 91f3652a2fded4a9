package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, signupCommand, profileCommand, songsCommand, seedCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// load reads the configuration named by the root --config flag before any command runs.
func (r *Runner) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, err
	}

	r.config = config
	r.configPath = path
	shared.ConfigureLogger(r.logger, config.Log)

	if level := cmd.String("log-level"); level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		shared.SetLogLevel(r.logger, lvl)
	}

	r.logger.Debug("configuration loaded", "path", path, "store", config.Store.Backend)
	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// client returns the HTTP API client, building it from the [shared.ClientConfig] on first use.
func (r *Runner) client() *services.APIService {
	if r.api != nil {
		return r.api
	}

	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: r.config.Client.TimeoutDuration()}
	}
	r.api = services.NewAPIService(r.config.Client.BaseURL, httpClient)
	return r.api
}

// openStore opens the record store named in the configuration.
func (r *Runner) openStore(ctx context.Context) (repositories.RecordStore, error) {
	r.logger.Debug("opening record store", "backend", r.config.Store.Backend, "path", r.config.Store.Path)

	store, err := repositories.Open(ctx, r.config.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", r.config.Store.Backend, err)
	}
	return store, nil
}

// userID resolves the --user flag, falling back to client.user_id from the configuration.
func (r *Runner) userID(cmd *cli.Command) (int64, error) {
	id := cmd.Int64("user")
	if id == 0 {
		id = r.config.Client.UserID
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: --user (or client.user_id in config) must be a positive id", shared.ErrMissingArgument)
	}
	return id, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
