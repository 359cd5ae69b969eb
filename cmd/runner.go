package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DOUGSKEEZ/montyctl/internal/cache"
	"github.com/DOUGSKEEZ/montyctl/internal/services"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/DOUGSKEEZ/montyctl/internal/sync"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	pianobar   *services.PianobarService
	jukebox    *services.JukeboxService
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Pianobar   *services.PianobarService
	Jukebox    *services.JukeboxService
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	baseURL := opts.Config.Hub.BaseURL()
	if opts.Pianobar == nil {
		opts.Pianobar = services.NewPianobarService(baseURL, opts.HTTPClient)
	}
	if opts.Jukebox == nil {
		opts.Jukebox = services.NewJukeboxService(baseURL, opts.HTTPClient)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(baseURL, opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		pianobar:   opts.Pianobar,
		jukebox:    opts.Jukebox,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the Runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playerCommand, jukeboxCommand, syncCommand, cacheCommand, apiCommand, watchCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openCache opens the snapshot cache from config, running migrations.
func (r *Runner) openCache() (*cache.Store, error) {
	store, err := cache.Open(r.config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return store, nil
}

// newSession builds a sync session against the configured hub. The cache
// store may be nil when persistence is unavailable.
func (r *Runner) newSession(store *cache.Store) (*sync.Session, error) {
	sc := r.config.Sync
	return sync.NewSession(sync.Options{
		URL:            r.config.Hub.WebSocketURL(),
		Pianobar:       r.pianobar,
		Jukebox:        r.jukebox,
		Cache:          store,
		Logger:         r.logger,
		ReconnectDelay: msDuration(sc.ReconnectDelayMs),
		MaxReconnects:  sc.MaxReconnectAttempts,
		PushDebounce:   msDuration(sc.PushDebounceMs),
		PullInterval:   sDuration(sc.PullIntervalS),
	})
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

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) writePlainln(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}

func loadConfigFlag(r *Runner, cmd *cli.Command) {
	configPath := cmd.String("config")
	if configPath == "" {
		return
	}
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		r.config = loaded
		baseURL := loaded.Hub.BaseURL()
		r.pianobar = services.NewPianobarService(baseURL, r.httpClient)
		r.jukebox = services.NewJukeboxService(baseURL, r.httpClient)
		r.api = services.NewAPIService(baseURL, r.httpClient)
	} else {
		r.logger.Warn("failed to load config, keeping current settings", "path", configPath, "error", err)
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func sDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
