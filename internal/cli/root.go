package cli

import (
	"fmt"
	"io"
	"os"

	"lacasita/internal/backend"
	"lacasita/internal/config"
	"lacasita/internal/database"
	"lacasita/internal/domain"
	"lacasita/internal/events"
	"lacasita/internal/form"
	"lacasita/internal/logging"
	"lacasita/internal/models"
	"lacasita/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Options replaces collaborators that are otherwise built from config.
type Options struct {
	Clock   form.Clock
	Backend domain.ReservationBackend
	Logger  *zerolog.Logger
}

type app struct {
	opts       Options
	configPath string
	baseURL    string

	cfg     *config.Config
	logger  *zerolog.Logger
	backend domain.ReservationBackend
	bus     *events.EventBus
	closers []io.Closer
}

func NewRoot(opts Options) *cobra.Command {
	a := &app{opts: opts}
	cmd := &cobra.Command{
		Use:                "reserve",
		Short:              "La Casita reservation form",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.close() },
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "path to config.yaml (defaults are used when empty)")
	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "override backend.base_url")

	cmd.AddCommand(newWeekCmd(a))
	cmd.AddCommand(newLoadCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	return cmd
}

func (a *app) setup() error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.baseURL != "" {
		cfg.Backend.BaseURL = a.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.logger = a.opts.Logger
	if a.logger == nil {
		if cfg.Logging.Output == "" {
			cfg.Logging.Output = "stderr"
		}
		logger, closer, err := logging.New(cfg.Logging, cfg.App)
		if err != nil {
			return err
		}
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
		a.logger = logging.Component(logger, "cli")
	}

	a.backend = a.opts.Backend
	if a.backend == nil {
		a.backend = backend.New(cfg.Backend.BaseURL,
			backend.WithTimeout(cfg.Backend.Timeout.Std()),
			backend.WithRateLimit(cfg.Backend.RateLimit.RPS, cfg.Backend.RateLimit.Burst),
			backend.WithLogger(logging.Component(a.logger, "backend")),
		)
	}

	a.bus = events.NewEventBus()
	a.bus.OnError(func(ev *events.Event, err error) {
		a.logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: handler failed")
	})
	if cfg.Database.Path != "" {
		db, err := database.NewDB(cfg.Database.Path, logging.Component(a.logger, "database"))
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		a.closers = append(a.closers, db)
		service.NewJournalRecorder(db, a.logger).Subscribe(a.bus)
	}
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *app) clock() form.Clock {
	if a.opts.Clock != nil {
		return a.opts.Clock
	}
	return form.RealClock{}
}

func (a *app) newState(session *models.EditSession) *form.State {
	return form.NewState(a.clock(), a.backend,
		form.WithEditSession(session),
		form.WithPublisher(a.bus),
		form.WithLogger(a.logger),
	)
}

func printNotification(w io.Writer, n form.Notification) {
	fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
}
