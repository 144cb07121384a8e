package cli

import (
	"fmt"
	"io"

	clog "github.com/charmbracelet/log"

	"github.com/baaaaaaaka/slides/internal/config"
	"github.com/baaaaaaaka/slides/internal/highlight"
	"github.com/baaaaaaaka/slides/internal/imgterm"
	"github.com/baaaaaaaka/slides/internal/logging"
	"github.com/baaaaaaaka/slides/internal/proc"
	"github.com/baaaaaaaka/slides/internal/render"
)

// session is everything a command needs to lay out and run slides.
type session struct {
	store  *config.Store
	cfg    config.Config
	log    *clog.Logger
	closer io.Closer

	highlighter *highlight.Highlighter
	runner      *proc.Runner
	engine      *render.Engine
}

func openSession(root *rootOptions) (*session, error) {
	log, closer, err := logging.Open(root.logFile, root.debug)
	if err != nil {
		return nil, err
	}

	store, err := config.NewStore(root.configPath)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	theme, err := cfg.RenderTheme()
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("config %s: %w", store.Path(), err)
	}

	styleName := cfg.Style
	if root.style != "" {
		styleName = root.style
	}
	runner := &proc.Runner{Shell: cfg.Shell, Opener: cfg.OpenerArgs()}
	hl := highlight.New(styleName)

	log.Debug("config", "path", store.Path(), "style", styleName, "shell", cfg.Shell)
	return &session{
		store:       store,
		cfg:         cfg,
		log:         log,
		closer:      closer,
		highlighter: hl,
		runner:      runner,
		engine: &render.Engine{
			Highlighter: hl,
			Images:      imgterm.New(),
			Runner:      runner,
			Theme:       theme,
			Logger:      log,
		},
	}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}
