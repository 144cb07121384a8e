package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/slides/internal/config"
	"github.com/baaaaaaaka/slides/internal/deck"
	"github.com/baaaaaaaka/slides/internal/term"
	"github.com/baaaaaaaka/slides/internal/tui"
	"github.com/baaaaaaaka/slides/internal/watch"
)

var (
	openTerminal  = term.Open
	presentSlides = tui.Present
	isTerminal    = func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
)

var errNotTerminal = errors.New("stdout is not a terminal (use `slides render` for plain output)")

type presentOptions struct {
	watch  bool
	resume bool
	start  int
}

func runPresent(cmd *cobra.Command, root *rootOptions, opts *presentOptions, paths []string) error {
	slides, err := deck.Load(paths)
	if err != nil {
		return err
	}
	if len(slides) == 0 {
		return fmt.Errorf("no slides in %d file(s)", len(paths))
	}
	if !isTerminal(os.Stdout) {
		return errNotTerminal
	}

	s, err := openSession(root)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	s.log.Info("deck loaded", "files", len(paths), "slides", len(slides))

	key := config.DeckKey(paths)
	start := opts.start - 1
	if opts.resume {
		if i := s.cfg.Position(key); i > 0 {
			start = i
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := openTerminal()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer t.Close()

	if opts.watch {
		w, err := watch.Start(paths, t.PostReload, watch.WithOnError(func(err error) {
			s.log.Warn("watch", "err", err)
		}))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
	}

	index, err := presentSlides(ctx, tui.Options{
		Slides:         slides,
		Engine:         s.engine,
		Highlighter:    s.highlighter,
		Launcher:       s.runner,
		Logger:         s.log,
		Start:          start,
		Reload:         func() ([]deck.Slide, error) { return deck.Load(paths) },
		PauseAfterDemo: s.cfg.PauseAfterDemo,
		Terminal:       t,
	})
	if opts.resume {
		if uerr := s.store.Update(func(cfg *config.Config) error {
			cfg.SetPosition(key, index)
			return nil
		}); uerr != nil {
			s.log.Warn("save position", "err", uerr)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
