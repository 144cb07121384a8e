package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/slides/internal/deck"
	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/render"
)

const frameSeparator = "\f"

type renderOptions struct {
	width  int
	height int
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Print every slide as it would appear on screen",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, err := deck.Load(args)
			if err != nil {
				return err
			}
			s, err := openSession(root)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			size := render.Size{Width: opts.width, Height: opts.height}
			return renderFrames(cmd, s.engine, slides, size, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 80, "Viewport width in cells")
	cmd.Flags().IntVar(&opts.height, "height", 24, "Viewport height in rows")
	return cmd
}

// renderFrames writes one viewport-sized frame per slide. Frames are
// separated by a form feed line.
func renderFrames(cmd *cobra.Command, e *render.Engine, slides []deck.Slide, size render.Size, w io.Writer) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", size.Width, size.Height)
	}
	for i, slide := range slides {
		tree, err := doc.Parse([]byte(slide.Text))
		if err != nil {
			return fmt.Errorf("parse slide %d: %w", i+1, err)
		}
		b, err := e.Layout(cmd.Context(), tree, slide.Origin, size)
		if err != nil {
			return fmt.Errorf("lay out slide %d: %w", i+1, err)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w, frameSeparator); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, frame(b, size)); err != nil {
			return err
		}
	}
	return nil
}

func frame(b render.Block, size render.Size) string {
	at := render.Place(b, size, 0)
	pad := strings.Repeat(" ", at.X)
	var sb strings.Builder
	for y := 0; y < size.Height; y++ {
		if i := y - at.Y; i >= 0 && i < len(b.Lines) {
			sb.WriteString(pad)
			sb.WriteString(b.Lines[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
