// Package demo extracts the deferred actions a slide offers: demo shell
// blocks, links and images with an opener in their caption.
package demo

import (
	"context"
	"os"
	"strings"

	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/env"
	"github.com/baaaaaaaka/slides/internal/render"
)

type Kind int

const (
	Shell Kind = iota
	OpenLink
	OpenImage
)

func (k Kind) String() string {
	switch k {
	case Shell:
		return "shell"
	case OpenLink:
		return "open-link"
	case OpenImage:
		return "open-image"
	default:
		return "unknown"
	}
}

// Action is one user-triggered side effect found on a slide.
type Action struct {
	Kind  Kind
	Label string
	run   func(ctx context.Context) error
}

func (a Action) Run(ctx context.Context) error {
	return a.run(ctx)
}

// Launcher performs actions. proc.Runner is the production implementation.
type Launcher interface {
	RunShell(ctx context.Context, dir, command string, env []string) error
	Open(ctx context.Context, target string) error
	Command(ctx context.Context, dir string, argv []string, env []string) error
}

// Source identifies the slide being collected.
type Source struct {
	Origin string
	Index  int
	Count  int
}

func (s Source) dir() string {
	return render.ResolvePath(s.Origin, ".")
}

func (s Source) env() []string {
	return env.ForSlide(os.Environ(), env.Slide{File: s.Origin, Index: s.Index, Count: s.Count})
}

// Collect walks root in document order and returns its actions. A malformed
// tree is an error; nothing is collected from it.
func Collect(root doc.Node, src Source, l Launcher) ([]Action, error) {
	var actions []Action
	err := doc.Walk(root, func(n doc.Node) bool {
		switch n := n.(type) {
		case *doc.CodeBlock:
			if n.Lang != doc.LangDemo {
				return false
			}
			command := strings.TrimSpace(n.Code)
			actions = append(actions, Action{
				Kind:  Shell,
				Label: command,
				run: func(ctx context.Context) error {
					return l.RunShell(ctx, src.dir(), command, src.env())
				},
			})
			return false
		case *doc.Link:
			dest := n.Dest
			actions = append(actions, Action{
				Kind:  OpenLink,
				Label: dest,
				run: func(ctx context.Context) error {
					return l.Open(ctx, dest)
				},
			})
			return false
		case *doc.Image:
			argv := render.OpenCommand(doc.PlainText(n.Children))
			if len(argv) == 0 {
				return false
			}
			path := render.ResolvePath(src.Origin, n.Dest)
			argv = append(argv, path)
			actions = append(actions, Action{
				Kind:  OpenImage,
				Label: strings.Join(argv, " "),
				run: func(ctx context.Context) error {
					return l.Command(ctx, src.dir(), argv, src.env())
				},
			})
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return actions, nil
}
