package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/gotodef/internal/config"
	"github.com/dshills/gotodef/internal/config/watcher"
	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/backend"
	"github.com/dshills/gotodef/internal/renderer/dirty"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/view"
)

// underlineMarker is printed under underlined cells.
const underlineMarker = '^'

type renderOptions struct {
	file      string
	underline string
	width     int
	height    int
	tabWidth  int
	watch     bool
}

func renderCmd(global *globalOptions) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Paint a file with its underline",
		Long: `Paint a file onto a simulated terminal screen and print each line with
a marker row under the underlined cells. With --watch, the configuration
file is reloaded on change and the underline is repainted in its new style.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && global.configPath == "" {
				return errors.New("--watch requires --config")
			}
			env, err := newEnvironment(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), env, global.configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "File to render")
	cmd.Flags().StringVarP(&opts.underline, "underline", "u", "", "Byte range to underline as START:END")
	cmd.Flags().IntVar(&opts.width, "width", 80, "Screen width in cells")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Screen height in rows (default: one row per line)")
	cmd.Flags().IntVar(&opts.tabWidth, "tab-width", backend.DefaultTabWidth, "Tab stop width")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the config on change and repaint")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// parseRange parses "START:END" into a half-open byte range.
func parseRange(s string) (buffer.Range, error) {
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return buffer.Range{}, fmt.Errorf("range %q: want START:END", s)
	}
	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil {
		return buffer.Range{}, fmt.Errorf("range %q: start: %w", s, err)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
	if err != nil {
		return buffer.Range{}, fmt.Errorf("range %q: end: %w", s, err)
	}

	r := buffer.NewRange(start, end)
	if !r.IsValid() {
		return buffer.Range{}, fmt.Errorf("range %q: %w", s, buffer.ErrRangeInvalid)
	}
	return r, nil
}

func runRender(ctx context.Context, out io.Writer, env *environment, configPath string, opts renderOptions) error {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	buf := buffer.NewBufferFromString(string(data))
	snap := buf.Snapshot()
	v := view.New(buf)

	var tagger tagging.Tagger
	if tracker := env.provider.TrackerFor(v, buf); tracker != nil {
		tagger = tracker
		if opts.underline != "" {
			r, err := parseRange(opts.underline)
			if err != nil {
				return err
			}
			if r.End > snap.Len() {
				return fmt.Errorf("range %v: %w", r, buffer.ErrOffsetOutOfRange)
			}
			tracker.SetUnderline(buffer.NewSnapshotSpan(snap, r))
		}
	} else {
		env.logger.Warn().Msg("underline unavailable, rendering plain text")
	}
	defer env.provider.Close(v)

	height := opts.height
	if height <= 0 {
		height = int(snap.LineCount())
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.SetSize(opts.width, height)

	painter := backend.NewPainter(backend.WithTabWidth(opts.tabWidth))
	painter.Paint(screen, snap, 0, tagger)
	if err := printScreen(out, screen); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}

	d := dirty.NewTracker()
	if tagger != nil {
		detach := d.Attach(tagger)
		defer detach()
	}
	return watchConfig(ctx, out, env, configPath, func() error {
		painter.PaintDirty(screen, snap, 0, tagger, d)
		return printScreen(out, screen)
	})
}

// watchConfig reloads the config each time it changes, restyles the
// underline classification and calls repaint when the style changed.
// It returns nil when interrupted.
func watchConfig(ctx context.Context, out io.Writer, env *environment, path string, repaint func() error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(path, watcher.WithLogger(env.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	env.logger.Info().Str("path", w.Path()).Msg("watching config")

	var repaintErr error
	err = w.Run(ctx, func(ev watcher.Event) {
		cfg, err := config.Load(path)
		if err != nil {
			env.logger.Error().Err(err).Msg("reload config")
			return
		}
		if cfg.Underline.Classification != env.cfg.Underline.Classification {
			env.logger.Warn().
				Str("from", env.cfg.Underline.Classification).
				Str("to", cfg.Underline.Classification).
				Msg("classification rename takes effect on restart")
		}

		changed, err := cfg.Apply(env.styles)
		if err != nil {
			env.logger.Error().Err(err).Msg("apply config")
			return
		}
		env.logger.Info().Stringer("op", ev.Op).Bool("style_changed", changed).Msg("config reloaded")
		if !changed {
			return
		}

		env.provider.RefreshAll()
		fmt.Fprintln(out, "--- reloaded")
		if err := repaint(); err != nil && repaintErr == nil {
			repaintErr = err
		}
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, repaintErr)
}

// printScreen writes each row, followed by a marker row when the row has
// underlined cells.
func printScreen(out io.Writer, screen tcell.Screen) error {
	_, height := screen.Size()
	for row := range height {
		if _, err := fmt.Fprintln(out, backend.RowText(screen, row)); err != nil {
			return err
		}
		if markers := backend.RowMarkers(screen, row, underlineMarker); markers != "" {
			if _, err := fmt.Fprintln(out, markers); err != nil {
				return err
			}
		}
	}
	return nil
}
