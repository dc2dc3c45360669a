package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slices"

	rawcstr "github.com/novafacing/raw-cstr"
	"github.com/novafacing/raw-cstr/telemetry"
)

type DedupCmd struct {
	File  string `help:"Input file of whitespace-separated values." arg:"" type:"existingfile"`
	Top   int    `help:"Number of most repeated values to show." default:"5"`
	Watch bool   `help:"Re-run the report when the file changes."`
	Debug bool   `help:"Dump the raw report structure."`
}

func (cmd *DedupCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	s := newStyler(globals, ctx.Stdout)

	if err := cmd.runOnce(runCtx, ctx.Stdout, s); err != nil {
		return err
	}

	if collector != nil {
		_, _ = fmt.Fprintln(ctx.Stderr)
		collector.Report(ctx.Stderr)
	}

	if cmd.Watch {
		return cmd.watch(runCtx, ctx.Stdout, s)
	}

	return nil
}

func (cmd *DedupCmd) runOnce(ctx context.Context, w io.Writer, s styler) error {
	report, err := buildDedupReport(ctx, cmd.File, cmd.Top)
	if err != nil {
		return err
	}

	if cmd.Debug {
		repr.Println(report)
	}

	report.render(w, s)
	return nil
}

// watch re-runs the report whenever the input file changes. The parent
// directory is watched rather than the file itself, so editors that replace
// the file on save do not silently detach the watch.
func (cmd *DedupCmd) watch(ctx context.Context, w io.Writer, s styler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(cmd.File)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(cmd.File), err)
	}

	s.printInfof(w, "watching %s", cmd.File)
	target := filepath.Clean(cmd.File)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			_, _ = fmt.Fprintln(w)
			if err := cmd.runOnce(ctx, w, s); err != nil {
				s.printError(w, err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}

// dedupReport summarizes one intern run over an input file.
type dedupReport struct {
	File       string
	Values     int
	Unique     int
	Skipped    int
	CacheBytes int
	SavedBytes int
	Top        []valueCount
}

type valueCount struct {
	Value string
	Count int
}

// buildDedupReport interns every whitespace-separated value of the file
// through a single cache and measures what the interning saved.
func buildDedupReport(ctx context.Context, filename string, top int) (*dedupReport, error) {
	collector := telemetry.FromContext(ctx)

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cache := rawcstr.NewCache()
	defer cache.Close()

	report := &dedupReport{File: filename}
	counts := make(map[string]int)

	scanTimer := collector.Start("scan " + filepath.Base(filename))
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		value := scanner.Text()
		if _, err := rawcstr.String(value).RawCStr(cache); err != nil {
			report.Skipped++
			continue
		}
		counts[value]++
		report.Values++
	}
	scanTimer.End()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	rankTimer := collector.Start("rank")
	stats := cache.Stats()
	report.Unique = stats.Entries
	report.CacheBytes = stats.Bytes

	for value, count := range counts {
		// Without interning every repeat would have allocated its own
		// terminated buffer.
		report.SavedBytes += (count - 1) * (len(value) + 1)
		if count > 1 {
			report.Top = append(report.Top, valueCount{Value: value, Count: count})
		}
	}

	slices.SortFunc(report.Top, func(a, b valueCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Value, b.Value)
	})
	if len(report.Top) > top {
		report.Top = report.Top[:top]
	}
	rankTimer.End()

	return report, nil
}

func (r *dedupReport) render(w io.Writer, s styler) {
	s.printInfof(w, "interned %d values from %s", r.Values, r.File)
	s.printSuccess(w, fmt.Sprintf("%d unique entries holding %d bytes, %d bytes saved",
		r.Unique, r.CacheBytes, r.SavedBytes))

	if r.Skipped > 0 {
		s.printError(w, fmt.Sprintf("%d values skipped (not convertible)", r.Skipped))
	}

	if len(r.Top) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", s.render(headerStyle, "most repeated"))

	width := 0
	for _, vc := range r.Top {
		if rw := runewidth.StringWidth(vc.Value); rw > width {
			width = rw
		}
	}
	for _, vc := range r.Top {
		_, _ = fmt.Fprintf(w, "  %s  %s\n",
			runewidth.FillRight(vc.Value, width),
			s.render(dimStyle, fmt.Sprintf("×%d", vc.Count)))
	}
}
