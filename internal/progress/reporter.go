// Package progress tails progress.json and renders build progress (spec
// §4.7), grounded on the fsnotify watch-loop shape of the pack's
// leapstack-labs-leapsql/internal/docs/dev.go DevServer, narrowed here from
// watching a directory tree to tailing one growing file.
package progress

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
)

// Line is one JSON object appended to progress.json by a compile rule
// (spec §4.5): `{target, source, timestamp, status}`.
type Line struct {
	Target    string `json:"target"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// Reporter tails a progress.json file and renders completion as either an
// in-place bar (TTY) or one line per completed unit (non-TTY).
type Reporter struct {
	Path  string
	Total int
	Out   io.Writer
}

// New returns a Reporter for the file at path, expecting total compile
// units (see generate.ExpectedCompileUnits).
func New(path string, total int) *Reporter {
	return &Reporter{Path: path, Total: total, Out: os.Stdout}
}

// Run blocks, tailing r.Path until stop is closed, rendering each newly
// appended Line. Besides fsnotify write events it always polls on a 200ms
// ticker, which covers filesystems where fsnotify can't establish a watch.
func (r *Reporter) Run(stop <-chan struct{}) error {
	tty := isatty.IsTerminal(os.Stdout.Fd())

	file, err := openWhenPresent(r.Path, stop)
	if err != nil {
		return err
	}
	if file == nil {
		return nil // stopped before the file ever appeared
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	completed := 0

	watcher, watchErr := fsnotify.NewWatcher()
	if watchErr == nil {
		defer watcher.Close()
		_ = watcher.Add(r.Path)
	}

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		for {
			line, readErr := reader.ReadString('\n')
			if line != "" {
				var parsed Line
				if json.Unmarshal([]byte(line), &parsed) == nil {
					completed++
					r.render(tty, completed, parsed)
				}
			}
			if readErr != nil {
				break
			}
		}

		select {
		case <-stop:
			return nil
		case <-tick.C:
			continue
		case _, ok := <-watchEvents(watcher):
			if !ok {
				continue
			}
		}
	}
}

func watchEvents(w *fsnotify.Watcher) chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}

func (r *Reporter) render(tty bool, completed int, line Line) {
	if !tty {
		fmt.Fprintf(r.Out, "[%d/%d] %s: %s\n", completed, r.Total, line.Target, line.Source)
		return
	}

	pct := 100
	if r.Total > 0 {
		pct = completed * 100 / r.Total
	}
	bar := fmt.Sprintf("\r[green]%3d%%[reset] (%d/%d) %s", pct, completed, r.Total, line.Target)
	fmt.Fprint(r.Out, colorstring.Color(bar))
	if completed >= r.Total {
		fmt.Fprintln(r.Out)
	}
}

// openWhenPresent polls for r.Path's existence, since the generator creates
// an empty progress.json before the driver starts writing to it — the file
// itself is a reliable append target, but a caller starting the reporter
// racing the generator may briefly find it absent.
func openWhenPresent(path string, stop <-chan struct{}) (*os.File, error) {
	for {
		file, err := os.Open(path)
		if err == nil {
			return file, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}

		select {
		case <-stop:
			return nil, nil
		case <-time.After(50 * time.Millisecond):
		}
	}
}
