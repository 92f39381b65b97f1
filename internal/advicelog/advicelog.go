// Package advicelog journals finished runs as one JSON line per run, one file per day.
package advicelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/types"
)

const (
	fileExt    = ".jsonl"
	dateLayout = "2006-01-02"
)

type Entry struct {
	Time           string   `json:"time"`
	Symbol         string   `json:"symbol"`
	State          string   `json:"state"`
	Outcome        string   `json:"outcome"`
	Action         string   `json:"action,omitempty"`
	Confidence     string   `json:"confidence,omitempty"`
	Horizon        string   `json:"horizon,omitempty"`
	Parsed         bool     `json:"parsed"`
	Summary        string   `json:"summary,omitempty"`
	Model          string   `json:"model,omitempty"`
	Truncated      bool     `json:"truncated,omitempty"`
	FailedSections []string `json:"failed_sections,omitempty"`
	Failure        string   `json:"failure,omitempty"`
	DurationMS     int64    `json:"duration_ms"`
}

// Writer appends entries under dir. It is safe for concurrent use.
type Writer struct {
	dir string
	mu  sync.Mutex
	Now func() time.Time
}

var _ interfaces.AdviceJournal = (*Writer)(nil)

func New(dir string) *Writer {
	if dir == "" {
		dir = "logs"
	}
	return &Writer{dir: dir, Now: time.Now}
}

func (w *Writer) Dir() string {
	return w.dir
}

// DailyPath is the journal file for the day containing t (UTC).
func (w *Writer) DailyPath(t time.Time) string {
	return filepath.Join(w.dir, t.UTC().Format(dateLayout)+fileExt)
}

// NewEntry flattens a run into a journal line.
func NewEntry(res *types.RunResult, at time.Time) Entry {
	e := Entry{
		Time:       at.UTC().Format(time.RFC3339),
		Symbol:     res.Symbol,
		State:      string(res.State),
		Outcome:    string(res.Outcome),
		Failure:    res.FailureText,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Report != nil {
		for _, s := range res.Report.Sections {
			if s.Failed {
				e.FailedSections = append(e.FailedSections, string(s.Name))
			}
		}
	}
	if res.Advice != nil {
		e.Model = res.Advice.Model
		e.Truncated = res.Advice.Truncated
	}
	if r := res.Recommendation; r != nil {
		e.Action = string(r.Action)
		e.Confidence = string(r.Confidence)
		e.Horizon = string(r.Horizon)
		e.Parsed = r.Parsed
		if r.Parsed {
			e.Summary = r.Summary
		}
	}
	return e
}

// Append writes res to today's journal.
func (w *Writer) Append(res *types.RunResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	p := w.DailyPath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(NewEntry(res, now))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journals dated more than retentionDays ago and removes the originals.
func (w *Writer) CompressOlder(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := w.now().UTC().AddDate(0, 0, -retentionDays)
	compressed := 0
	for _, d := range entries {
		name := d.Name()
		if d.IsDir() || filepath.Ext(name) != fileExt {
			continue
		}
		day, err := time.Parse(dateLayout, strings.TrimSuffix(name, fileExt))
		if err != nil || !day.Before(cutoff) {
			continue
		}

		p := filepath.Join(w.dir, name)
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			continue
		}
		if err := gzipFile(p, gz); err != nil {
			return compressed, fmt.Errorf("compress %s: %w", name, err)
		}
		if err := os.Remove(p); err != nil {
			return compressed, err
		}
		compressed++
	}
	return compressed, nil
}

// gzipFile writes src compressed to dst. dst is removed on any failure so a
// partial archive never stands in for the original.
func gzipFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (w *Writer) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}
