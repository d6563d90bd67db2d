// Package fs provides file-based export of card records.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/cardcrawl"
)

// Ensure CardWriter implements cardcrawl.CardExporter at compile time.
var _ cardcrawl.CardExporter = (*CardWriter)(nil)

// CardWriter writes each card as <baseDir>/<source>/<id>.json.
// Files appear atomically: a reader never observes a half-written record.
type CardWriter struct {
	baseDir string
}

// NewCardWriter creates a new CardWriter rooted at baseDir.
func NewCardWriter(baseDir string) *CardWriter {
	return &CardWriter{baseDir: baseDir}
}

// CardPath returns the path of a card's export file relative to the base
// directory.
func CardPath(source cardcrawl.Source, id int) string {
	return filepath.Join(string(source), strconv.Itoa(id)+".json")
}

func (w *CardWriter) path(source cardcrawl.Source, id int) string {
	return filepath.Join(w.baseDir, CardPath(source, id))
}

// Exists reports whether the card's export file is present.
func (w *CardWriter) Exists(source cardcrawl.Source, id int) bool {
	_, err := os.Stat(w.path(source, id))
	return err == nil
}

// Export writes the record's data to its file, replacing any previous export.
func (w *CardWriter) Export(ctx context.Context, source cardcrawl.Source, rec *cardcrawl.Record) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if rec.SourceID <= 0 {
		return cardcrawl.Errorf(cardcrawl.EINVALID, "record source ID must be positive")
	}
	if len(rec.Data) == 0 {
		return cardcrawl.Errorf(cardcrawl.EINVALID, "record %d has no data", rec.SourceID)
	}

	fullPath := w.path(source, rec.SourceID)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write to a sibling temp file, then rename over the target.
	tmp, err := os.CreateTemp(dir, "."+strconv.Itoa(rec.SourceID)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(rec.Data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}
