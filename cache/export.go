package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportVersion is the snapshot format version written by Exporter.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Text       string `json:"text"`
	Value      string `json:"value"`
}

// Exporter writes snapshots of an in-memory cache.
type Exporter struct {
	cache *Memory
	now   func() time.Time
}

// NewExporter creates a new cache exporter.
func NewExporter(cache *Memory) *Exporter {
	return &Exporter{cache: cache, now: time.Now}
}

// Export writes the cache contents to a writer in JSON format.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	entries := e.cache.Entries()
	out := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, 0, len(entries)),
		Metadata:   metadata,
	}
	for _, entry := range entries {
		out.Entries = append(out.Entries, ExportEntry{
			SourceLang: entry.Key.SourceLang,
			TargetLang: entry.Key.TargetLang,
			Text:       entry.Key.Text,
			Value:      entry.Value,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := e.Export(f, metadata); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Importer loads snapshots into any cache.
type Importer struct {
	cache Cache
}

// NewImporter creates a new cache importer.
func NewImporter(cache Cache) *Importer {
	return &Importer{cache: cache}
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int // already cached; the existing value was kept
	Failed   int
}

// Import reads cache entries from a reader and loads them into the cache.
// Language codes are canonicalized the way lookups build their keys.
// Entries with an empty text or value, or an unparseable language code,
// count as Failed.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var in ExportFormat
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  in.Version,
		Metadata: in.Metadata,
	}

	for _, entry := range in.Entries {
		key, ok := importKey(entry)
		if !ok {
			result.Failed++
			continue
		}
		if i.cache.Has(key) {
			result.Skipped++
			continue
		}
		if err := i.cache.Put(key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

func importKey(entry ExportEntry) (Key, bool) {
	if entry.Text == "" || entry.Value == "" {
		return Key{}, false
	}
	source, err := CanonicalLang(entry.SourceLang)
	if err != nil {
		return Key{}, false
	}
	target, err := CanonicalLang(entry.TargetLang)
	if err != nil {
		return Key{}, false
	}
	return Key{SourceLang: source, TargetLang: target, Text: entry.Text}, true
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}
