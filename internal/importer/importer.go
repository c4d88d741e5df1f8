// Package importer turns bank CSV exports into transaction drafts.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

// ParseFile opens path and parses it with the parser for format.
func (r *Registry) ParseFile(format, path string) ([]model.BankTransaction, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown import format %q (have %s)", format, strings.Join(r.Formats(), ", "))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Drafts converts bank rows into drafts in file order.
func Drafts(txns []model.BankTransaction) []model.Draft {
	out := make([]model.Draft, 0, len(txns))
	for _, t := range txns {
		if t.Amount.IsZero() {
			continue
		}
		out = append(out, t.Draft())
	}
	return out
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
