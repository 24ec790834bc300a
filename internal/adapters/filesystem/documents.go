// Package filesystem implements ports.DocumentStore over the planning repo
// directory tree. All returned paths are repo-relative with forward
// slashes, matching the sourceLocation values stored in the ledger.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"kinetic/internal/ports"
)

var cardNameRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-TodayCard\.md$`)

// Store reads and writes managed documents under one repo root
type Store struct {
	root        string
	projectsDir string
	cardsDir    string
}

// NewStore creates a document store rooted at the given directory.
// projectsDir and cardsDir are repo-relative directory names.
func NewStore(root, projectsDir, cardsDir string) *Store {
	if strings.HasPrefix(root, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			root = filepath.Join(home, root[1:])
		}
	}
	return &Store{root: root, projectsDir: projectsDir, cardsDir: cardsDir}
}

// Exists reports whether the document is present
func (s *Store) Exists(relPath string) bool {
	info, err := os.Stat(s.abs(relPath))
	return err == nil && !info.IsDir()
}

// Read returns the document's lines
func (s *Store) Read(relPath string) ([]string, error) {
	data, err := os.ReadFile(s.abs(relPath))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}

// Write persists the document through a temp file and rename
func (s *Store) Write(relPath string, content string) error {
	path := s.abs(relPath)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", relPath, err)
	}
	return nil
}

// ListProjectFiles returns the markdown documents under the projects
// directory, sorted by name. A missing directory yields an empty list.
func (s *Store) ListProjectFiles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, s.projectsDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.projectsDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, s.projectsDir+"/"+entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ListCardFiles returns the daily cards in date order, oldest first.
// Files not matching the card naming convention are ignored.
func (s *Store) ListCardFiles() ([]ports.CardFile, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, s.cardsDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.cardsDir, err)
	}

	var cards []ports.CardFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := CardDate(entry.Name())
		if !ok {
			continue
		}
		cards = append(cards, ports.CardFile{
			Path: s.cardsDir + "/" + entry.Name(),
			Date: date,
		})
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Date.Equal(cards[j].Date) {
			return cards[i].Path < cards[j].Path
		}
		return cards[i].Date.Before(cards[j].Date)
	})
	return cards, nil
}

// CardDate extracts the date from a card filename
func CardDate(name string) (time.Time, bool) {
	m := cardNameRegex.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (s *Store) abs(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}
