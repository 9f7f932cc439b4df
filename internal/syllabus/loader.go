// Package syllabus loads the static subject catalogs the scheduler draws
// on: topic lists, prerequisite tables and subtopic volume hints.
package syllabus

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches subject catalogs from the filesystem.
type Loader struct {
	rootDir  string
	subjects map[string]Subject
	mu       sync.RWMutex
}

// NewLoader creates a new catalog loader and loads all subjects.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:  rootDir,
		subjects: make(map[string]Subject),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading syllabus catalog: %w", err)
	}

	slog.Info("syllabus catalog loaded", "subjects", len(l.subjects))
	return l, nil
}

// Get returns a subject by name, resolved through the normalized key.
func (l *Loader) Get(name string) (Subject, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.subjects[NormalizeKey(name)]
	return s, ok
}

// TopicsFor returns the catalog topic list for a subject, nil if unknown.
func (l *Loader) TopicsFor(name string) []string {
	s, ok := l.Get(name)
	if !ok {
		return nil
	}
	return s.Topics
}

// PrerequisitesFor returns a subject's prerequisite table. Unknown subjects
// get an empty table, which degrades scheduling to input order.
func (l *Loader) PrerequisitesFor(name string) map[string][]string {
	s, ok := l.Get(name)
	if !ok {
		return map[string][]string{}
	}
	if s.Prerequisites == nil {
		return map[string][]string{}
	}
	return s.Prerequisites
}

// AllSubjects returns every loaded subject.
func (l *Loader) AllSubjects() []Subject {
	l.mu.RLock()
	defer l.mu.RUnlock()
	subjects := make([]Subject, 0, len(l.subjects))
	for _, s := range l.subjects {
		subjects = append(subjects, s)
	}
	return subjects
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return l.loadSubject(path)
	})
}

func (l *Loader) loadSubject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var subject Subject
	if err := yaml.Unmarshal(data, &subject); err != nil {
		slog.Warn("skipping invalid subject YAML", "path", path, "error", err)
		return nil
	}

	if subject.Name == "" {
		return nil // Not a subject file
	}

	l.mu.Lock()
	l.subjects[NormalizeKey(subject.Name)] = subject
	l.mu.Unlock()

	return nil
}
