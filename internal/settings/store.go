// Package settings persists the shortcut bindings as string lists in a small
// YAML file and notifies subscribers when a value changes, whether the write
// came from this process or from another one editing the same file.
package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/screenhop/internal/accel"
)

var ErrUnknownKey = errors.New("unknown settings key")

// ValidationError locates a problem in the settings file.
type ValidationError struct {
	File   string
	Line   int
	Column int
	Key    string
	Err    error
}

func (e *ValidationError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", loc, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", loc, e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ChangeFunc receives the new effective value of a key.
type ChangeFunc func(key string, values []string)

type subscription struct {
	key string
	fn  ChangeFunc
}

// Store is a schema-backed set of string-list keys.
type Store struct {
	path   string
	schema Schema
	logger zerolog.Logger

	mu     sync.Mutex
	values map[string][]string // explicitly set keys only
	subs   map[int]subscription
	nextID int
}

// Open loads path. A missing file means every key has its default.
func Open(path string, schema Schema, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		schema: schema,
		logger: logger,
		subs:   make(map[int]subscription),
	}
	values, err := s.load()
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Keys returns key names in schema order.
func (s *Store) Keys() []string {
	return s.schema.Names()
}

// Summary returns the human title of key.
func (s *Store) Summary(key string) string {
	spec, _ := s.schema.Lookup(key)
	return spec.Summary
}

// StringList returns the effective value of key.
func (s *Store) StringList(key string) ([]string, error) {
	spec, ok := s.schema.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLocked(spec), nil
}

// IsDefault reports whether key has no explicit value.
func (s *Store) IsDefault(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return !ok
}

// SetStringList stores values for key. Accelerators are stored in canonical
// form and at most one is allowed.
func (s *Store) SetStringList(key string, values []string) error {
	if _, ok := s.schema.Lookup(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if len(values) > 1 {
		return fmt.Errorf("%s: at most one accelerator is allowed, got %d", key, len(values))
	}
	canonical := make([]string, 0, len(values))
	for _, v := range values {
		name, err := accel.Canonicalize(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		canonical = append(canonical, name)
	}

	return s.modify(func(values map[string][]string) bool {
		values[key] = canonical
		return true
	})
}

// Reset drops the explicit value of key so the default applies again.
func (s *Store) Reset(key string) error {
	if _, ok := s.schema.Lookup(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.modify(func(values map[string][]string) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
}

// modify re-reads the file, applies change and writes the result back, so
// keys another process wrote since our last read are kept. change reports
// whether anything needs writing.
func (s *Store) modify(change func(values map[string][]string) bool) error {
	s.mu.Lock()
	values, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if change(values) {
		if err := s.persist(values); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	changes := s.replaceLocked(values)
	s.mu.Unlock()

	s.notifyAll(changes)
	return nil
}

// Accelerator returns the single accelerator bound to key, or "" when the
// binding is disabled.
func (s *Store) Accelerator(key string) (string, error) {
	values, err := s.StringList(key)
	if err != nil {
		return "", err
	}
	switch len(values) {
	case 0:
		return "", nil
	case 1:
	default:
		s.logger.Warn().Str("key", key).Int("count", len(values)).Msg("more than one accelerator configured, using the first")
	}
	return values[0], nil
}

// SetAccelerator binds key to a. An empty string disables the binding.
func (s *Store) SetAccelerator(key, a string) error {
	if a == "" {
		return s.SetStringList(key, []string{})
	}
	return s.SetStringList(key, []string{a})
}

// Subscribe registers fn for changes to key. The returned func removes it.
func (s *Store) Subscribe(key string, fn ChangeFunc) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = subscription{key: key, fn: fn}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Reload re-reads the file and notifies keys whose effective value changed.
func (s *Store) Reload() error {
	s.mu.Lock()
	values, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changes := s.replaceLocked(values)
	s.mu.Unlock()

	s.notifyAll(changes)
	return nil
}

type change struct {
	key    string
	values []string
}

// replaceLocked installs values and returns the keys whose effective value
// moved.
func (s *Store) replaceLocked(values map[string][]string) []change {
	var changes []change
	for _, spec := range s.schema {
		after := effective(values, spec)
		if !slices.Equal(s.effectiveLocked(spec), after) {
			changes = append(changes, change{key: spec.Name, values: after})
		}
	}
	s.values = values
	return changes
}

func (s *Store) notifyAll(changes []change) {
	for _, c := range changes {
		s.notify(c.key, c.values)
	}
}

// Watch reloads the store whenever the file changes on disk. It blocks until
// ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error().Err(err).Msg("failed to reload settings")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("settings watcher error")
		}
	}
}

func (s *Store) notify(key string, values []string) {
	s.mu.Lock()
	var fns []ChangeFunc
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if sub := s.subs[id]; sub.key == key {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, slices.Clone(values))
	}
}

func (s *Store) effectiveLocked(spec KeySpec) []string {
	return effective(s.values, spec)
}

func effective(values map[string][]string, spec KeySpec) []string {
	if v, ok := values[spec.Name]; ok {
		return slices.Clone(v)
	}
	return slices.Clone(spec.Default)
}

func (s *Store) load() (map[string][]string, error) {
	values := make(map[string][]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", s.path, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{File: s.path, Line: root.Line, Column: root.Column, Err: errors.New("expected a mapping")}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]
		if _, ok := s.schema.Lookup(keyNode.Value); !ok {
			return nil, &ValidationError{File: s.path, Line: keyNode.Line, Column: keyNode.Column, Key: keyNode.Value, Err: ErrUnknownKey}
		}

		list := []string{}
		switch valNode.Kind {
		case yaml.SequenceNode:
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, &ValidationError{File: s.path, Line: item.Line, Column: item.Column, Key: keyNode.Value, Err: errors.New("expected a string")}
				}
				list = append(list, item.Value)
			}
		case yaml.ScalarNode:
			if valNode.Tag != "!!null" {
				return nil, &ValidationError{File: s.path, Line: valNode.Line, Column: valNode.Column, Key: keyNode.Value, Err: errors.New("expected a list of accelerators")}
			}
		default:
			return nil, &ValidationError{File: s.path, Line: valNode.Line, Column: valNode.Column, Key: keyNode.Value, Err: errors.New("expected a list of accelerators")}
		}
		values[keyNode.Value] = list
	}
	return values, nil
}

func (s *Store) persist(values map[string][]string) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, spec := range s.schema {
		v, ok := values[spec.Name]
		if !ok {
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range v {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: item, Style: yaml.DoubleQuotedStyle})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: spec.Name},
			seq,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	return writeAtomic(s.path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
