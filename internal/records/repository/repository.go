// Package repository persists school records as encrypted line files: one
// sealed CSV line per record, loaded into memory at startup and written back
// atomically. Corrupt lines are logged and skipped on load, never fatal.
package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
)

// Record is what a repository stores: a value with a stable ID, a CSV form
// and self-validation.
type Record interface {
	RecordID() string
	CSV() string
	Validate() error
}

// LineCrypter seals and opens persisted record lines. The symmetric engine
// satisfies it.
type LineCrypter interface {
	EncryptEncode(plaintext string) (string, error)
	DecodeDecrypt(encoded string) (string, error)
}

// Repository is an in-memory collection of records backed by an encrypted
// line file. All mutations mark the repository dirty; Persist writes the
// whole file back and clears the flag. Safe for concurrent use.
type Repository[T Record] struct {
	mu      sync.Mutex
	name    string
	path    string
	crypter LineCrypter
	logger  logging.Logger
	parse   func(string) (T, error)

	records []T
	index   map[string]int
	dirty   bool
	loaded  bool

	corruptLines int
}

// NewRepository creates a repository for one entity file. The parse function
// is the inverse of the record's CSV method.
func NewRepository[T Record](
	name, path string,
	crypter LineCrypter,
	logger logging.Logger,
	parse func(string) (T, error),
) (*Repository[T], error) {
	if name == "" || path == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "repository name and path are required")
	}
	if crypter == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "repository requires a crypter")
	}
	if parse == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "repository requires a parse function")
	}

	return &Repository[T]{
		name:    name,
		path:    path,
		crypter: crypter,
		logger:  logger,
		parse:   parse,
		index:   make(map[string]int),
	}, nil
}

// Name returns the repository's entity name.
func (r *Repository[T]) Name() string { return r.name }

// Load replaces the in-memory collection with the file's contents. Lines
// that fail to decrypt or parse are logged, counted and skipped; a missing
// file loads an empty repository. Any in-memory state, dirty or not, is
// discarded.
func (r *Repository[T]) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := fsutil.ReadLines(r.path, true)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s repository", r.name)
	}

	r.records = nil
	r.index = make(map[string]int)
	r.corruptLines = 0

	for _, line := range lines {
		plain, err := r.crypter.DecodeDecrypt(line)
		if err != nil {
			r.corruptLines++
			r.logWarn(fmt.Sprintf("%s repository skipped undecryptable line", r.name))
			continue
		}
		record, err := r.parse(plain)
		if err != nil {
			r.corruptLines++
			r.logWarn(fmt.Sprintf("%s repository skipped malformed line", r.name))
			continue
		}
		if _, dup := r.index[record.RecordID()]; dup {
			r.corruptLines++
			r.logWarn(fmt.Sprintf("%s repository skipped duplicate id %s", r.name, record.RecordID()))
			continue
		}
		r.index[record.RecordID()] = len(r.records)
		r.records = append(r.records, record)
	}

	r.dirty = false
	r.loaded = true
	r.logInfo(fmt.Sprintf("%s repository loaded %d records", r.name, len(r.records)))
	return nil
}

// Persist writes every record back as one sealed line, atomically. A clean
// repository persists unchanged content; callers can use Dirty to skip the
// write.
func (r *Repository[T]) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for _, record := range r.records {
		sealed, err := r.crypter.EncryptEncode(record.CSV())
		if err != nil {
			return errors.Wrapf(err, "failed to seal %s record %s", r.name, record.RecordID())
		}
		sb.WriteString(sealed)
		sb.WriteByte('\n')
	}

	if err := fsutil.WriteFileAtomic(r.path, []byte(sb.String()), 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s repository", r.name)
	}

	r.dirty = false
	r.logInfo(fmt.Sprintf("%s repository persisted %d records", r.name, len(r.records)))
	return nil
}

// Save adds a new record after validation. Saving an existing id is a
// conflict; use Update to replace.
func (r *Repository[T]) Save(record T) error {
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	if _, exists := r.index[id]; exists {
		return errors.Wrapf(errors.ErrConflict, "%s %s already exists", r.name, id)
	}

	r.index[id] = len(r.records)
	r.records = append(r.records, record)
	r.dirty = true
	return nil
}

// Update replaces an existing record after validation.
func (r *Repository[T]) Update(record T) error {
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	pos, exists := r.index[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "%s %s", r.name, id)
	}

	r.records[pos] = record
	r.dirty = true
	return nil
}

// Delete removes the record with the same id as the given record.
func (r *Repository[T]) Delete(record T) error {
	return r.DeleteByID(record.RecordID())
}

// DeleteByID removes the record with the given id.
func (r *Repository[T]) DeleteByID(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, exists := r.index[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "%s %s", r.name, id)
	}

	r.records = append(r.records[:pos], r.records[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.records); i++ {
		r.index[r.records[i].RecordID()] = i
	}
	r.dirty = true
	return nil
}

// FindByID returns the record with the given id.
func (r *Repository[T]) FindByID(id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	pos, exists := r.index[id]
	if !exists {
		return zero, errors.Wrapf(errors.ErrNotFound, "%s %s", r.name, id)
	}
	return r.records[pos], nil
}

// FindAll returns a copy of every record in insertion order.
func (r *Repository[T]) FindAll() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, len(r.records))
	copy(out, r.records)
	return out
}

// ExistsByID reports whether a record with the given id is stored.
func (r *Repository[T]) ExistsByID(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.index[id]
	return exists
}

// Count reports how many records are stored.
func (r *Repository[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Search returns the records the keep function selects, in insertion order.
func (r *Repository[T]) Search(keep func(T) bool) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []T
	for _, record := range r.records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// IDs returns the stored record ids, sorted.
func (r *Repository[T]) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.index))
	for id := range r.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dirty reports whether in-memory state has diverged from the file.
func (r *Repository[T]) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Loaded reports whether Load has run.
func (r *Repository[T]) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// CorruptLines reports how many lines the last Load skipped.
func (r *Repository[T]) CorruptLines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.corruptLines
}

func (r *Repository[T]) logInfo(msg string) {
	if r.logger != nil {
		r.logger.Info(msg)
	}
}

func (r *Repository[T]) logWarn(msg string) {
	if r.logger != nil {
		r.logger.Warn(msg)
	}
}
