package metadata

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Record is one installation's flat metadata document. Fields written by
// other collaborators are carried through untouched.
type Record map[string]any

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return strings.TrimSpace(toString(v))
	}
}

// Bool accepts both JSON booleans and the "true"/"false" strings older
// records use.
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toString(v any) string {
	data, err := sonic.MarshalString(v)
	if err != nil {
		return ""
	}
	return strings.Trim(data, `"`)
}

// Store persists records by installation id.
type Store interface {
	Load(id string) (Record, error)
	// Save merges patch into the stored record. A nil value deletes the key.
	Save(id string, patch Record) error
	Delete(id string) error
	List() ([]string, error)
}

var idRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps each record in <dir>/<id>.json.
type FileStore struct {
	logger *zap.Logger
	dir    string
	mu     sync.Mutex
}

func NewFileStore(logger *zap.Logger, dir string) *FileStore {
	return &FileStore{
		logger: logger,
		dir:    dir,
	}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) (string, error) {
	if !idRegexp.MatchString(id) || strings.Trim(id, ".") == "" {
		return "", errs.ErrInvalidParams.WithMessage("invalid target id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Load(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

func (s *FileStore) load(id string) (Record, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNotFound.WithMessage("no metadata for %s", id)
		}
		return nil, errs.ErrPersistenceFailure.WithMessage("failed to read metadata for %s", id).Wrap(err)
	}
	record := Record{}
	if err := sonic.Unmarshal(data, &record); err != nil {
		return nil, errs.ErrPersistenceFailure.WithMessage("corrupt metadata for %s", id).Wrap(err)
	}
	return record, nil
}

func (s *FileStore) Save(id string, patch Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(id)
	if err != nil {
		return err
	}

	record, err := s.load(id)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		record = Record{}
	}
	for k, v := range patch {
		if v == nil {
			delete(record, k)
			continue
		}
		record[k] = v
	}

	data, err := sonic.ConfigStd.MarshalIndent(record, "", "  ")
	if err != nil {
		return errs.ErrPersistenceFailure.WithMessage("failed to encode metadata for %s", id).Wrap(err)
	}
	if err := writeAtomic(p, data); err != nil {
		s.logger.Error("Failed to write metadata",
			zap.String("id", id),
			zap.String("file", p),
			zap.Error(err),
		)
		return errs.ErrPersistenceFailure.WithMessage("failed to save metadata for %s", id).Wrap(err)
	}
	return nil
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errs.ErrPersistenceFailure.WithMessage("failed to delete metadata for %s", id).Wrap(err)
	}
	return nil
}

func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errs.ErrPersistenceFailure.WithMessage("failed to list metadata").Wrap(err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	tmp := path + "." + ksuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
