package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/abhisek/kubika/internal/progress"
)

// FileProgressRepo stores each user's aggregate as a JSON document named
// learning_progress_<userId>.json inside a directory.
type FileProgressRepo struct {
	dir string
	mu  sync.Mutex
}

var _ progress.Repository = (*FileProgressRepo)(nil)

// NewFileProgressRepo returns a repository rooted at dir, creating it if
// needed.
func NewFileProgressRepo(dir string) (*FileProgressRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}
	return &FileProgressRepo{dir: dir}, nil
}

const (
	progressFilePrefix = "learning_progress_"
	progressFileSuffix = ".json"
)

// Path returns the file holding userID's aggregate.
func (r *FileProgressRepo) Path(userID string) string {
	return filepath.Join(r.dir, progressFilePrefix+url.PathEscape(userID)+progressFileSuffix)
}

func (r *FileProgressRepo) Get(_ context.Context, userID string) (*progress.Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.Path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}

	var agg progress.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if agg.TopicProgress == nil {
		agg.TopicProgress = make(map[string]progress.TopicProgress)
	}
	if err := agg.Validate(); err != nil {
		return nil, fmt.Errorf("stored progress for %q: %w", userID, err)
	}
	return &agg, nil
}

func (r *FileProgressRepo) Put(_ context.Context, agg progress.Aggregate) error {
	if err := agg.Validate(); err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.Path(agg.UserID)
	tmp, err := os.CreateTemp(r.dir, ".progress-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Delete removes userID's file. A missing file is not an error.
func (r *FileProgressRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.Path(userID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Users lists every user with a progress file, sorted.
func (r *FileProgressRepo) Users(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list progress dir: %w", err)
	}

	var users []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, progressFilePrefix) || !strings.HasSuffix(name, progressFileSuffix) {
			continue
		}
		userID, err := url.PathUnescape(strings.TrimSuffix(strings.TrimPrefix(name, progressFilePrefix), progressFileSuffix))
		if err != nil || userID == "" {
			continue
		}
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}
