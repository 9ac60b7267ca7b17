package resume

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"hirepath/internal/application/models"
)

// DiskStore writes resumes under a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create resume dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, file models.Attachment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := objectName()
	if err != nil {
		return "", fmt.Errorf("name resume: %w", err)
	}
	target := filepath.Join(s.dir, name)
	// O_EXCL: never overwrite an existing resume.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create resume file: %w", err)
	}
	if _, err := f.Write(file.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write resume file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close resume file: %w", err)
	}
	return target, nil
}

// Delete removes a resume written by this store. Refs outside dir are refused.
func (s *DiskStore) Delete(_ context.Context, ref string) error {
	rel, err := filepath.Rel(s.dir, ref)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("delete resume: %q is outside %q", ref, s.dir)
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}
