// Package media stores uploaded files on local disk, grouped by catalog.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"socialite/internal/utils"
)

const (
	CatalogProfilePictures = "profile_pictures"
	CatalogPostsMedia      = "posts_media"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploads under <baseDir>/<catalog>/ with names derived from the
// owning profile and a random component.
type Store struct {
	baseDir string
	maxSize int64
}

func NewStore(baseDir string, maxSize int64) *Store {
	return &Store{baseDir: baseDir, maxSize: maxSize}
}

// Save writes the upload and returns its path relative to the base dir:
// <catalog>/<owner-id>-<nickname-slug>-<random><ext>.
func (s *Store) Save(catalog string, ownerID uuid.UUID, nickname, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", utils.NewValidationError("uploaded file needs an extension")
	}
	if catalog == CatalogProfilePictures && !imageExtensions[ext] {
		return "", utils.NewValidationError(fmt.Sprintf("unsupported image type %q", ext))
	}

	name := fmt.Sprintf("%s-%s-%s%s", ownerID, slugify(nickname), uuid.New(), ext)
	relPath := filepath.Join(catalog, name)
	absPath := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	limited := io.LimitReader(r, s.maxSize+1)
	written, err := io.Copy(f, limited)
	if err != nil {
		os.Remove(absPath)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if written > s.maxSize {
		os.Remove(absPath)
		return "", utils.NewValidationError("uploaded file exceeds the size limit")
	}

	return relPath, nil
}

// Remove deletes a previously stored file. A missing file is not an error;
// the reference may already have been replaced.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// slugify lowercases and strips a name down to letters, digits and dashes.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
