// Package proof stores uploaded complaint attachments on disk and turns the
// stored file names into public URLs.
//
// Files live under <dir>/<userId>/<name>; a complaint record keeps only
// <name>, so the storage location can change without touching records.
package proof

import (
	"civiceye/backend/internal/config"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("proof file too large")

// Resolver builds retrieval URLs of the form {host}/proofs/{userId}/{name}.
type Resolver struct {
	PublicHost string
}

func NewResolver(publicHost string) Resolver {
	return Resolver{PublicHost: strings.TrimSuffix(publicHost, "/")}
}

// URL returns the public URL for a stored proof, or nil when there is none.
func (r Resolver) URL(userID string, name *string) *string {
	if name == nil || *name == "" {
		return nil
	}
	u := fmt.Sprintf("%s%s/%s/%s", r.PublicHost, config.ProofRoute, userID, *name)
	return &u
}

// Store writes attachments below Dir.
type Store struct {
	Dir      string
	MaxBytes int64

	now func() time.Time
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{Dir: dir, MaxBytes: maxBytes, now: time.Now}
}

// Save copies src into the user's directory under a freshly generated name
// that keeps the extension of originalName, and returns that bare name.
func (s *Store) Save(userID, originalName string, src io.Reader) (string, error) {
	if !safeSegment(userID) {
		return "", fmt.Errorf("save proof: invalid user directory %q", userID)
	}
	dir := filepath.Join(s.Dir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save proof: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.New().String()[:8], cleanExt(originalName))
	path := filepath.Join(dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("save proof: %w", err)
	}

	r := src
	if s.MaxBytes > 0 {
		r = io.LimitReader(src, s.MaxBytes+1)
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.MaxBytes > 0 && n > s.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("save proof: %w", err)
	}
	return name, nil
}

// Remove deletes a stored proof. A missing file is not an error.
func (s *Store) Remove(userID, name string) error {
	if !safeSegment(userID) || !safeSegment(name) {
		return fmt.Errorf("remove proof: invalid path %q/%q", userID, name)
	}
	err := os.Remove(filepath.Join(s.Dir, userID, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// cleanExt keeps a short alphanumeric extension and drops anything else.
func cleanExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
