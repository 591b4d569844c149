package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/logger"
)

// DocumentStore persists uploaded land documents on the local filesystem.
// Files are immutable once written and keyed by their generated name, so a
// write that succeeds but whose submission insert fails only leaks a file,
// never corrupts one.
type DocumentStore struct {
	dir         string
	maxBytes    int64
	allowedExts map[string]bool
	log         *logger.Logger
}

// NewDocumentStore creates a store rooted at dir, creating it if needed.
func NewDocumentStore(dir string, maxBytes int64, allowedExts []string, log *logger.Logger) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	exts := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		exts[strings.ToLower(ext)] = true
	}

	return &DocumentStore{
		dir:         dir,
		maxBytes:    maxBytes,
		allowedExts: exts,
		log:         log,
	}, nil
}

// Save writes an uploaded document under a generated collision-resistant
// name and returns that name. The original filename only contributes its
// extension.
func (s *DocumentStore) Save(originalName string, size int64, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !s.allowedExts[ext] {
		return "", apperr.Newf(apperr.KindValidation,
			"Invalid file type. Only PDF and images are allowed.")
	}

	if size > s.maxBytes {
		return "", apperr.Newf(apperr.KindValidation,
			"Document too large. Maximum size is %d bytes.", s.maxBytes)
	}

	name := fmt.Sprintf("land-doc-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, "failed to store document", err)
	}
	defer dst.Close()

	// LimitReader guards against clients lying about Content-Length.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", apperr.Wrap(apperr.KindStorage, "failed to store document", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", apperr.Newf(apperr.KindValidation,
			"Document too large. Maximum size is %d bytes.", s.maxBytes)
	}

	s.log.Info("document stored", "name", name, "bytes", written)

	return name, nil
}

// Open returns a reader for a stored document. Only the base name of the
// input is honored so callers cannot traverse out of the upload dir.
func (s *DocumentStore) Open(filename string) (io.ReadCloser, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.KindNotFound, "Document not found")
		}
		return nil, apperr.Wrap(apperr.KindStorage, "failed to open document", err)
	}

	return f, nil
}

// Path resolves a stored document to its on-disk path, verifying existence.
func (s *DocumentStore) Path(filename string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.New(apperr.KindNotFound, "Document not found")
		}
		return "", apperr.Wrap(apperr.KindStorage, "failed to stat document", err)
	}

	return path, nil
}
