// Package receipt stores uploaded receipt files on the local filesystem, one directory per home.
package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxSize is 10 MB.
const DefaultMaxSize int64 = 10 << 20

var (
	ErrNotFound        = errors.New("receipt not found")
	ErrTooLarge        = errors.New("receipt too large")
	ErrUnsupportedType = errors.New("unsupported receipt type")
)

var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/heic",
	"application/pdf",
}

type Receipt struct {
	ID          uuid.UUID
	ContentType string
	Size        int64
}

type Store struct {
	dir     string
	maxSize int64
}

func New(dir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating receipts directory: %w", err)
	}

	return &Store{dir: dir, maxSize: maxSize}, nil
}

func (s *Store) path(homeID, id uuid.UUID) string {
	return filepath.Join(s.dir, homeID.String(), id.String())
}

// Save reads the whole upload, checks its size and sniffed type and writes it under the home.
func (s *Store) Save(_ context.Context, homeID uuid.UUID, r io.Reader) (*Receipt, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading receipt: %w", err)
	}

	if int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	rec := &Receipt{
		ID:          uuid.New(),
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}

	if err := os.MkdirAll(filepath.Join(s.dir, homeID.String()), 0o755); err != nil {
		return nil, fmt.Errorf("creating home directory: %w", err)
	}

	if err := os.WriteFile(s.path(homeID, rec.ID), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing receipt: %w", err)
	}

	return rec, nil
}

// Open returns the receipt contents and its content type. The caller closes the reader.
func (s *Store) Open(_ context.Context, homeID, id uuid.UUID) (io.ReadCloser, string, error) {
	data, err := os.ReadFile(s.path(homeID, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}

		return nil, "", fmt.Errorf("reading receipt: %w", err)
	}

	return io.NopCloser(bytes.NewReader(data)), mimetype.Detect(data).String(), nil
}

// Delete removes a receipt. Missing files are not an error.
func (s *Store) Delete(_ context.Context, homeID, id uuid.UUID) error {
	err := os.Remove(s.path(homeID, id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting receipt: %w", err)
	}

	return nil
}
