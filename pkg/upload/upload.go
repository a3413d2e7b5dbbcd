// Package upload stores inbound image streams on local disk with a
// streaming size guard. A transfer that fails for any reason after the
// destination file was opened leaves no partial artifact behind.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inkwell/pkg/apperr"
	"inkwell/pkg/logger"

	"github.com/google/uuid"
)

const copyBufferSize = 32 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type StoredFile struct {
	Name string
	Path string
	URL  string
	Size int64
}

type Store struct {
	root     string
	baseURL  string
	maxBytes int64
	log      *logger.Logger
}

func New(root, baseURL string, maxBytes int64, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		root:     root,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
		log:      log,
	}, nil
}

// Save streams src into a new file under the store root. The declared
// content type must be an image and the extension must be on the
// allow-list; both are checked before any byte is read. The stored name
// combines the owner id with a random token, so client input never
// contributes path components.
func (s *Store) Save(src io.Reader, contentType, filename string, ownerID uint) (*StoredFile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("only image uploads are allowed",
			apperr.FieldError{Field: "avatar", Message: "content type must be image/*"})
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !allowedExtensions[ext] {
		return nil, apperr.Validation("unsupported image format",
			apperr.FieldError{Field: "avatar", Message: "allowed extensions: jpg, jpeg, png, gif, webp"})
	}

	name := fmt.Sprintf("%d_%s%s", ownerID, uuid.New().String(), ext)
	path := filepath.Join(s.root, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperr.Internal("failed to create upload file", err)
	}

	written, err := s.copyLimited(dst, src)
	if err != nil {
		dst.Close()
		s.remove(path)
		return nil, err
	}

	if err := dst.Close(); err != nil {
		s.remove(path)
		return nil, apperr.Internal("failed to finalize upload file", err)
	}

	return &StoredFile{
		Name: name,
		Path: path,
		URL:  s.baseURL + "/" + name,
		Size: written,
	}, nil
}

// copyLimited forwards src to dst chunk by chunk, checking the running
// counter before each write. The chunk that would push the total past
// maxBytes is never written.
func (s *Store) copyLimited(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyBufferSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if written+int64(n) > s.maxBytes {
				return written, apperr.PayloadTooLarge(
					fmt.Sprintf("upload exceeds the %d byte limit", s.maxBytes))
			}
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, apperr.Internal("failed to write upload", werr)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			// Aborted source stream takes the same cleanup path as oversize.
			return written, apperr.Internal("upload stream aborted", rerr)
		}
	}
}

// Remove deletes a previously stored file by name. Only the base name is
// honored, so callers cannot reach outside the store root.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.Base(name)))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil && s.log != nil {
		// Cleanup failure must not mask the original error.
		s.log.Error("Failed to remove partial upload %s: %v", path, err)
	}
}
