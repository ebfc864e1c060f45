// Package storage is the file storage gateway: it validates, persists
// and retrieves uploaded attachments on the local filesystem.
//
// WHAT THE GATEWAY DOES NOT DO:
// It never checks WHO is calling — identity and capability checks happen
// in the service layer before the gateway is reached. The gateway only
// enforces CONTENT rules: extension allow-list, size ceiling, filename
// hygiene.
//
// LAYOUT:
// Bytes live under Root, one directory per project:
//
//	<root>/project_<projectID>/<random-name>.<ext>
//	<root>/project_<projectID>/<random-name>_thumb.<ext>   (images only)
//
// The storage name is crypto-random and unrelated to the user's
// filename, which kills both path traversal and name collisions.
package storage

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/studytrack/internal/apperror"
)

// MaxUploadSize is the fixed payload ceiling: 16 MiB.
const MaxUploadSize = 16 << 20

// allowedExtensions is the fixed allow-list: documents, images,
// archives, and code/text. Notably absent: executables and arbitrary
// binaries.
var allowedExtensions = []string{
	"txt", "pdf", "png", "jpg", "jpeg", "gif",
	"doc", "docx", "ppt", "pptx", "xls", "xlsx",
	"zip", "rar", "py", "js", "html", "css",
}

// Config is the gateway's immutable configuration, injected at
// construction rather than read from ambient application state.
type Config struct {
	Root              string          // base directory for all project files
	MaxSize           int64           // payload ceiling in bytes
	AllowedExtensions map[string]bool // lower-cased extensions, no dot
}

// DefaultConfig returns the standard upload rules rooted at dir.
func DefaultConfig(dir string) Config {
	exts := make(map[string]bool, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[e] = true
	}
	return Config{
		Root:              dir,
		MaxSize:           MaxUploadSize,
		AllowedExtensions: exts,
	}
}

// StoredFile describes a successfully persisted upload.
type StoredFile struct {
	Filename         string // generated storage name, e.g. "3q2-8hFx...Q.pdf"
	OriginalFilename string // sanitized user-supplied name
	Path             string // locator relative to Root
	MIMEType         string
	Size             int64
}

// Gateway validates and persists uploads per its Config.
type Gateway struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Gateway and ensures the root directory exists.
func New(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if cfg.Root == "" {
		return nil, errors.New("storage: root directory must be set")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating root %s: %w", cfg.Root, err)
	}
	return &Gateway{cfg: cfg, logger: logger}, nil
}

// Store validates and writes one upload for the given project.
//
// Validation happens before any byte touches disk:
//   - extension not in the allow-list → UnsupportedType
//   - declared size over the ceiling → TooLarge
//
// The size is enforced again while copying (the declared size is
// caller-supplied); if the stream runs past the ceiling the partial
// file is removed and TooLarge returned, so an oversized upload never
// leaves bytes behind.
//
// For image MIME types a bounded preview is generated best-effort:
// a failed preview is logged and ignored, never failing the upload.
func (g *Gateway) Store(r io.Reader, declaredFilename, declaredMIME, projectID string, declaredSize int64) (*StoredFile, error) {
	ext := extensionOf(declaredFilename)
	if !g.cfg.AllowedExtensions[ext] {
		return nil, apperror.UnsupportedType("." + ext)
	}
	if declaredSize > g.cfg.MaxSize {
		return nil, apperror.TooLarge(g.cfg.MaxSize)
	}

	original := SanitizeFilename(declaredFilename)
	storageName, err := randomFilename(ext)
	if err != nil {
		return nil, apperror.StorageFailure("generating storage name", err)
	}

	projectDir := filepath.Join(g.cfg.Root, "project_"+projectID)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, apperror.StorageFailure("creating project directory", err)
	}

	relPath := filepath.Join("project_"+projectID, storageName)
	absPath := filepath.Join(g.cfg.Root, relPath)

	size, err := g.writeBounded(absPath, r)
	if err != nil {
		return nil, err
	}

	mime := declaredMIME
	if mime == "" {
		mime = "application/octet-stream"
	}

	if strings.HasPrefix(mime, "image/") {
		if thumbErr := g.createThumbnail(absPath, ext); thumbErr != nil {
			g.logger.Warn("thumbnail generation failed",
				slog.String("file", relPath),
				slog.String("error", thumbErr.Error()),
			)
		}
	}

	return &StoredFile{
		Filename:         storageName,
		OriginalFilename: original,
		Path:             relPath,
		MIMEType:         mime,
		Size:             size,
	}, nil
}

// writeBounded copies r to path, enforcing the size ceiling. On any
// failure the partial file is removed.
func (g *Gateway) writeBounded(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, apperror.StorageFailure("creating file", err)
	}

	// Read one byte past the ceiling: landing exactly on MaxSize+1
	// means the payload was too big.
	size, err := io.Copy(f, io.LimitReader(r, g.cfg.MaxSize+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		os.Remove(path)
		return 0, apperror.StorageFailure("writing file", err)
	case closeErr != nil:
		os.Remove(path)
		return 0, apperror.StorageFailure("closing file", closeErr)
	case size > g.cfg.MaxSize:
		os.Remove(path)
		return 0, apperror.TooLarge(g.cfg.MaxSize)
	}
	return size, nil
}

// Open returns a reader over a stored file's bytes.
func (g *Gateway) Open(relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(g.cfg.Root, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NotFound("file", relPath)
		}
		return nil, apperror.StorageFailure("opening file", err)
	}
	return f, nil
}

// Remove deletes a stored file's bytes and its thumbnail, if any.
//
// IDEMPOTENT BY CONTRACT: bytes already being absent is success — the
// user-visible goal (file gone) is achieved either way, so callers can
// always proceed to remove the metadata record.
func (g *Gateway) Remove(relPath string) error {
	abs := filepath.Join(g.cfg.Root, relPath)

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return apperror.StorageFailure("removing file", err)
	}
	// Thumbnail may or may not exist; either way is fine.
	if err := os.Remove(thumbPath(abs)); err != nil && !os.IsNotExist(err) {
		g.logger.Warn("removing thumbnail failed",
			slog.String("file", relPath),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// SanitizeFilename strips path components and unsafe characters from a
// user-supplied filename, keeping it safe to store and display.
// Everything outside [A-Za-z0-9._-] becomes "_"; leading dots are
// dropped so the result can't be a hidden file or a relative traversal.
func SanitizeFilename(name string) string {
	// Take the last path segment under both separator conventions.
	name = name[strings.LastIndexByte(name, '/')+1:]
	name = name[strings.LastIndexByte(name, '\\')+1:]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		default:
			b.WriteByte('_')
		}
	}
	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// extensionOf returns the lower-cased extension without the dot, or ""
// when the name has none.
func extensionOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// randomFilename generates an unguessable, extension-preserving storage
// name: 16 bytes of crypto randomness, URL-safe base64 (22 chars).
func randomFilename(ext string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	name := base64.RawURLEncoding.EncodeToString(buf[:])
	if ext == "" {
		return name, nil
	}
	return name + "." + ext, nil
}
