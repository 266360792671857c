// Package filestore implements the two-phase upload lifecycle: files are
// staged under uploads/temp/<uuid>/ while the owning record has no durable
// identity, then moved into uploads/<entityCode>/<recordID>/ and their
// recorded web paths rewritten.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize caps a single staged file at 20 MiB.
const MaxUploadSize = 20 << 20

// BaseURL is the web-relative prefix every stored path starts with.
const BaseURL = "/uploads"

// TempDirName is the staging subdirectory under the uploads root. Entity
// codes must never equal it: a permanent dir named like the staging root
// would be re-finalized and swept.
const TempDirName = "temp"

var tempMarker = BaseURL + "/" + TempDirName + "/"

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// Store manages the uploads tree rooted at a writable directory.
type Store struct {
	root string
	log  *zap.SugaredLogger
}

func New(root string, log *zap.SugaredLogger) *Store {
	return &Store{root: root, log: log}
}

// Stage persists one uploaded file under a fresh staging directory and
// returns its web-relative path (/uploads/temp/<uuid>/<name>). The original
// filename is reduced to its bare base name so uploads cannot traverse
// outside the tree.
func (s *Store) Stage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	id := uuid.New().String()
	dir := filepath.Join(s.root, TempDirName, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := SanitizeName(fh.Filename)
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path.Join(BaseURL, TempDirName, id, name), nil
}

// Finalize rewrites every staged path in the property bag to its permanent
// location, moving the files as it goes. Non-string values, non-string array
// elements and paths outside the staging root pass through untouched, so
// finalizing an already-finalized bag is a no-op. A failed move leaves that
// path staged and continues; it never fails the batch. Reports whether any
// path changed.
func (s *Store) Finalize(props map[string]any, entityCode, recordID string) bool {
	changed := false
	for key, val := range props {
		switch v := val.(type) {
		case string:
			if nv, moved := s.moveStaged(v, entityCode, recordID); moved {
				props[key] = nv
				changed = true
			}
		case []any:
			for i, el := range v {
				str, ok := el.(string)
				if !ok {
					continue
				}
				if nv, moved := s.moveStaged(str, entityCode, recordID); moved {
					v[i] = nv
					changed = true
				}
			}
		}
	}
	return changed
}

func (s *Store) moveStaged(webPath, entityCode, recordID string) (string, bool) {
	if !strings.HasPrefix(webPath, tempMarker) {
		return webPath, false
	}
	rel := strings.TrimPrefix(webPath, BaseURL+"/")
	src := filepath.Join(s.root, filepath.FromSlash(rel))
	dstDir := filepath.Join(s.root, SanitizeName(entityCode), SanitizeName(recordID))
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		s.log.Warnw("finalize: cannot create record directory", "dir", dstDir, "error", err)
		return webPath, false
	}
	name := path.Base(webPath)
	if _, err := os.Stat(filepath.Join(dstDir, name)); err == nil {
		name = disambiguate(name)
	}
	if err := os.Rename(src, filepath.Join(dstDir, name)); err != nil {
		s.log.Warnw("finalize: move failed, path left staged", "path", webPath, "error", err)
		return webPath, false
	}
	// Best-effort: drop the staging directory once emptied.
	_ = os.Remove(filepath.Dir(src))
	return path.Join(BaseURL, SanitizeName(entityCode), SanitizeName(recordID), name), true
}

// disambiguate appends a short random suffix before the extension.
func disambiguate(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)
}

// SweepTemp removes staging directories older than maxAge. Run at startup to
// reclaim uploads orphaned by a crash between staging and finalization.
// Returns the number of directories removed.
func (s *Store) SweepTemp(maxAge time.Duration) int {
	entries, err := os.ReadDir(filepath.Join(s.root, TempDirName))
	if err != nil {
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		dir := filepath.Join(s.root, TempDirName, e.Name())
		if err := os.RemoveAll(dir); err != nil {
			s.log.Warnw("temp sweep: cannot remove staging directory", "dir", dir, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Infow("temp sweep: removed stale staging directories", "count", removed)
	}
	return removed
}

// RemoveRecordDir deletes the permanent upload directory of a record.
// Best-effort, used when the owning record is deleted.
func (s *Store) RemoveRecordDir(entityCode, recordID string) {
	dir := filepath.Join(s.root, SanitizeName(entityCode), SanitizeName(recordID))
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warnw("cannot remove record uploads", "dir", dir, "error", err)
	}
}

// SanitizeName strips any directory components from a client-supplied name.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
