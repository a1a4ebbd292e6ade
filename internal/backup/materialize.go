package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyError reports a failure to copy a blob out of the backup's
// content-addressed store. A missing blob means the backup is corrupt or
// partial; downstream stages need both databases, so this is fatal.
type CopyError struct {
	LogicalPath string
	Source      string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s from %s: %v", e.LogicalPath, e.Source, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// wantedFile reports whether a manifest entry is one of the two databases
// the pipeline consumes.
func wantedFile(logicalPath string) bool {
	lower := strings.ToLower(logicalPath)
	return strings.Contains(lower, "sms.db") || strings.Contains(lower, "addressbook.sqlitedb")
}

// blobPath returns the content-addressed location of an entry inside the
// backup: the first two characters of the content ID form a shard
// directory and the full ID is the file name.
func blobPath(root, contentID string) string {
	if len(contentID) < 2 {
		return filepath.Join(root, contentID)
	}
	return filepath.Join(root, contentID[:2], contentID)
}

// Materialize copies the message store and contact store out of the
// backup into outDir, named by the base of their logical paths and
// overwriting anything already there. Entries are processed in logical
// path order so repeated runs behave identically. Returns the paths
// written.
func Materialize(root, outDir string, entries []ManifestEntry) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	selected := make([]ManifestEntry, 0, 2)
	for _, e := range entries {
		if wantedFile(e.LogicalPath) {
			selected = append(selected, e)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].LogicalPath < selected[j].LogicalPath
	})

	var written []string
	for _, e := range selected {
		src := blobPath(root, e.ContentID)
		dst := filepath.Join(outDir, filepath.Base(e.LogicalPath))
		if err := copyFile(src, dst); err != nil {
			return nil, &CopyError{LogicalPath: e.LogicalPath, Source: src, Err: err}
		}
		written = append(written, dst)
	}
	return written, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
