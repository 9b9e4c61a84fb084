package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pranavj/assignsync/models"
)

const (
	backupPrefix = "assignments_"
	backupSuffix = ".json"
)

// DefaultKeepBackups is how many snapshot files survive a cleanup pass.
const DefaultKeepBackups = 7

// Snapshot is one backup file loaded back into memory.
type Snapshot struct {
	Records  []models.Assignment
	TakenAt  time.Time // file modification time
	Filename string
}

// BySource returns the snapshot's records carrying the given source tag.
func (s *Snapshot) BySource(src models.Source) []models.Assignment {
	out := make([]models.Assignment, 0)
	for _, a := range s.Records {
		if a.Source == src {
			out = append(out, a)
		}
	}
	return out
}

// BackupStore keeps timestamped copies of the persisted assignment
// file. Every method swallows I/O and parse errors into its return
// values: a failed backup read means "no historical baseline", never a
// failed run.
type BackupStore struct {
	dataPath string
	dir      string
	now      func() time.Time
}

// NewBackupStore creates a backup store copying from dataPath into dir.
func NewBackupStore(dataPath, dir string) (*BackupStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir %s: %w", dir, err)
	}
	return &BackupStore{dataPath: dataPath, dir: dir, now: time.Now}, nil
}

// Dir returns the backup directory path.
func (b *BackupStore) Dir() string {
	return b.dir
}

// CreateBackup copies the currently persisted assignment file into a
// new timestamped snapshot. A missing data file succeeds trivially with
// no backup created (ok=true, path empty). Any other failure reports
// ok=false rather than an error.
func (b *BackupStore) CreateBackup() (path string, ok bool) {
	data, err := os.ReadFile(b.dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", true
		}
		return "", false
	}

	// The timestamp has millisecond resolution, so two snapshots taken
	// in the same instant would collide on the name. O_EXCL detects the
	// collision and a sequence suffix disambiguates instead of
	// overwriting the earlier snapshot.
	base := backupPrefix + timestampToken(b.now().UTC())
	path = filepath.Join(b.dir, base+backupSuffix)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for seq := 1; errors.Is(err, fs.ErrExist); seq++ {
		path = filepath.Join(b.dir, fmt.Sprintf("%s-%d%s", base, seq, backupSuffix))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", false
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", false
	}
	if err := f.Close(); err != nil {
		return "", false
	}
	return path, true
}

// LoadMostRecent returns the newest snapshot by modification time, or
// nil when no snapshot exists or the newest one cannot be read or
// parsed.
func (b *BackupStore) LoadMostRecent() *Snapshot {
	files := b.backupFiles()
	if len(files) == 0 {
		return nil
	}

	newest := files[0]
	data, err := os.ReadFile(filepath.Join(b.dir, newest.Name()))
	if err != nil {
		return nil
	}
	var records []models.Assignment
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}
	info, err := newest.Info()
	if err != nil {
		return nil
	}
	return &Snapshot{
		Records:  records,
		TakenAt:  info.ModTime(),
		Filename: newest.Name(),
	}
}

// CleanupOld deletes all but the keep most-recently-modified snapshot
// files and returns how many were removed.
func (b *BackupStore) CleanupOld(keep int) int {
	if keep < 0 {
		keep = 0
	}
	files := b.backupFiles()
	if len(files) <= keep {
		return 0
	}

	deleted := 0
	for _, f := range files[keep:] {
		if err := os.Remove(filepath.Join(b.dir, f.Name())); err == nil {
			deleted++
		}
	}
	return deleted
}

// List returns the snapshot filenames, newest first.
func (b *BackupStore) List() []string {
	files := b.backupFiles()
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	return names
}

// backupFiles lists snapshot files matching the naming pattern, sorted
// newest-first by modification time. Errors degrade to an empty list.
func (b *BackupStore) backupFiles() []fs.DirEntry {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil
	}

	matched := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		fi, errI := matched[i].Info()
		fj, errJ := matched[j].Info()
		if errI != nil || errJ != nil {
			return matched[i].Name() > matched[j].Name()
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return matched
}

// timestampToken renders an ISO-8601 instant with characters illegal or
// awkward in filenames (colons, dots) replaced by dashes.
func timestampToken(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.Format("2006-01-02T15:04:05.000Z07:00"))
}
