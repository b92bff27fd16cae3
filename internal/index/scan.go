package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/parser"
)

// ScanStats summarizes one scan pass.
type ScanStats struct {
	FilesScanned int
	FilesSkipped int
	FilesFailed  int
	FilesPruned  int
	Classes      int
}

// Scanner walks a workspace and indexes the type declarations of every
// Java file whose content changed since the last scan.
type Scanner struct {
	idx     *Index
	exclude []string
}

// NewScanner creates a scanner writing into the given index.
// Exclude patterns apply to workspace-relative paths: a plain glob is
// matched against the file's base name, a pattern ending in "/**"
// excludes the whole subtree.
func NewScanner(idx *Index, exclude []string) *Scanner {
	return &Scanner{idx: idx, exclude: exclude}
}

// Scan walks root and refreshes the index.
func (s *Scanner) Scan(root string) (*ScanStats, error) {
	p, err := parser.NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	stats := &ScanStats{}
	seen := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || ExcludedDir(s.exclude, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" || ExcludedFile(s.exclude, rel) {
			return nil
		}
		seen[path] = true

		source, err := os.ReadFile(path)
		if err != nil {
			stats.FilesFailed++
			return nil
		}

		hash := ContentHash(source)
		prev, err := s.idx.FileHash(path)
		if err != nil {
			return err
		}
		if prev == hash {
			stats.FilesSkipped++
			return nil
		}

		result, err := p.Parse(source)
		if err != nil {
			stats.FilesFailed++
			return nil
		}
		result.FilePath = path

		records := FileRecords(java.NewUnit(result))
		result.Close()

		if err := s.idx.ReplaceFileClasses(path, records); err != nil {
			return err
		}
		if err := s.idx.SetFileHash(path, hash); err != nil {
			return err
		}

		stats.FilesScanned++
		stats.Classes += len(records)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	if err := s.prune(root, seen, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// prune drops indexed files under root that the walk no longer saw,
// so classes from deleted files do not linger until a forced rescan.
// Files outside root (a subtree scan) are left alone.
func (s *Scanner) prune(root string, seen map[string]bool, stats *ScanStats) error {
	indexed, err := s.idx.IndexedFiles()
	if err != nil {
		return err
	}
	for _, file := range indexed {
		if seen[file] {
			continue
		}
		rel, err := filepath.Rel(root, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if err := s.idx.DeleteFile(file); err != nil {
			return err
		}
		stats.FilesPruned++
	}
	return nil
}

// ExcludedDir checks whether a workspace-relative directory subtree is
// excluded by the given patterns.
func ExcludedDir(exclude []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range exclude {
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// ExcludedFile checks whether a workspace-relative file is excluded by
// the given patterns.
func ExcludedFile(exclude []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range exclude {
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			if strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// FileRecords builds the index records for a compilation unit.
func FileRecords(u *java.Unit) []ClassRecord {
	records := make([]ClassRecord, 0, len(u.Classes))
	for _, cls := range u.Classes {
		fqn := cls.Name
		if u.Package != "" {
			fqn = u.Package + "." + cls.Name
		}
		records = append(records, ClassRecord{
			FQN:         fqn,
			Name:        cls.Name,
			Package:     u.Package,
			Kind:        cls.Kind,
			File:        cls.File(),
			LineStart:   cls.Line(),
			LineEnd:     cls.Node.EndPoint().Row + 1,
			Methods:     cls.MethodNames(),
			Annotations: cls.AnnotationNames(),
		})
	}
	return records
}
