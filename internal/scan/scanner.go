package scan

import (
	"os"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path  string
	Root  string // save root the file was found under
	Mtime int64
	Size  int64
}

// ScanRoots walks every root and returns the files whose extension is in
// exts (case-insensitive). Missing roots are skipped.
func ScanRoots(roots, exts []string) ([]FileInfo, error) {
	var files []FileInfo

	for _, root := range roots {
		if root == "" {
			continue
		}
		rf, err := scanRoot(root, exts)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, rf...)
	}

	return files, nil
}

func scanRoot(root string, exts []string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || !matchExt(path, exts) {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Root:  root,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	return files, err
}

func matchExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
