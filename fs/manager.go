package fs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/SchmitzHorst/ai-agent-service/utils"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// FileOperation represents a single file operation
type FileOperation struct {
	Operation string `json:"operation"`
	Path      string `json:"path"`
}

// ExecuteFileOperations performs a series of file operations
func (fs *FileSystem) ExecuteFileOperations(operations []FileOperation) error {
	for _, op := range operations {
		if err := fs.ExecuteFileOperation(op); err != nil {
			return fmt.Errorf("error executing operation %s on %s: %w", op.Operation, op.Path, err)
		}
	}
	return nil
}

// ExecuteFileOperation performs a single file operation
func (fs *FileSystem) ExecuteFileOperation(op FileOperation) error {
	switch op.Operation {
	case "CREATE_DIR":
		return fs.Fs.MkdirAll(op.Path, 0755)
	case "CREATE_FILE":
		return fs.CreateFile(op.Path)
	default:
		return fmt.Errorf("unknown operation: %s", op.Operation)
	}
}

// CreateFile creates a new empty file, including parent directories
func (fs *FileSystem) CreateFile(path string) error {
	dir := filepath.Dir(path)
	if err := fs.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	f, err := fs.Fs.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", path, err)
	}
	defer f.Close()

	return nil
}

// WriteFile creates a new file with the given content or overwrites an
// existing file. Paths may come straight out of model output, so traversal
// components are stripped before the write.
func (fs *FileSystem) WriteFile(path string, content string) error {
	path = utils.SanitizeFilePath(path)
	dir := filepath.Dir(path)
	if err := fs.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	if err := afero.WriteFile(fs.Fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the content of a file
func (fs *FileSystem) ReadFile(path string) (string, error) {
	content, err := afero.ReadFile(fs.Fs, path)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return string(content), nil
}

// FileExists checks if a file exists
func (fs *FileSystem) FileExists(path string) bool {
	_, err := fs.Fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func (fs *FileSystem) IsDir(path string) bool {
	info, err := fs.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SeedFromOS copies a template project tree from the host file system into
// the workspace.
func (fs *FileSystem) SeedFromOS(templateDir string) error {
	osFs := afero.NewOsFs()
	templateDir = filepath.Clean(templateDir)

	info, err := osFs.Stat(templateDir)
	if err != nil {
		return fmt.Errorf("template directory not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template path is not a directory: %s", templateDir)
	}

	return afero.Walk(osFs, templateDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(templateDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		// A template checkout's own history must not leak into generated apps.
		if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			return fs.Fs.MkdirAll(rel, 0755)
		}
		src, err := osFs.Open(path)
		if err != nil {
			return fmt.Errorf("error opening template file %s: %w", path, err)
		}
		defer src.Close()
		if err := fs.Fs.MkdirAll(filepath.Dir(rel), 0755); err != nil {
			return err
		}
		dst, err := fs.Fs.Create(rel)
		if err != nil {
			return fmt.Errorf("error creating file %s: %w", rel, err)
		}
		defer dst.Close()
		_, err = io.Copy(dst, src)
		return err
	})
}

// ExportToOS materializes the workspace under the given directory on the
// host file system.
func (fs *FileSystem) ExportToOS(outDir string) error {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory %s: %w", outDir, err)
	}

	return afero.Walk(fs.Fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		target := filepath.Join(outDir, filepath.FromSlash(path))
		if info.IsDir() {
			return osFs.MkdirAll(target, 0755)
		}
		src, err := fs.Fs.Open(path)
		if err != nil {
			return fmt.Errorf("error opening file %s: %w", path, err)
		}
		defer src.Close()
		if err := osFs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		dst, err := osFs.Create(target)
		if err != nil {
			return fmt.Errorf("error creating file %s: %w", target, err)
		}
		defer dst.Close()
		_, err = io.Copy(dst, src)
		return err
	})
}

// RemoveMatching deletes files and directories under dir whose base name
// contains any of the given fragments.
func (fs *FileSystem) RemoveMatching(dir string, fragments []string) ([]string, error) {
	if !fs.IsDir(dir) {
		return nil, nil
	}

	var toDelete []string
	err := afero.Walk(fs.Fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := strings.ToLower(filepath.Base(path))
		for _, fragment := range fragments {
			if strings.Contains(name, strings.ToLower(fragment)) {
				toDelete = append(toDelete, path)
				if info.IsDir() {
					return filepath.SkipDir
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, path := range toDelete {
		if err := fs.Fs.RemoveAll(path); err != nil {
			return toDelete, fmt.Errorf("error removing %s: %w", path, err)
		}
	}
	return toDelete, nil
}

// WriteToZip serializes the workspace into a zip archive.
func (fs *FileSystem) WriteToZip() ([]byte, error) {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	fileCount := 0
	err := afero.Walk(fs.Fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		if info.IsDir() {
			_, err := zipWriter.Create(path + "/")
			if err != nil {
				return fmt.Errorf("error creating zip entry for directory %s: %w", path, err)
			}
			return nil
		}

		writer, err := zipWriter.Create(path)
		if err != nil {
			return fmt.Errorf("error creating zip entry for file %s: %w", path, err)
		}

		file, err := fs.Fs.Open(path)
		if err != nil {
			return fmt.Errorf("error opening file %s: %w", path, err)
		}
		defer file.Close()

		if _, err := io.Copy(writer, file); err != nil {
			return fmt.Errorf("error writing file %s to zip: %w", path, err)
		}

		fileCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking file system: %w", err)
	}
	if fileCount == 0 {
		return nil, fmt.Errorf("no files to zip")
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("error closing zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// ListFiles returns the directory structure under root as a nested map.
// Files map to nil, directories to nested maps.
func (fs *FileSystem) ListFiles(root string) (map[string]interface{}, error) {
	structure := make(map[string]interface{})
	err := afero.Walk(fs.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		parts := strings.Split(filepath.ToSlash(rel), "/")
		node := structure
		for i, part := range parts {
			if i == len(parts)-1 {
				if info.IsDir() {
					if _, ok := node[part]; !ok {
						node[part] = map[string]interface{}{}
					}
				} else {
					node[part] = nil
				}
				break
			}
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[part] = child
			}
			node = child
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return structure, nil
}
