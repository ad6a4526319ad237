package shader

import "os"

// FileSystem is the read-only view of shader sources used by a Set.
type FileSystem interface {
	// ModTime returns the file's last write time. Only ordering is meaningful.
	ModTime(path string) (int64, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem reads shader sources from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
