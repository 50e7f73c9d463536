package fileutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// FileSystem は実ファイルシステムと埋め込みファイルシステムを統一的に扱うインターフェース
type FileSystem interface {
	// FindFile は大文字小文字を無視してファイルを検索し、実際のパスを返す
	FindFile(filename string) (string, error)
	// ReadFile はFindFileが返したパスの内容を読み込む
	ReadFile(name string) ([]byte, error)
	// IsEmbedded は埋め込みファイルシステムかどうかを返す
	IsEmbedded() bool
}

// RealFS はディスク上のディレクトリへのアクセスを提供する
type RealFS struct {
	basePath string
}

// NewRealFS は実ファイルシステム用のFileSystemを作成する
func NewRealFS(basePath string) *RealFS {
	return &RealFS{basePath: basePath}
}

func (r *RealFS) FindFile(filename string) (string, error) {
	// まず直接アクセスを試みる
	direct := filepath.Join(r.basePath, filename)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct, nil
	}
	return FindFileCaseInsensitive(r.basePath, filename)
}

func (r *RealFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (r *RealFS) IsEmbedded() bool {
	return false
}

// EmbedFS は埋め込みファイルシステム内のディレクトリへのアクセスを提供する
type EmbedFS struct {
	fsys     fs.FS
	basePath string
}

// NewEmbedFS は埋め込みファイルシステム用のFileSystemを作成する
func NewEmbedFS(fsys fs.FS, basePath string) *EmbedFS {
	if basePath == "" {
		basePath = "."
	}
	return &EmbedFS{fsys: fsys, basePath: basePath}
}

func (e *EmbedFS) FindFile(filename string) (string, error) {
	direct := path.Join(e.basePath, filename)
	if f, err := e.fsys.Open(direct); err == nil {
		f.Close()
		return direct, nil
	}
	return FindFileCaseInsensitiveFS(e.fsys, e.basePath, filename)
}

func (e *EmbedFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(e.fsys, name)
}

func (e *EmbedFS) IsEmbedded() bool {
	return true
}
