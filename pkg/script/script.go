// Package script はスタイルファイル（.bst）の読み込みを行う
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/zurustar/bibvm/pkg/fileutil"
)

// StyleExt はスタイルファイルの拡張子
const StyleExt = ".bst"

// Encoding names reported in Script.Encoding.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

// Script はスタイルファイルを表す
type Script struct {
	FileName string // ファイル名
	Content  string // UTF-8に変換された内容
	Size     int64  // ファイルサイズ
	Encoding string // 元のエンコーディング
}

// Loader は検索パスからスタイルファイルを探して読み込む
type Loader struct {
	search []fileutil.FileSystem
}

// NewLoader Loaderを作成（検索順に指定）
func NewLoader(search ...fileutil.FileSystem) *Loader {
	return &Loader{search: search}
}

// Load スタイル名またはパスを解決して読み込む
// 既存ファイルのパスならそのまま、そうでなければ検索パスを順に探す
// 拡張子が省略された場合は .bst を補う
func (l *Loader) Load(name string) (*Script, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return LoadFile(name)
	}

	candidates := []string{filepath.Base(name)}
	if !strings.EqualFold(filepath.Ext(name), StyleExt) {
		candidates = append(candidates, filepath.Base(name)+StyleExt)
	}

	for _, fsys := range l.search {
		for _, candidate := range candidates {
			path, err := fsys.FindFile(candidate)
			if err != nil {
				continue
			}
			data, err := fsys.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return newScript(filepath.Base(path), data), nil
		}
	}
	return nil, fmt.Errorf("style %q not found in %d search locations", name, len(l.search))
}

// LoadFile 単一のスタイルファイルを読み込む
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return newScript(filepath.Base(path), data), nil
}

func newScript(name string, data []byte) *Script {
	content, enc := Decode(data)
	return &Script{
		FileName: name,
		Content:  content,
		Size:     int64(len(data)),
		Encoding: enc,
	}
}

// Decode バイト列をUTF-8文字列に変換する
// 正しいUTF-8ならBOMを除いてそのまま、そうでなければISO-8859-1として解釈する
// （古いスタイルファイルはLatin-1で書かれていることが多い）
func Decode(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), EncodingUTF8
	}
	s, err := convertLatin1ToUTF8(data)
	if err != nil {
		// ISO-8859-1は全バイトが有効なので到達しない
		return string(data), EncodingUTF8
	}
	return s, EncodingLatin1
}

// convertLatin1ToUTF8 ISO-8859-1からUTF-8に変換
func convertLatin1ToUTF8(data []byte) (string, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := transform.NewReader(bytes.NewReader(data), decoder)

	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Join(errors.New("failed to decode ISO-8859-1"), err)
	}
	return string(utf8Data), nil
}
