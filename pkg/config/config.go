// Package config は設定ファイル（bibvm.toml）の読み込みを行う
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName はカレントディレクトリで自動的に探す設定ファイル名
const FileName = "bibvm.toml"

// Config は設定ファイルの内容
// 値が設定されていない項目はゼロ値（WrapWidth は nil）になる
type Config struct {
	LogLevel  string   `toml:"log_level"`
	WrapWidth *int     `toml:"wrap_width"`
	StyleDirs []string `toml:"style_dirs"`
	Output    string   `toml:"output"`

	// Dir は設定ファイルのあるディレクトリ（相対パスの基準）
	Dir string `toml:"-"`
}

// Load 設定ファイルを読み込む
// 未知のキーはタイプミスとみなしてエラーにする
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.WrapWidth != nil && *cfg.WrapWidth < 0 {
		return nil, fmt.Errorf("%s: wrap_width must be 0 or greater, got %d", path, *cfg.WrapWidth)
	}

	cfg.Dir = filepath.Dir(path)
	return &cfg, nil
}

// Find 明示されたパスがあればそれを、なければカレントディレクトリの bibvm.toml を返す
// どちらもなければ空文字列を返す
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if info, err := os.Stat(FileName); err == nil && !info.IsDir() {
		return FileName
	}
	return ""
}

// StyleDirPaths style_dirs を設定ファイルの位置を基準に解決する
func (c *Config) StyleDirPaths() []string {
	paths := make([]string, 0, len(c.StyleDirs))
	for _, dir := range c.StyleDirs {
		paths = append(paths, c.resolve(dir))
	}
	return paths
}

// OutputPath output を設定ファイルの位置を基準に解決する（未設定なら空文字列）
func (c *Config) OutputPath() string {
	if c.Output == "" {
		return ""
	}
	return c.resolve(c.Output)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
