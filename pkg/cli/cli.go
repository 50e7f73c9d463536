package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WrapUnset は折り返し幅がコマンドラインでも環境変数でも指定されていないことを示す
const WrapUnset = -1

// Config はコマンドライン引数から解析された設定を保持する
// 指定されなかった項目は空文字列（WrapWidth は WrapUnset）のまま残し、
// 設定ファイルやデフォルト値で補う
type Config struct {
	StyleName   string // スタイル名またはスタイルファイル（.bst）のパス
	RecordsPath string // レコードファイルのパス（.json, .toml, .cbor）
	OutputPath  string // 出力先ファイル（空なら標準出力）
	ConfigPath  string // 設定ファイルのパス
	WrapWidth   int    // 出力の折り返し幅（0は折り返しなし）
	LogLevel    string // ログレベル（debug, info, warn, error）
	ShowHelp    bool   // ヘルプ表示フラグ
}

// 値を取らないフラグ
var boolFlags = map[string]bool{
	"-h": true, "-help": true, "--h": true, "--help": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("bibvm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	fs.StringVar(&config.StyleName, "style", "", "スタイル名またはパス")
	fs.StringVar(&config.StyleName, "s", "", "スタイル名またはパス（短縮形）")
	fs.StringVar(&config.RecordsPath, "records", "", "レコードファイル")
	fs.StringVar(&config.RecordsPath, "r", "", "レコードファイル（短縮形）")
	fs.StringVar(&config.OutputPath, "output", "", "出力先ファイル")
	fs.StringVar(&config.OutputPath, "o", "", "出力先ファイル（短縮形）")
	fs.StringVar(&config.ConfigPath, "config", "", "設定ファイル")
	fs.StringVar(&config.ConfigPath, "c", "", "設定ファイル（短縮形）")
	fs.IntVar(&config.WrapWidth, "wrap", WrapUnset, "折り返し幅")
	fs.IntVar(&config.WrapWidth, "w", WrapUnset, "折り返し幅（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "", "ログレベル（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	wrapSet := set["wrap"] || set["w"]

	// 折り返し幅の検証
	if wrapSet && config.WrapWidth < 0 {
		return nil, fmt.Errorf("wrap width must be non-negative, got %d", config.WrapWidth)
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !wrapSet {
		if wrapEnv := os.Getenv("BIBVM_WRAP"); wrapEnv != "" {
			if w, err := strconv.Atoi(wrapEnv); err == nil && w >= 0 {
				config.WrapWidth = w
			}
		}
	}
	if config.LogLevel == "" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = logLevelEnv
		}
	}
	if config.ConfigPath == "" {
		config.ConfigPath = os.Getenv("BIBVM_CONFIG")
	}

	// ログレベルの検証
	config.LogLevel = strings.ToLower(config.LogLevel)
	if config.LogLevel != "" && !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数（レコードファイルのパス）
	switch {
	case fs.NArg() > 1:
		return nil, fmt.Errorf("too many arguments: %s", strings.Join(fs.Args(), " "))
	case fs.NArg() == 1 && config.RecordsPath != "":
		return nil, fmt.Errorf("records given twice: %s and %s", config.RecordsPath, fs.Arg(0))
	case fs.NArg() == 1:
		config.RecordsPath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// -o out.bbl のように次の引数が値になる場合は一緒に移動する
			// （-o=out.bbl の形式とブール型フラグは除く）
			if !strings.Contains(arg, "=") && !boolFlags[arg] && i+1 < len(args) {
				next := args[i+1]
				if !(len(next) > 1 && next[0] == '-' && !isNumber(next)) {
					i++
					flags = append(flags, next)
				}
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	if len(positional) == 0 {
		return flags
	}
	flags = append(flags, "--")
	return append(flags, positional...)
}

// isNumber は -1 のような負の数値引数を判定する
func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `bibvm - bibliography style (.bst) interpreter

Usage:
  bibvm [options] <records-file>

Arguments:
  records-file   レコードファイルのパス（.json, .toml, .cbor）
                 -r で指定することもできる

Options:
  -s, --style <name|path>     スタイル名または .bst ファイルのパス（デフォルト: plain）
                              名前はスタイルディレクトリ、組み込みスタイルの順に探す
  -r, --records <path>        レコードファイルのパス
  -o, --output <path>         出力先ファイル（デフォルト: 標準出力）
  -w, --wrap <width>          出力の折り返し幅、0で折り返しなし（デフォルト: 79）
  -c, --config <path>         設定ファイル（デフォルト: カレントディレクトリの bibvm.toml）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -h, --help                  このヘルプを表示

Environment Variables:
  LOG_LEVEL=<level>           ログレベル
  BIBVM_WRAP=<width>          折り返し幅
  BIBVM_CONFIG=<path>         設定ファイルのパス

Config File (bibvm.toml):
  log_level = "warn"
  wrap_width = 79
  style_dirs = ["styles"]
  output = "refs.bbl"

  優先順位: デフォルト < 設定ファイル < 環境変数 < コマンドライン

Examples:
  bibvm refs.toml                   組み込みの plain スタイルで整形
  bibvm -s alpha refs.json          スタイルディレクトリの alpha.bst を使用
  bibvm -s ./my.bst -o out.bbl refs.cbor
  bibvm --wrap 0 refs.toml          折り返しなしで出力
  LOG_LEVEL=debug bibvm refs.toml   デバッグログを有効化
`)
}
