package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zurustar/bibvm/pkg/cli"
	"github.com/zurustar/bibvm/pkg/compiler"
	"github.com/zurustar/bibvm/pkg/compiler/ast"
	"github.com/zurustar/bibvm/pkg/config"
	"github.com/zurustar/bibvm/pkg/fileutil"
	"github.com/zurustar/bibvm/pkg/logger"
	"github.com/zurustar/bibvm/pkg/records"
	"github.com/zurustar/bibvm/pkg/script"
	"github.com/zurustar/bibvm/pkg/vm"
)

// DefaultStyle は -style が指定されなかったときに使うスタイル名
const DefaultStyle = "plain"

// EmbeddedStyleDir は埋め込みファイルシステム内のスタイルディレクトリ
const EmbeddedStyleDir = "styles"

// ErrNoRecords はレコードファイルが指定されていないことを示す
var ErrNoRecords = errors.New("no records file given (see --help)")

// settings はデフォルト値、設定ファイル、環境変数、コマンドラインを統合した最終的な設定
type settings struct {
	style     string
	records   string
	output    string
	logLevel  string
	wrapWidth int
	styleDirs []string
}

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config   *cli.Config
	settings settings
	log      *slog.Logger
	styleFS  fs.FS
	stdout   io.Writer
	stderr   io.Writer
}

// New Applicationを作成
// styleFS には組み込みスタイル（styles/*.bst）を含むファイルシステムを渡す
func New(styleFS fs.FS) *Application {
	return &Application{
		styleFS: styleFS,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// SetOutput 整形結果とログの出力先を変更する
func (app *Application) SetOutput(stdout, stderr io.Writer) {
	app.stdout = stdout
	app.stderr = stderr
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. 設定ファイルの読み込み
	if err := app.loadSettings(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if app.settings.records == "" {
		return ErrNoRecords
	}

	// 4. スタイルの読み込みとコンパイル
	program, err := app.compileStyle()
	if err != nil {
		return fmt.Errorf("failed to compile style: %w", err)
	}

	app.log.Debug("Style compiled", "commands", len(program.Commands))

	// 5. レコードの読み込み
	db, err := records.Load(app.settings.records)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	app.log.Info("Records loaded", "path", app.settings.records, "count", len(db.Records))

	// 6. スタイルプログラムの実行
	result, err := vm.Execute(program, db.VMRecords(),
		vm.WithLogger(app.log),
		vm.WithWrapWidth(app.settings.wrapWidth),
		vm.WithPreamble(db.Preamble),
	)
	if err != nil {
		return fmt.Errorf("failed to run style: %w", err)
	}

	// 7. 出力
	if err := app.writeOutput(result.Output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if result.Warnings > 0 {
		app.log.Warn("Finished with warnings", "warnings", result.Warnings)
	} else {
		app.log.Info("Finished", "bytes", len(result.Output))
	}
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// loadSettings デフォルト値に設定ファイル、コマンドライン（環境変数を含む）の順で上書きする
func (app *Application) loadSettings() error {
	s := settings{
		style:     DefaultStyle,
		logLevel:  "info",
		wrapWidth: vm.DefaultWrapWidth,
	}

	if path := config.Find(app.config.ConfigPath); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cfg.LogLevel != "" {
			s.logLevel = cfg.LogLevel
		}
		if cfg.WrapWidth != nil {
			s.wrapWidth = *cfg.WrapWidth
		}
		if out := cfg.OutputPath(); out != "" {
			s.output = out
		}
		s.styleDirs = cfg.StyleDirPaths()
	}

	if app.config.StyleName != "" {
		s.style = app.config.StyleName
	}
	if app.config.OutputPath != "" {
		s.output = app.config.OutputPath
	}
	if app.config.LogLevel != "" {
		s.logLevel = app.config.LogLevel
	}
	if app.config.WrapWidth != cli.WrapUnset {
		s.wrapWidth = app.config.WrapWidth
	}
	s.records = app.config.RecordsPath

	app.settings = s
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerTo(app.stderr, app.settings.logLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// compileStyle スタイルを探して読み込み、コンパイルする
// 検索順: 既存のファイルパス、style_dirs、カレントディレクトリ、組み込みスタイル
func (app *Application) compileStyle() (*ast.Program, error) {
	var search []fileutil.FileSystem
	for _, dir := range app.settings.styleDirs {
		search = append(search, fileutil.NewRealFS(dir))
	}
	search = append(search, fileutil.NewRealFS("."))
	if app.styleFS != nil {
		search = append(search, fileutil.NewEmbedFS(app.styleFS, EmbeddedStyleDir))
	}

	s, err := script.NewLoader(search...).Load(app.settings.style)
	if err != nil {
		return nil, err
	}

	app.log.Info("Style loaded", "name", s.FileName, "size", s.Size, "encoding", s.Encoding)

	program, err := compiler.Compile(s.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.FileName, err)
	}
	return program, nil
}

// writeOutput 整形結果をファイルまたは標準出力に書き出す
func (app *Application) writeOutput(out string) error {
	if app.settings.output == "" {
		_, err := io.WriteString(app.stdout, out)
		return err
	}
	if dir := filepath.Dir(app.settings.output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(app.settings.output, []byte(out), 0644); err != nil {
		return err
	}
	app.log.Info("Output written", "path", app.settings.output)
	return nil
}
