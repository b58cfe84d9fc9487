// Package config はプロジェクト設定ファイル t2lang.toml を読み込む。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName は設定ファイルの名前。
const FileName = "t2lang.toml"

// t2lang.toml で指定がないときの展開の上限。0 を書くと無制限になる。
const (
	DefaultMaxExpansions = 10000
	DefaultMaxDepth      = 256
)

// 出力形式。
const (
	FormatSExpr = "sexpr"
	FormatCBOR  = "cbor"
)

// Config は t2lang.toml の内容。
type Config struct {
	Expander Expander `toml:"expander"`
	Log      Log      `toml:"log"`
	Output   Output   `toml:"output"`

	// Dir は t2lang.toml があるディレクトリ（読み込み時に設定）。既定値では空。
	Dir string `toml:"-"`
}

// Expander はマクロ展開の設定。
type Expander struct {
	GensymPrefix  string `toml:"gensym-prefix"`
	MaxExpansions int    `toml:"max-expansions"`
	MaxDepth      int    `toml:"max-depth"`
	Trace         bool   `toml:"trace"`
}

// Log はログ出力の設定。
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Output は展開結果の書き出し方の設定。
type Output struct {
	Format string `toml:"format"`
}

// Default は t2lang.toml が見つからないときに使う設定を返す。
func Default() *Config {
	c := &Config{}
	c.applyDefaults(func(...string) bool { return false })
	return c
}

// Load は dir にある t2lang.toml を読み込む。
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	c.applyDefaults(md.IsDefined)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return &c, nil
}

// FindAndLoad は startDir から親ディレクトリへ t2lang.toml を探して読み込む。
// 見つからなければ nil を返す。
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate は使えない設定値をまとめてエラーにする。
func (c *Config) Validate() error {
	var errs []error
	if c.Expander.MaxExpansions < 0 {
		errs = append(errs, fmt.Errorf("expander.max-expansions must not be negative, got %d", c.Expander.MaxExpansions))
	}
	if c.Expander.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("expander.max-depth must not be negative, got %d", c.Expander.MaxDepth))
	}
	switch c.Output.Format {
	case FormatSExpr, FormatCBOR:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", FormatSExpr, FormatCBOR, c.Output.Format))
	}
	return errors.Join(errs...)
}

// LogPath は Dir を基準にしたログファイルのパスを返す。nil なら標準エラー出力に書く。
func (c *Config) LogPath() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	if !filepath.IsAbs(path) && c.Dir != "" {
		path = filepath.Join(c.Dir, path)
	}
	return &path
}

// applyDefaults は書かれていないキーに既定値を入れる。
// 上限を明示的に 0 と書いた場合は無制限のまま残す。
func (c *Config) applyDefaults(defined func(key ...string) bool) {
	if !defined("expander", "max-expansions") {
		c.Expander.MaxExpansions = DefaultMaxExpansions
	}
	if !defined("expander", "max-depth") {
		c.Expander.MaxDepth = DefaultMaxDepth
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatSExpr
	}
}
