// t2expand - CBOR で受け取ったASTのマクロを展開するコマンド
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/raould/t2lang-sub002/config"
)

func main() {
	configDir := flag.String("C", ".", "Directory to start searching for t2lang.toml")
	output := flag.String("o", "", "Output file (default: stdout)")
	format := flag.String("format", "", "Output format: sexpr or cbor (default: from t2lang.toml)")
	macro := flag.String("macro", "", "Expand only this macro once, using the non-macro forms as arguments")
	gensymPrefix := flag.String("gensym-prefix", "", "Prefix for (gensym) without an explicit prefix")
	maxExpansions := flag.Int("max-expansions", 0, "Maximum number of macro calls per program, 0 for unlimited (default: from t2lang.toml)")
	maxDepth := flag.Int("max-depth", 0, "Maximum nesting of macro expansion, 0 for unlimited (default: from t2lang.toml)")
	trace := flag.Bool("trace", false, "Log BEGIN/END for every macro call")
	verbosity := flag.Int("v", 0, "Log verbosity (-4 to 2)")
	logFile := flag.String("log", "", "Log file (default: stderr)")
	watchMode := flag.Bool("watch", false, "Re-expand whenever the input file changes")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: t2expand [options] <input.cbor>\n\n")
		fmt.Fprintf(os.Stderr, "Reads a CBOR-encoded t2lang AST, expands all macros and writes the result.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  t2expand main.ast                      # Print expanded program as s-expressions\n")
		fmt.Fprintf(os.Stderr, "  t2expand -format cbor -o out.ast main.ast\n")
		fmt.Fprintf(os.Stderr, "  t2expand -macro swap main.ast          # Expand one macro for inspection\n")
		fmt.Fprintf(os.Stderr, "  t2expand -watch -v 1 main.ast          # Re-expand on every change\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	// コマンドラインで指定したものだけ設定ファイルの値を上書きする
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output.Format = *format
		case "gensym-prefix":
			cfg.Expander.GensymPrefix = *gensymPrefix
		case "max-expansions":
			cfg.Expander.MaxExpansions = *maxExpansions
		case "max-depth":
			cfg.Expander.MaxDepth = *maxDepth
		case "trace":
			cfg.Expander.Trace = *trace
		case "v":
			cfg.Log.Verbosity = *verbosity
		case "log":
			cfg.Log.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	commonlog.Configure(cfg.Log.Verbosity, cfg.LogPath())
	log := commonlog.GetLogger("t2lang.cli")

	j := newJob(flag.Arg(0), *output, *macro, cfg)

	if *watchMode {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watch(ctx, j, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := j.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
