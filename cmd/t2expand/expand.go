package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/astcodec"
	"github.com/raould/t2lang-sub002/config"
	"github.com/raould/t2lang-sub002/evaluator"
)

// job は入力ファイル1つ分の展開の設定。
type job struct {
	input  string
	output string
	macro  string
	format string
	opts   evaluator.Options
}

func newJob(input, output, macro string, cfg *config.Config) job {
	return job{
		input:  input,
		output: output,
		macro:  macro,
		format: cfg.Output.Format,
		opts: evaluator.Options{
			GensymPrefix:  cfg.Expander.GensymPrefix,
			MaxExpansions: cfg.Expander.MaxExpansions,
			MaxDepth:      cfg.Expander.MaxDepth,
			Trace:         cfg.Expander.Trace,
			Sink:          evaluator.NewLogSink("t2lang.expander"),
		},
	}
}

// run は入力を読んで展開し、結果を書き出す。
// 展開器は呼び出しごとに新しく作るので、gensym の番号は毎回1から始まる。
func (j job) run() error {
	data, err := os.ReadFile(j.input)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", j.input, err)
	}

	program, err := astcodec.UnmarshalProgram(data)
	if err != nil {
		return fmt.Errorf("%s: %w", j.input, err)
	}

	expanded, err := expand(program, j.macro, j.opts)
	if err != nil {
		return err
	}

	out, err := render(expanded, j.format)
	if err != nil {
		return err
	}

	if j.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(j.output, out, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", j.output, err)
	}
	return nil
}

// expand はプログラム全体を展開する。macro が指定されていれば、
// マクロ定義を登録したうえでそのマクロだけを残りのフォームを引数にして1回展開する。
func expand(program *ast.Program, macro string, opts evaluator.Options) (*ast.Program, error) {
	e := evaluator.New(opts)

	if macro == "" {
		return e.ExpandProgram(program)
	}

	e.DefineMacros(program)

	var args []ast.Node
	for _, form := range program.Body {
		if _, ok := form.(*ast.MacroDef); !ok {
			args = append(args, form)
		}
	}

	n, err := e.ExpandMacro(macro, args...)
	if err != nil {
		return nil, err
	}
	return &ast.Program{File: program.File, Body: []ast.Node{n}}, nil
}

// render は展開結果を format の形式でバイト列にする。
func render(program *ast.Program, format string) ([]byte, error) {
	switch format {
	case config.FormatCBOR:
		return astcodec.MarshalProgram(program)
	case config.FormatSExpr, "":
		var out bytes.Buffer
		writeSExpr(&out, program)
		return out.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func writeSExpr(w io.Writer, program *ast.Program) {
	for _, form := range program.Body {
		io.WriteString(w, form.String())
		io.WriteString(w, "\n")
	}
}
