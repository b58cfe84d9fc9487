// macro_expansion.go はマクロの定義と展開を行う。
// パーサーと名前解決の間に位置し、ASTレベルでマクロを処理する。
//
// DefineMacros: プログラムのトップレベルからマクロ定義（defmacro）を集めて
//   レジストリに格納する。
// ExpandProgram: 全てのフォームを構造的にたどってマクロ呼び出しを見つけ、
//   マクロ本体を評価した結果のASTノードで置換する。置換結果は再び展開されるので、
//   マクロを呼ぶマクロもそのまま展開できる。
package evaluator

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/object"
	"github.com/raould/t2lang-sub002/token"
)

// DefaultGensymPrefix は接頭辞を指定しない gensym が使う接頭辞。
const DefaultGensymPrefix = "G__"

// Options はマクロ展開器の設定。
type Options struct {
	// GensymPrefix は接頭辞なしの gensym に使う接頭辞。空なら DefaultGensymPrefix。
	GensymPrefix string

	// MaxExpansions は1回の ExpandProgram で許すマクロ呼び出しの総数。0 なら無制限。
	MaxExpansions int

	// MaxDepth はマクロ展開結果の再展開が入れ子になる深さの上限。0 なら無制限。
	MaxDepth int

	// Sink はトレースイベントの送り先。nil なら捨てる。
	Sink EventSink

	// Logger は展開トレースの出力先。nil なら "t2lang.expander"。
	Logger commonlog.Logger

	// Trace が真なら、マクロ呼び出しごとに BEGIN/END をデバッグログに出す。
	Trace bool
}

// Expander はマクロ展開器。マクロレジストリと gensym のカウンタを持つ。
// 1つのコンパイル単位ごとに New で作り直すこと。並行に使ってはいけない。
type Expander struct {
	opts   Options
	sink   EventSink
	log    commonlog.Logger
	macros map[string]*object.Macro

	gensym    *gensymGenerator
	topGensym map[*ast.Gensym]*ast.Identifier
	frame     *invocation

	expansions int
	depth      int
	traceLevel int
}

// invocation はマクロ呼び出し1回分の状態。
// gensyms は、この呼び出しの中で評価された Gensym ノードと生成した名前の対応。
type invocation struct {
	macro   *object.Macro
	gensyms map[*ast.Gensym]*ast.Identifier
	outer   *invocation
}

// New は新しいマクロ展開器を作成する。
func New(opts Options) *Expander {
	if opts.GensymPrefix == "" {
		opts.GensymPrefix = DefaultGensymPrefix
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	log := opts.Logger
	if log == nil {
		log = commonlog.GetLogger("t2lang.expander")
	}
	return &Expander{
		opts:      opts,
		sink:      sink,
		log:       log,
		macros:    make(map[string]*object.Macro),
		gensym:    newGensymGenerator(opts.GensymPrefix),
		topGensym: make(map[*ast.Gensym]*ast.Identifier),
	}
}

// ExpandProgram はマクロ定義を集め、プログラム全体を展開した新しいプログラムを返す。
// 結果には MacroDef, Quote, Unquote, UnquoteSplice, Gensym が残らない。
// 入力のプログラムは変更しない。
//
// エラーを返すのは MaxExpansions または MaxDepth を超えたときだけで、
// その場合のエラーは errors.Is(err, ErrNonTerminating) を満たす。
func (e *Expander) ExpandProgram(program *ast.Program) (expanded *ast.Program, err error) {
	defer func() {
		if err != nil {
			expanded = nil
		}
	}()
	defer recoverNonTermination(&err)

	e.gensym.reserve(program.Body...)
	e.DefineMacros(program)

	expanded = &ast.Program{File: program.File}
	for _, statement := range program.Body {
		if _, ok := statement.(*ast.MacroDef); ok {
			continue
		}
		if n := e.expandNode(statement); n != nil {
			expanded.Body = append(expanded.Body, n)
		}
	}

	e.sink.Emit(Event{Kind: MacroExpansionDone, MacroCount: len(e.macros)})

	return expanded, nil
}

// DefineMacros はプログラムのトップレベルからマクロ定義を集めてレジストリに格納する。
// 同じ名前の定義が複数あれば、後の定義で上書きする。
func (e *Expander) DefineMacros(program *ast.Program) {
	for _, statement := range program.Body {
		def, ok := statement.(*ast.MacroDef)
		if !ok || def.Name == nil {
			continue
		}
		e.addMacro(def)
	}
}

// addMacro はマクロ定義文からMacroオブジェクトを生成してレジストリに格納する。
func (e *Expander) addMacro(def *ast.MacroDef) {
	macro := &object.Macro{
		Name:       def.Name.Name,
		Parameters: def.Params,
		Body:       def.Body,
		Def:        def,
	}

	e.macros[macro.Name] = macro
	e.sink.Emit(Event{Kind: MacroRegistered, Name: macro.Name, Params: macro.ParamNames()})
}

// Macro は登録済みのマクロを名前で引く。
func (e *Expander) Macro(name string) (*object.Macro, bool) {
	macro, ok := e.macros[name]
	return macro, ok
}

// MacroCount は登録済みのマクロの数を返す。
func (e *Expander) MacroCount() int {
	return len(e.macros)
}

// ExpandMacro は登録済みのマクロ name を args で1回だけ呼び出し、結果を完全に展開して返す。
// 引数は展開しない。マクロの動作を1つずつ確かめるときに使う。
// 引数中の識別子名は gensym が生成する名前から除かれる。
func (e *Expander) ExpandMacro(name string, args ...ast.Node) (expanded ast.Node, err error) {
	defer func() {
		if err != nil {
			expanded = nil
		}
	}()
	defer recoverNonTermination(&err)

	macro, ok := e.macros[name]
	if !ok {
		return nil, fmt.Errorf("unknown macro: %s", name)
	}
	e.gensym.reserve(args...)
	return e.expandCall(macro, args, token.Span{}), nil
}

// expandNode はノードを構造的に展開する。全てのノード型を扱う。
// 呼び出しは先に callee と引数を展開し、callee がマクロ名ならマクロを適用して、
// 結果をもう一度展開する。
func (e *Expander) expandNode(node ast.Node) ast.Node {
	switch node := node.(type) {

	case nil:
		return nil

	// トップレベル以外のマクロ定義は登録せずに取り除く
	case *ast.MacroDef:
		return nil

	// 通常のコード中の quote: 中身はデータなので展開しない
	case *ast.Quote:
		return e.expandQuoted(node.Expr)

	// quote の外の unquote はそのまま中身をコードとして扱う
	case *ast.Unquote:
		return e.expandNode(node.Expr)

	case *ast.UnquoteSplice:
		return e.expandNode(node.Expr)

	case *ast.Gensym:
		return e.expandGensym(node)

	case *ast.Call:
		call := ast.Rebuild(node, e.expandNode).(*ast.Call)

		macro, ok := e.isMacroCall(call)
		if !ok {
			return call
		}
		return e.expandCall(macro, call.Args, call.Span)
	}

	return ast.Rebuild(node, e.expandNode)
}

// expandQuoted は通常のコード中に現れた quote の中身を処理する。
// 中身はマクロ展開せず、Gensym だけを新しい識別子に置き換えて quote を外す。
func (e *Expander) expandQuoted(expr ast.Node) ast.Node {
	if expr == nil {
		return ast.Null()
	}
	return ast.Modify(expr, func(node ast.Node) ast.Node {
		switch node := node.(type) {
		case *ast.Gensym:
			return e.expandGensym(node)
		case *ast.Unquote:
			return e.expandNode(node.Expr)
		case *ast.UnquoteSplice:
			return e.expandNode(node.Expr)
		case *ast.Quote:
			return node.Expr
		case *ast.MacroDef:
			return nil
		}
		return node
	})
}

// isMacroCall は呼び出しがマクロ呼び出しかどうか判定する。
// callee が識別子で、その名前でマクロが登録されていればマクロ呼び出し。
func (e *Expander) isMacroCall(call *ast.Call) (*object.Macro, bool) {
	name, ok := ast.IdentName(call.Callee)
	if !ok {
		return nil, false
	}

	macro, ok := e.macros[name]
	return macro, ok
}

// expandCall はマクロを1回適用し、その結果をもう一度展開する。
// 上限が設定されていれば、ここで呼び出し回数と入れ子の深さを数える。
func (e *Expander) expandCall(macro *object.Macro, args []ast.Node, span token.Span) ast.Node {
	e.expansions++
	if e.opts.MaxExpansions > 0 && e.expansions > e.opts.MaxExpansions {
		panic(&NonTerminationError{Macro: macro.Name, Location: span, Limit: e.opts.MaxExpansions, Reason: ExpansionCountLimit})
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.opts.MaxDepth > 0 && e.depth > e.opts.MaxDepth {
		panic(&NonTerminationError{Macro: macro.Name, Location: span, Limit: e.opts.MaxDepth, Reason: DepthLimit})
	}

	expanded := e.applyMacro(macro, args, span)
	return e.expandNode(expanded)
}

// applyMacro はマクロ本体を評価する。
// マクロの引数は評価されずにASTノードとしてそのまま仮引数に束縛される。
func (e *Expander) applyMacro(macro *object.Macro, args []ast.Node, span token.Span) ast.Node {
	defer e.untrace(e.trace("macro " + macro.Name))

	e.sink.Emit(Event{Kind: MacroExpanding, Name: macro.Name, ArgCount: len(args), Location: span})

	e.frame = &invocation{
		macro:   macro,
		gensyms: make(map[*ast.Gensym]*ast.Identifier),
		outer:   e.frame,
	}
	defer func() { e.frame = e.frame.outer }()

	env := extendMacroEnv(macro, quoteArgs(args))
	result := e.evalBody(macro.Body, env)

	if result.Pos().IsZero() {
		result = ast.WithSpan(result, span)
	}
	return result
}

// quoteArgs はマクロ呼び出しの引数をQuoteオブジェクトに変換する。
func quoteArgs(args []ast.Node) []*object.Quote {
	quoted := make([]*object.Quote, 0, len(args))

	for _, a := range args {
		quoted = append(quoted, &object.Quote{Node: a})
	}

	return quoted
}

// extendMacroEnv はマクロ呼び出し用の環境を作成する。
// 足りない引数は null リテラルに束縛し、余った引数は無視する。
func extendMacroEnv(macro *object.Macro, args []*object.Quote) *object.Environment {
	env := object.NewEnvironment()

	for i, param := range macro.Parameters {
		if param == nil {
			continue
		}
		if i < len(args) {
			env = env.Extend(param.Name, args[i])
		} else {
			env = env.Extend(param.Name, &object.Quote{Node: ast.Null()})
		}
	}

	return env
}
