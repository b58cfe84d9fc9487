package evaluator

import (
	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/object"
	"github.com/raould/t2lang-sub002/token"
)

// evalBody はマクロ本体（またはlet*の本体）のフォームを順に評価し、最後の値を返す。
// 本体が空なら null リテラルを返す。
func (e *Expander) evalBody(body []ast.Node, env *object.Environment) ast.Node {
	var result ast.Node

	for _, form := range body {
		if v := e.evalMacroExpr(form, env); v != nil {
			result = v
		}
	}

	if result == nil {
		return ast.Null()
	}
	return result
}

// evalMacroExpr はマクロ本体のノードを評価する。
// 仮引数は未評価の構文木に束縛されているので、評価結果もASTノードになる。
func (e *Expander) evalMacroExpr(node ast.Node, env *object.Environment) ast.Node {
	switch node := node.(type) {

	case nil:
		return nil

	// Identifier: 束縛されていれば値の複製、そうでなければ自由な参照としてそのまま
	case *ast.Identifier:
		return e.lookup(node, env)

	case *ast.Literal:
		return ast.Clone(node)

	case *ast.Gensym:
		return e.expandGensym(node)

	// Quote: テンプレートを評価する。トップレベルの splice は配列になる
	case *ast.Quote:
		return e.quoteTop(node.Expr, env)

	case *ast.LetStar:
		return e.evalLetStar(node, env)

	// If: 3つの子を全て評価する。条件の真偽で分岐はしない
	case *ast.If:
		return &ast.If{
			Span: node.Span,
			Cond: e.evalMacroExpr(node.Cond, env),
			Then: e.evalMacroExpr(node.Then, env),
			Else: e.evalMacroExpr(node.Else, env),
		}

	case *ast.Call:
		return e.evalMacroCall(node, env)
	}

	return e.substituteAndExpand(node, env)
}

// lookup は識別子を環境から探す。束縛されていれば値の深いコピーを返す。
// 同じ引数を複数箇所に埋め込んでも、展開結果同士が部分木を共有しないようにする。
func (e *Expander) lookup(id *ast.Identifier, env *object.Environment) ast.Node {
	obj, ok := env.Get(id.Name)
	if !ok {
		return ast.Clone(id)
	}
	return ast.Clone(object.Coerce(obj))
}

// evalLetStar は let* を評価する。
// 各束縛の初期値はそれまでの束縛を含む環境で評価し、束縛ごとに環境を拡張する。
func (e *Expander) evalLetStar(node *ast.LetStar, env *object.Environment) ast.Node {
	scope := env

	for _, b := range node.Bindings {
		if b == nil || b.Name == nil {
			continue
		}
		init := e.evalMacroExpr(b.Init, scope)
		if init == nil {
			init = ast.Undefined()
		}
		scope = scope.Extend(b.Name.Name, &object.Quote{Node: init})
	}

	return e.evalBody(node.Body, scope)
}

// evalMacroCall は呼び出しを評価する。
// gensym, quote, array の3つは特別扱いし、それ以外は callee と引数を評価した呼び出しを作る。
func (e *Expander) evalMacroCall(node *ast.Call, env *object.Environment) ast.Node {
	callee := e.evalMacroExpr(node.Callee, env)

	if name, ok := ast.IdentName(callee); ok {
		switch name {
		case token.GENSYM:
			args := e.evalMacroList(node.Args, env)
			prefix := ""
			if len(args) > 0 {
				prefix, _ = ast.StringValue(args[0])
			}
			return e.gensym.generate(prefix, node.Span)

		// quote の引数は評価前のものを使う
		case token.QUOTE:
			if len(node.Args) == 0 {
				return ast.Null()
			}
			return e.quoteTop(node.Args[0], env)

		case token.ARRAY_FN:
			return &ast.Array{Span: node.Span, Elements: e.evalMacroList(node.Args, env)}
		}
	}

	return &ast.Call{Span: node.Span, Callee: callee, Args: e.evalMacroList(node.Args, env)}
}

// evalMacroList はノード列を左から順に評価する。
func (e *Expander) evalMacroList(nodes []ast.Node, env *object.Environment) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if v := e.evalMacroExpr(n, env); v != nil {
			out = append(out, v)
		}
	}
	return out
}
