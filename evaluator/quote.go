// quote.go は quote の中身（テンプレート）を評価する。
// quote の中では識別子はデータとして扱われ、置換されない。
// 例外は unquote（~x）、unquote-splice（~@xs）、gensym の3つだけ。
//
// 評価結果は object.Quote（ノード1つ）か object.Splice（周囲の列に展開するノード列）。
// 列を作る箇所は全て quoteList を通し、そこで Splice を平坦化する。
package evaluator

import (
	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/object"
)

// evalQuote は quote の中のノードを評価する。
func (e *Expander) evalQuote(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	case nil:
		return &object.Quote{}

	case *ast.Identifier, *ast.Literal:
		return &object.Quote{Node: ast.Clone(node)}

	// gensym は quote の中でも必ず評価する
	case *ast.Gensym:
		return &object.Quote{Node: e.expandGensym(node)}

	// unquote: ここだけはコードとして評価する
	case *ast.Unquote:
		return &object.Quote{Node: e.evalMacroExpr(node.Expr, env)}

	case *ast.UnquoteSplice:
		return splice(e.evalMacroExpr(node.Expr, env))

	case *ast.Quote:
		return e.evalQuote(node.Expr, env)

	// 呼び出しの形で読まれた特殊形式は、型付きノードに再構築する
	case *ast.Call:
		return &object.Quote{Node: e.quoteCall(node, env)}

	case *ast.Array:
		return &object.Quote{Node: &ast.Array{Span: node.Span, Elements: e.quoteList(node.Elements, env)}}

	case *ast.Block:
		return &object.Quote{Node: &ast.Block{Span: node.Span, Body: e.quoteList(node.Body, env)}}

	case *ast.LetStar:
		return &object.Quote{Node: &ast.LetStar{
			Span:     node.Span,
			IsConst:  node.IsConst,
			Bindings: e.quoteBindings(node.Bindings, env),
			Body:     e.quoteList(node.Body, env),
		}}

	case *ast.New:
		return &object.Quote{Node: &ast.New{
			Span:   node.Span,
			Callee: e.quoteOne(node.Callee, env),
			Args:   e.quoteList(node.Args, env),
		}}

	case *ast.Function:
		return &object.Quote{Node: e.quoteFunction(node, env)}

	case *ast.While:
		return &object.Quote{Node: &ast.While{
			Span: node.Span,
			Cond: e.quoteOne(node.Cond, env),
			Body: e.quoteList(node.Body, env),
		}}

	case *ast.For:
		return &object.Quote{Node: &ast.For{
			Span:   node.Span,
			Init:   e.quoteOne(node.Init, env),
			Cond:   e.quoteOne(node.Cond, env),
			Update: e.quoteOne(node.Update, env),
			Body:   e.quoteList(node.Body, env),
		}}

	case *ast.TryCatch:
		return &object.Quote{Node: &ast.TryCatch{
			Span:        node.Span,
			TryBody:     e.quoteList(node.TryBody, env),
			CatchParam:  quoteIdent(node.CatchParam),
			CatchBody:   e.quoteList(node.CatchBody, env),
			FinallyBody: e.quoteList(node.FinallyBody, env),
		}}

	case *ast.Class:
		fields := make([]*ast.ClassField, 0, len(node.Fields))
		for _, f := range node.Fields {
			fields = append(fields, &ast.ClassField{Name: quoteIdent(f.Name), Value: e.quoteOne(f.Value, env)})
		}
		methods := make([]*ast.Function, 0, len(node.Methods))
		for _, m := range node.Methods {
			methods = append(methods, e.quoteFunction(m, env))
		}
		return &object.Quote{Node: &ast.Class{
			Span:    node.Span,
			Name:    quoteIdent(node.Name),
			Super:   e.quoteOne(node.Super, env),
			Fields:  fields,
			Methods: methods,
		}}

	case *ast.MacroDef:
		return &object.Quote{Node: &ast.MacroDef{
			Span:   node.Span,
			Name:   quoteIdent(node.Name),
			Params: ast.CloneIdents(node.Params),
			Body:   e.quoteList(node.Body, env),
		}}
	}

	// If, Return, Throw, Prop, Index, Assign, Object, TypeAssert と宣言は
	// 子がどれもノード1つなので、そのまま子ごとに評価する
	return &object.Quote{Node: ast.Rebuild(node, func(child ast.Node) ast.Node {
		return e.quoteOne(child, env)
	})}
}

// quoteTop はマクロ本体に直接書かれた quote を評価する。
// トップレベルの splice は要素の数によらず配列リテラルになる。
func (e *Expander) quoteTop(node ast.Node, env *object.Environment) ast.Node {
	if node == nil {
		return nil
	}
	obj := e.evalQuote(node, env)
	if s, ok := obj.(*object.Splice); ok {
		return &ast.Array{Span: node.Pos(), Elements: append([]ast.Node{}, s.Items...)}
	}
	return object.Coerce(obj)
}

// quoteOne はノード1つを期待する箇所で quote の中身を評価する。
// splice は object.Coerce で1つにまとめる。
func (e *Expander) quoteOne(node ast.Node, env *object.Environment) ast.Node {
	if node == nil {
		return nil
	}
	return object.Coerce(e.evalQuote(node, env))
}

// quoteList は列を作る箇所で quote の中身を評価する。
// splice はここで平坦化され、列の外に漏れない。
func (e *Expander) quoteList(nodes []ast.Node, env *object.Environment) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		out = object.Flatten(out, e.evalQuote(n, env))
	}
	return out
}

// quoteCall は呼び出しの形をしたテンプレートを評価する。
// callee も列の先頭要素として扱うので、`(~@xs ...)` のように
// 先頭で splice しても要素がずれずに並ぶ。
func (e *Expander) quoteCall(node *ast.Call, env *object.Environment) ast.Node {
	items := object.Flatten(nil, e.evalQuote(node.Callee, env))
	items = append(items, e.quoteList(node.Args, env)...)

	if len(items) == 0 {
		return &ast.Array{Span: node.Span, Elements: []ast.Node{}}
	}
	return reconstruct(items[0], items[1:], node.Span)
}

// quoteBindings は型付きの let* の束縛を評価する。
func (e *Expander) quoteBindings(bindings []*ast.Binding, env *object.Environment) []*ast.Binding {
	out := make([]*ast.Binding, 0, len(bindings))
	for _, b := range bindings {
		if b == nil || b.Name == nil {
			continue
		}
		out = append(out, &ast.Binding{Name: quoteIdent(b.Name), Init: e.quoteOne(b.Init, env)})
	}
	return out
}

func (e *Expander) quoteFunction(fn *ast.Function, env *object.Environment) *ast.Function {
	if fn == nil {
		return nil
	}
	return &ast.Function{
		Span:   fn.Span,
		Name:   quoteIdent(fn.Name),
		Params: ast.CloneIdents(fn.Params),
		Body:   e.quoteList(fn.Body, env),
	}
}

func quoteIdent(id *ast.Identifier) *ast.Identifier {
	if id == nil {
		return nil
	}
	return &ast.Identifier{Span: id.Span, Name: id.Name}
}

// splice は unquote-splice の評価結果を Splice にする。
// 配列なら要素を、それ以外なら値1つを要素とする。
func splice(v ast.Node) *object.Splice {
	switch v := v.(type) {
	case nil:
		return &object.Splice{}
	case *ast.Array:
		return &object.Splice{Items: v.Elements}
	}
	return &object.Splice{Items: []ast.Node{v}}
}
