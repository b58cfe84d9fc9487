package evaluator

import (
	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/object"
)

// substituteAndExpand は quote の外で、evalMacroExpr が特別扱いしないノードを処理する。
// 全ての子に対して仮引数の置換をしながら構造をそのまま複製する。
// 呼び出しの形をした特殊形式は再構築しない。ここに来るノードは既に型付きである前提。
//
// 束縛位置の識別子（let の名前、仮引数など）は、識別子に束縛されているときだけ置換される。
// gensym で作った名前を束縛に使うためのもの。
func (e *Expander) substituteAndExpand(node ast.Node, env *object.Environment) ast.Node {
	switch node := node.(type) {

	case nil:
		return nil

	case *ast.Identifier:
		return e.lookup(node, env)

	case *ast.Gensym:
		return e.expandGensym(node)

	case *ast.Quote:
		return e.quoteOne(node.Expr, env)

	case *ast.Unquote:
		return e.substituteAndExpand(node.Expr, env)

	case *ast.UnquoteSplice:
		return e.substituteAndExpand(node.Expr, env)
	}

	return ast.Rebuild(node, func(child ast.Node) ast.Node {
		return e.substituteAndExpand(child, env)
	})
}
