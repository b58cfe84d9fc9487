// reconstruct.go は quote の中で「呼び出し」として読まれた特殊形式を、
// 型付きのASTノードに作り直す。
//
// パーサーは quote の中では特殊形式を区別せず、`(let* ((a 1)) a)` も
// `(if c a b)` も全て Call として読む。名前解決以降は型付きノードを前提にするので、
// テンプレートの評価後に callee の名前を見て、対応するノードに戻す。
// 不正な形は例外を出さずに、空のプロパティ名や any 型に縮退させる。
package evaluator

import (
	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/token"
)

// reconstruct は評価済みの callee と引数から、特殊形式なら型付きノードを、
// そうでなければ Call を作る。
func reconstruct(callee ast.Node, args []ast.Node, span token.Span) ast.Node {
	name, ok := ast.IdentName(callee)
	if !ok {
		return &ast.Call{Span: span, Callee: callee, Args: args}
	}

	switch token.LookupForm(name) {

	case token.LET_STAR:
		return &ast.LetStar{
			Span:     span,
			IsConst:  name == token.CONST,
			Bindings: bindingsFrom(arg(args, 0)),
			Body:     rest(args, 1),
		}

	case token.IF:
		return &ast.If{Span: span, Cond: arg(args, 0), Then: arg(args, 1), Else: arg(args, 2)}

	case token.BLOCK:
		return &ast.Block{Span: span, Body: rest(args, 0)}

	case token.ASSIGN:
		return &ast.Assign{Span: span, Target: arg(args, 0), Value: arg(args, 1)}

	case token.INDEX:
		return &ast.Index{Span: span, Object: arg(args, 0), Index: arg(args, 1)}

	case token.PROP:
		prop, _ := ast.StringValue(arg(args, 1))
		return &ast.Prop{Span: span, Object: arg(args, 0), Name: prop}

	// (new ~C ~args) で args が配列なら、その要素をコンストラクタ引数にする
	case token.NEW:
		ctorArgs := rest(args, 1)
		if len(ctorArgs) == 1 {
			if arr, ok := ctorArgs[0].(*ast.Array); ok {
				ctorArgs = append([]ast.Node{}, arr.Elements...)
			}
		}
		return &ast.New{Span: span, Callee: arg(args, 0), Args: ctorArgs}

	case token.RETURN:
		return &ast.Return{Span: span, Value: arg(args, 0)}

	case token.THROW:
		return &ast.Throw{Span: span, Value: arg(args, 0)}

	case token.TYPE_ASSERT:
		return &ast.TypeAssert{Span: span, Expr: arg(args, 0), Type: typeFrom(arg(args, 1))}

	case token.FUNCTION:
		return functionFrom(args, span)

	// 演算子は演算子ノードにしない。コード生成が識別子名で中置演算子と判別する
	case token.OPERATOR:
		return &ast.Call{Span: span, Callee: callee, Args: args}

	case token.ARRAY:
		return &ast.Array{Span: span, Elements: rest(args, 0)}

	case token.CALL_FORM:
		if len(args) == 0 {
			return &ast.Call{Span: span, Callee: callee, Args: args}
		}
		return &ast.Call{Span: span, Callee: args[0], Args: rest(args, 1)}
	}

	return &ast.Call{Span: span, Callee: callee, Args: args}
}

// bindingsFrom は束縛リストを作る。
// `((a 1) (b 2))` は quote の中では Call{callee: (a 1), args: [(b 2)]} として読まれるので、
// callee を最初の束縛、引数を残りの束縛として扱う。
// 束縛リストが配列（unquote した配列など）の場合は要素をそのまま束縛として扱う。
func bindingsFrom(list ast.Node) []*ast.Binding {
	var items []ast.Node

	switch list := list.(type) {
	case nil:
		return []*ast.Binding{}
	case *ast.Call:
		if _, ok := list.Callee.(*ast.Identifier); ok {
			// `(a 1)` だけが書かれた場合は、それ自体を1つの束縛とみなす
			items = []ast.Node{list}
		} else {
			items = append([]ast.Node{list.Callee}, list.Args...)
		}
	case *ast.Array:
		items = list.Elements
	default:
		items = []ast.Node{list}
	}

	bindings := make([]*ast.Binding, 0, len(items))
	for _, item := range items {
		if b := bindingFrom(item); b != nil {
			bindings = append(bindings, b)
		}
	}
	return bindings
}

// bindingFrom は `name(init)` の形（または [name init] の配列、名前だけ）から束縛を作る。
// 名前が識別子でなければ nil を返し、その束縛は捨てられる。
func bindingFrom(item ast.Node) *ast.Binding {
	var name, init ast.Node

	switch item := item.(type) {
	case *ast.Identifier:
		name = item
	case *ast.Call:
		name, init = item.Callee, arg(item.Args, 0)
	case *ast.Array:
		name, init = arg(item.Elements, 0), arg(item.Elements, 1)
	}

	id, ok := name.(*ast.Identifier)
	if !ok {
		return nil
	}
	if init == nil {
		init = ast.Undefined()
	}
	return &ast.Binding{Name: id, Init: init}
}

// typeFrom は `(type-ref "Name")` の形だけを型として認識する。それ以外は any。
func typeFrom(n ast.Node) *ast.TypeRef {
	if call, ok := n.(*ast.Call); ok {
		if callee, _ := ast.IdentName(call.Callee); callee == token.TYPE_REF {
			if name, ok := ast.StringValue(arg(call.Args, 0)); ok {
				return &ast.TypeRef{Name: name}
			}
		}
	}
	return &ast.TypeRef{Name: token.ANY_TYPE}
}

// functionFrom は `(fn (array params...) body...)` から関数を作る。
// `(fn name (array params...) body...)` も名前付き関数として受け付ける。
// 仮引数リストがなければ、引数は全て本体になる。
func functionFrom(args []ast.Node, span token.Span) *ast.Function {
	if params, ok := paramsFrom(arg(args, 0)); ok {
		return &ast.Function{Span: span, Params: params, Body: rest(args, 1)}
	}
	if name, ok := arg(args, 0).(*ast.Identifier); ok && len(args) > 1 {
		if params, ok := paramsFrom(args[1]); ok {
			return &ast.Function{Span: span, Name: name, Params: params, Body: rest(args, 2)}
		}
	}
	return &ast.Function{Span: span, Params: []*ast.Identifier{}, Body: rest(args, 0)}
}

// paramsFrom は識別子だけからなる配列を仮引数リストにする。
func paramsFrom(n ast.Node) ([]*ast.Identifier, bool) {
	arr, ok := n.(*ast.Array)
	if !ok {
		return nil, false
	}
	params := make([]*ast.Identifier, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		id, ok := el.(*ast.Identifier)
		if !ok {
			return nil, false
		}
		params = append(params, id)
	}
	return params, true
}

// arg は i 番目の引数を返す。なければ nil。
func arg(args []ast.Node, i int) ast.Node {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// rest は i 番目以降の引数を新しいスライスで返す。
func rest(args []ast.Node, i int) []ast.Node {
	if i >= len(args) {
		return []ast.Node{}
	}
	return append([]ast.Node{}, args[i:]...)
}
