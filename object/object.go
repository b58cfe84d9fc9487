// Package object はマクロ展開時（コンパイル時）に扱う値を定義するパッケージ。
// マクロの仮引数は実行時の値ではなく未評価の構文木に束縛されるので、
// ここで扱う値は全て「ASTノードを包んだもの」になる。
package object

import (
	"bytes"
	"strings"

	"github.com/raould/t2lang-sub002/ast"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
type ObjectType string

const (
	QUOTE_OBJ  = "QUOTE"  // 1つのASTノード
	SPLICE_OBJ = "SPLICE" // 周囲の列に展開されるノード列
	MACRO_OBJ  = "MACRO"  // マクロ定義
)

// Object はマクロ展開時の全ての値が実装するインターフェース。
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Quote は評価されていないASTノード1つを表す。
// マクロの引数や、quote の評価結果がこれになる。
type Quote struct {
	Node ast.Node
}

func (q *Quote) Type() ObjectType { return QUOTE_OBJ }

// Inspect は `QUOTE(<node>)` の形式で返す。
func (q *Quote) Inspect() string {
	if q.Node == nil {
		return "QUOTE()"
	}
	return "QUOTE(" + q.Node.String() + ")"
}

// Splice は unquote-splice の評価結果で、周囲の列にそのまま展開されるノード列。
// 最終的なASTに残ってはいけない。列を作る箇所は必ず Flatten で平坦化し、
// ノード1つを期待する箇所は Coerce で1つにまとめる。
type Splice struct {
	Items []ast.Node
}

func (s *Splice) Type() ObjectType { return SPLICE_OBJ }

func (s *Splice) Inspect() string {
	items := make([]string, 0, len(s.Items))
	for _, n := range s.Items {
		items = append(items, n.String())
	}
	return "SPLICE(" + strings.Join(items, " ") + ")"
}

// Macro はマクロ定義。マクロレジストリが名前ごとに1つ保持する。
// 収集後は変更しない。
type Macro struct {
	Name       string
	Parameters []*ast.Identifier
	Body       []ast.Node
	Def        *ast.MacroDef
}

func (m *Macro) Type() ObjectType { return MACRO_OBJ }

// Inspect は `macro name(params) body` の形式で返す。
func (m *Macro) Inspect() string {
	var out bytes.Buffer

	out.WriteString("macro " + m.Name + "(")
	out.WriteString(strings.Join(m.ParamNames(), ", "))
	out.WriteString(")")
	for _, n := range m.Body {
		out.WriteString(" " + n.String())
	}

	return out.String()
}

// ParamNames は仮引数の名前を宣言順に返す。
func (m *Macro) ParamNames() []string {
	names := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		names = append(names, p.Name)
	}
	return names
}

// Coerce は評価結果をノード1つにまとめる。
// Splice は要素が1つならその要素、それ以外は Array ノードになる。
func Coerce(obj Object) ast.Node {
	switch obj := obj.(type) {
	case *Quote:
		return obj.Node
	case *Splice:
		if len(obj.Items) == 1 {
			return obj.Items[0]
		}
		return &ast.Array{Elements: append([]ast.Node{}, obj.Items...)}
	}
	return ast.Null()
}

// Flatten は評価結果を dst の末尾に追加する。Splice は要素ごとに展開する。
// 列を作る全ての箇所（配列要素、呼び出し引数、new の引数、ブロック本体、
// let の束縛）はこの関数を通すこと。
func Flatten(dst []ast.Node, obj Object) []ast.Node {
	switch obj := obj.(type) {
	case *Quote:
		if obj.Node != nil {
			dst = append(dst, obj.Node)
		}
	case *Splice:
		dst = append(dst, obj.Items...)
	}
	return dst
}
