package ast

import "github.com/raould/t2lang-sub002/token"

// 位置情報なしのノードを組み立てる補助関数。
// マクロ展開器が新しいノードを作るときと、テストでASTを手で組み立てるときに使う。

func Ident(name string) *Identifier { return &Identifier{Name: name} }

func Num(v float64) *Literal { return &Literal{Kind: NumberLiteral, Number: v} }

func Str(s string) *Literal { return &Literal{Kind: StringLiteral, Str: s} }

func Bool(b bool) *Literal { return &Literal{Kind: BoolLiteral, Bool: b} }

func Null() *Literal { return &Literal{Kind: NullLiteral} }

func Undefined() *Literal { return &Literal{Kind: UndefinedLiteral} }

// CallOf は `(callee args...)` を作る。
func CallOf(callee Node, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// CallNamed は callee が識別子 name の呼び出しを作る。
func CallNamed(name string, args ...Node) *Call {
	return &Call{Callee: Ident(name), Args: args}
}

// ArrayOf は `(array elements...)` を作る。
func ArrayOf(elements ...Node) *Array {
	return &Array{Elements: elements}
}

// WithSpan は n の位置情報を span に置き換えて返す。
// span が空なら何もしない。Program 以外の全てのノードに対応する。
func WithSpan(n Node, span token.Span) Node {
	if span.IsZero() || n == nil {
		return n
	}
	switch n := n.(type) {
	case *Identifier:
		n.Span = span
	case *Literal:
		n.Span = span
	case *Gensym:
		n.Span = span
	case *LetStar:
		n.Span = span
	case *If:
		n.Span = span
	case *While:
		n.Span = span
	case *For:
		n.Span = span
	case *Return:
		n.Span = span
	case *Throw:
		n.Span = span
	case *TryCatch:
		n.Span = span
	case *Block:
		n.Span = span
	case *Call:
		n.Span = span
	case *Prop:
		n.Span = span
	case *Index:
		n.Span = span
	case *Assign:
		n.Span = span
	case *Array:
		n.Span = span
	case *Object:
		n.Span = span
	case *New:
		n.Span = span
	case *Function:
		n.Span = span
	case *Class:
		n.Span = span
	case *TypeAssert:
		n.Span = span
	case *Quote:
		n.Span = span
	case *Unquote:
		n.Span = span
	case *UnquoteSplice:
		n.Span = span
	case *MacroDef:
		n.Span = span
	case *TypeAlias:
		n.Span = span
	case *Import:
		n.Span = span
	case *Export:
		n.Span = span
	}
	return n
}

// IdentName は n が識別子ならその名前を返す。
func IdentName(n Node) (string, bool) {
	id, ok := n.(*Identifier)
	if !ok || id == nil {
		return "", false
	}
	return id.Name, true
}

// StringValue は n が文字列リテラルならその値を返す。
func StringValue(n Node) (string, bool) {
	lit, ok := n.(*Literal)
	if !ok || lit == nil || lit.Kind != StringLiteral {
		return "", false
	}
	return lit.Str, true
}
