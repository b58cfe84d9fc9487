// Package ast は t2lang の抽象構文木（AST）を定義するパッケージ。
// 外部のパーサーが s式のソースコードから構築し、マクロ展開器が変換して、
// 名前解決・型検査・コード生成へ渡す。
//
// ASTは閉じた直和型で、全てのノードは Node インターフェースを実装する。
// Node は非公開のマーカーメソッドを持つので、このパッケージの外から
// 新しいノード型を追加することはできない。ノード型を追加したら、
// Modify・Clone・evaluator の各 switch も必ず更新すること。
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/raould/t2lang-sub002/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// Pos() はノードのソース位置を返す。
// String() はノードを正規形の s式文字列に変換する。
type Node interface {
	Pos() token.Span
	String() string
	node()
}

// Program はASTのルートノード。
// t2lang のプログラムはトップレベルのフォームの列で構成される。
type Program struct {
	File string
	Body []Node
}

// String はプログラム全体を文字列に変換する。
// 各フォームのString()を改行で連結して返す。
func (p *Program) String() string {
	forms := make([]string, 0, len(p.Body))
	for _, n := range p.Body {
		forms = append(forms, n.String())
	}
	return strings.Join(forms, "\n")
}

// =====================
// アトム
// =====================

// Identifier は識別子を表す。
type Identifier struct {
	Span token.Span
	Name string
}

func (i *Identifier) node()           {}
func (i *Identifier) Pos() token.Span { return i.Span }
func (i *Identifier) String() string  { return i.Name }

// LiteralKind はリテラル値の種類。
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NullLiteral
	UndefinedLiteral
)

// Literal は数値・文字列・真偽値・null・undefined のリテラルを表す。
// Kind に応じて Number, Str, Bool のいずれかが意味を持つ。
type Literal struct {
	Span   token.Span
	Kind   LiteralKind
	Number float64
	Str    string
	Bool   bool
}

func (l *Literal) node()           {}
func (l *Literal) Pos() token.Span { return l.Span }

// String はリテラルを s式の表記で返す。文字列は引用符付き。
func (l *Literal) String() string {
	switch l.Kind {
	case NumberLiteral:
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case StringLiteral:
		return strconv.Quote(l.Str)
	case BoolLiteral:
		return strconv.FormatBool(l.Bool)
	case NullLiteral:
		return "null"
	default:
		return "undefined"
	}
}

// Gensym は `(gensym "prefix")` 専用構文から作られる、新しい名前の生成要求。
// マクロ展開後のASTには残らない。
//
// Clone で複製されたノードは元のノードを origin として覚えており、
// 1回のマクロ呼び出しの中では複製同士も同じ名前に展開される。
type Gensym struct {
	Span   token.Span
	Prefix string

	origin *Gensym
}

func (g *Gensym) node()           {}
func (g *Gensym) Pos() token.Span { return g.Span }

// Origin は名前のキャッシュに使うキーを返す。
// 複製でなければ自分自身。
func (g *Gensym) Origin() *Gensym {
	if g.origin != nil {
		return g.origin
	}
	return g
}

func (g *Gensym) String() string {
	if g.Prefix == "" {
		return "(gensym)"
	}
	return "(gensym " + strconv.Quote(g.Prefix) + ")"
}

// =====================
// 束縛
// =====================

// Binding は let* の束縛1つ分（名前と初期値）。
type Binding struct {
	Name *Identifier
	Init Node
}

// String は `(name init)` の形式で返す。
func (b *Binding) String() string {
	return "(" + b.Name.String() + " " + nodeString(b.Init) + ")"
}

// LetStar は `(let* ((a 1) (b a)) body...)` を表す。
// 各束縛はそれより前の束縛を参照できる。IsConst が真なら `const` 形式。
type LetStar struct {
	Span     token.Span
	IsConst  bool
	Bindings []*Binding
	Body     []Node
}

func (ls *LetStar) node()           {}
func (ls *LetStar) Pos() token.Span { return ls.Span }

func (ls *LetStar) String() string {
	var out bytes.Buffer

	if ls.IsConst {
		out.WriteString("(const (")
	} else {
		out.WriteString("(let* (")
	}
	for i, b := range ls.Bindings {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(b.String())
	}
	out.WriteString(")")
	writeNodes(&out, ls.Body)
	out.WriteString(")")

	return out.String()
}

// =====================
// 制御構造
// =====================

// If は `(if cond then else?)` を表す。Else は省略可能。
type If struct {
	Span token.Span
	Cond Node
	Then Node
	Else Node
}

func (n *If) node()           {}
func (n *If) Pos() token.Span { return n.Span }

func (n *If) String() string {
	if n.Else == nil {
		return list("if", n.Cond, n.Then)
	}
	return list("if", n.Cond, n.Then, n.Else)
}

// While は `(while cond body...)` を表す。
type While struct {
	Span token.Span
	Cond Node
	Body []Node
}

func (n *While) node()           {}
func (n *While) Pos() token.Span { return n.Span }

func (n *While) String() string {
	return list("while", append([]Node{n.Cond}, n.Body...)...)
}

// For は `(for init cond update body...)` を表す。
// Init, Cond, Update はいずれも省略可能（nil）で、その場合 `()` と表示する。
type For struct {
	Span   token.Span
	Init   Node
	Cond   Node
	Update Node
	Body   []Node
}

func (n *For) node()           {}
func (n *For) Pos() token.Span { return n.Span }

func (n *For) String() string {
	return list("for", append([]Node{n.Init, n.Cond, n.Update}, n.Body...)...)
}

// Return は `(return value?)` を表す。
type Return struct {
	Span  token.Span
	Value Node
}

func (n *Return) node()           {}
func (n *Return) Pos() token.Span { return n.Span }

func (n *Return) String() string {
	if n.Value == nil {
		return "(return)"
	}
	return list("return", n.Value)
}

// Throw は `(throw value)` を表す。
type Throw struct {
	Span  token.Span
	Value Node
}

func (n *Throw) node()           {}
func (n *Throw) Pos() token.Span { return n.Span }
func (n *Throw) String() string  { return list("throw", n.Value) }

// TryCatch は `(try body... (catch e body...) (finally body...))` を表す。
// CatchParam は省略可能。
type TryCatch struct {
	Span        token.Span
	TryBody     []Node
	CatchParam  *Identifier
	CatchBody   []Node
	FinallyBody []Node
}

func (n *TryCatch) node()           {}
func (n *TryCatch) Pos() token.Span { return n.Span }

func (n *TryCatch) String() string {
	var out bytes.Buffer

	out.WriteString("(try")
	writeNodes(&out, n.TryBody)
	out.WriteString(" (catch")
	if n.CatchParam != nil {
		out.WriteString(" " + n.CatchParam.String())
	}
	writeNodes(&out, n.CatchBody)
	out.WriteString(")")
	if len(n.FinallyBody) > 0 {
		out.WriteString(" (finally")
		writeNodes(&out, n.FinallyBody)
		out.WriteString(")")
	}
	out.WriteString(")")

	return out.String()
}

// Block は `(block body...)` を表す。
type Block struct {
	Span token.Span
	Body []Node
}

func (n *Block) node()           {}
func (n *Block) Pos() token.Span { return n.Span }
func (n *Block) String() string  { return list("block", n.Body...) }

// =====================
// 構造
// =====================

// Call は関数呼び出し `(callee args...)` を表す。
// 演算子も識別子 callee の Call として表現する（例: `(+ a 1)`）。
type Call struct {
	Span   token.Span
	Callee Node
	Args   []Node
}

func (n *Call) node()           {}
func (n *Call) Pos() token.Span { return n.Span }

func (n *Call) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(nodeString(n.Callee))
	writeNodes(&out, n.Args)
	out.WriteString(")")

	return out.String()
}

// Prop はプロパティ参照 `(prop obj "name")` を表す。
type Prop struct {
	Span   token.Span
	Object Node
	Name   string
}

func (n *Prop) node()           {}
func (n *Prop) Pos() token.Span { return n.Span }

func (n *Prop) String() string {
	return "(prop " + nodeString(n.Object) + " " + strconv.Quote(n.Name) + ")"
}

// Index は添字参照 `(index obj i)` を表す。
type Index struct {
	Span   token.Span
	Object Node
	Index  Node
}

func (n *Index) node()           {}
func (n *Index) Pos() token.Span { return n.Span }
func (n *Index) String() string  { return list("index", n.Object, n.Index) }

// Assign は代入 `(assign target value)` を表す。
type Assign struct {
	Span   token.Span
	Target Node
	Value  Node
}

func (n *Assign) node()           {}
func (n *Assign) Pos() token.Span { return n.Span }
func (n *Assign) String() string  { return list("assign", n.Target, n.Value) }

// Array は配列リテラル `(array elements...)` を表す。
type Array struct {
	Span     token.Span
	Elements []Node
}

func (n *Array) node()           {}
func (n *Array) Pos() token.Span { return n.Span }
func (n *Array) String() string  { return list("array", n.Elements...) }

// Field はオブジェクトリテラルのキーと値の組。
type Field struct {
	Key   Node
	Value Node
}

// Object はオブジェクトリテラル `(object (key value)...)` を表す。
type Object struct {
	Span   token.Span
	Fields []*Field
}

func (n *Object) node()           {}
func (n *Object) Pos() token.Span { return n.Span }

func (n *Object) String() string {
	var out bytes.Buffer

	out.WriteString("(object")
	for _, f := range n.Fields {
		out.WriteString(" (" + nodeString(f.Key) + " " + nodeString(f.Value) + ")")
	}
	out.WriteString(")")

	return out.String()
}

// New はインスタンス生成 `(new Callee args...)` を表す。
type New struct {
	Span   token.Span
	Callee Node
	Args   []Node
}

func (n *New) node()           {}
func (n *New) Pos() token.Span { return n.Span }
func (n *New) String() string  { return list("new", append([]Node{n.Callee}, n.Args...)...) }

// Function は関数 `(fn name? (array params...) body...)` を表す。Name は省略可能。
type Function struct {
	Span   token.Span
	Name   *Identifier
	Params []*Identifier
	Body   []Node
}

func (n *Function) node()           {}
func (n *Function) Pos() token.Span { return n.Span }

func (n *Function) String() string {
	var out bytes.Buffer

	out.WriteString("(fn")
	if n.Name != nil {
		out.WriteString(" " + n.Name.String())
	}
	out.WriteString(" (array")
	for _, p := range n.Params {
		out.WriteString(" " + p.String())
	}
	out.WriteString(")")
	writeNodes(&out, n.Body)
	out.WriteString(")")

	return out.String()
}

// ClassField はクラスのフィールド宣言。Value は省略可能。
type ClassField struct {
	Name  *Identifier
	Value Node
}

// Class は `(class Name Super? (field ...)... (fn ...)...)` を表す。
type Class struct {
	Span    token.Span
	Name    *Identifier
	Super   Node
	Fields  []*ClassField
	Methods []*Function
}

func (n *Class) node()           {}
func (n *Class) Pos() token.Span { return n.Span }

func (n *Class) String() string {
	var out bytes.Buffer

	out.WriteString("(class " + n.Name.String())
	if n.Super != nil {
		out.WriteString(" (extends " + n.Super.String() + ")")
	}
	for _, f := range n.Fields {
		out.WriteString(" (field " + f.Name.String())
		if f.Value != nil {
			out.WriteString(" " + f.Value.String())
		}
		out.WriteString(")")
	}
	for _, m := range n.Methods {
		out.WriteString(" " + m.String())
	}
	out.WriteString(")")

	return out.String()
}

// TypeRef は型式。Name が型名、Args が型引数。
// マクロ展開器は型の中身を解釈しない。
type TypeRef struct {
	Name string
	Args []*TypeRef
}

// String は `(type-ref "Name" args...)` の形式で返す。
func (t *TypeRef) String() string {
	if t == nil {
		return "(type-ref \"any\")"
	}
	var out bytes.Buffer

	out.WriteString("(type-ref " + strconv.Quote(t.Name))
	for _, a := range t.Args {
		out.WriteString(" " + a.String())
	}
	out.WriteString(")")

	return out.String()
}

// TypeAssert は型アサーション `(type-assert expr (type-ref "T"))` を表す。
type TypeAssert struct {
	Span token.Span
	Expr Node
	Type *TypeRef
}

func (n *TypeAssert) node()           {}
func (n *TypeAssert) Pos() token.Span { return n.Span }

func (n *TypeAssert) String() string {
	return "(type-assert " + nodeString(n.Expr) + " " + n.Type.String() + ")"
}

// =====================
// メタプログラミング
// =====================

// Quote は `(quote expr)` を表す。中身はコードではなくデータとして扱われる。
type Quote struct {
	Span token.Span
	Expr Node
}

func (n *Quote) node()           {}
func (n *Quote) Pos() token.Span { return n.Span }
func (n *Quote) String() string  { return list("quote", n.Expr) }

// Unquote は quote 内で評価に戻る `~expr` を表す。
type Unquote struct {
	Span token.Span
	Expr Node
}

func (n *Unquote) node()           {}
func (n *Unquote) Pos() token.Span { return n.Span }
func (n *Unquote) String() string  { return "~" + nodeString(n.Expr) }

// UnquoteSplice は評価結果の配列を周囲の列に展開する `~@expr` を表す。
type UnquoteSplice struct {
	Span token.Span
	Expr Node
}

func (n *UnquoteSplice) node()           {}
func (n *UnquoteSplice) Pos() token.Span { return n.Span }
func (n *UnquoteSplice) String() string  { return "~@" + nodeString(n.Expr) }

// =====================
// 宣言（トップレベルのみ）
// =====================

// MacroDef は `(defmacro name (params...) body...)` を表す。
type MacroDef struct {
	Span   token.Span
	Name   *Identifier
	Params []*Identifier
	Body   []Node
}

func (n *MacroDef) node()           {}
func (n *MacroDef) Pos() token.Span { return n.Span }

func (n *MacroDef) String() string {
	var out bytes.Buffer

	out.WriteString("(defmacro " + n.Name.String() + " (")
	for i, p := range n.Params {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(p.String())
	}
	out.WriteString(")")
	writeNodes(&out, n.Body)
	out.WriteString(")")

	return out.String()
}

// TypeAlias は `(type Name T)` を表す。
type TypeAlias struct {
	Span token.Span
	Name *Identifier
	Type *TypeRef
}

func (n *TypeAlias) node()           {}
func (n *TypeAlias) Pos() token.Span { return n.Span }

func (n *TypeAlias) String() string {
	return "(type " + n.Name.String() + " " + n.Type.String() + ")"
}

// Import は `(import (names...) "source")` を表す。
type Import struct {
	Span   token.Span
	Names  []*Identifier
	Source string
}

func (n *Import) node()           {}
func (n *Import) Pos() token.Span { return n.Span }

func (n *Import) String() string {
	names := make([]string, 0, len(n.Names))
	for _, id := range n.Names {
		names = append(names, id.String())
	}
	return "(import (" + strings.Join(names, " ") + ") " + strconv.Quote(n.Source) + ")"
}

// Export は `(export names...)` を表す。
type Export struct {
	Span  token.Span
	Names []*Identifier
}

func (n *Export) node()           {}
func (n *Export) Pos() token.Span { return n.Span }

func (n *Export) String() string {
	var out bytes.Buffer

	out.WriteString("(export")
	for _, id := range n.Names {
		out.WriteString(" " + id.String())
	}
	out.WriteString(")")

	return out.String()
}

// nodeString は省略されたノード（nil）を `()` として表示する。
func nodeString(n Node) string {
	if n == nil {
		return "()"
	}
	return n.String()
}

// writeNodes は各ノードを前に空白を付けて書き出す。
func writeNodes(out *bytes.Buffer, nodes []Node) {
	for _, n := range nodes {
		out.WriteString(" ")
		out.WriteString(nodeString(n))
	}
}

// list は `(head a b ...)` を組み立てる。
func list(head string, nodes ...Node) string {
	var out bytes.Buffer

	out.WriteString("(" + head)
	writeNodes(&out, nodes)
	out.WriteString(")")

	return out.String()
}
