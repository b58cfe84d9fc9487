package astcodec

import (
	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/token"
)

// ノードの種類を表す文字列。ワイヤ形式の一部なので変更しないこと。
const (
	kindIdentifier    = "ident"
	kindLiteral       = "lit"
	kindGensym        = "gensym"
	kindBinding       = "binding"
	kindLetStar       = "let*"
	kindIf            = "if"
	kindWhile         = "while"
	kindFor           = "for"
	kindReturn        = "return"
	kindThrow         = "throw"
	kindTry           = "try"
	kindBlock         = "block"
	kindCall          = "call"
	kindProp          = "prop"
	kindIndex         = "index"
	kindAssign        = "assign"
	kindArray         = "array"
	kindField         = "field"
	kindObject        = "object"
	kindNew           = "new"
	kindFunction      = "fn"
	kindClassField    = "class-field"
	kindClass         = "class"
	kindType          = "type"
	kindTypeAssert    = "type-assert"
	kindQuote         = "quote"
	kindUnquote       = "unquote"
	kindUnquoteSplice = "unquote-splice"
	kindMacroDef      = "defmacro"
	kindTypeAlias     = "type-alias"
	kindImport        = "import"
	kindExport        = "export"
)

// wireSpan は token.Span のワイヤ表現。
type wireSpan struct {
	File   string `cbor:"1,keyasint,omitempty"`
	Start  int    `cbor:"2,keyasint,omitempty"`
	End    int    `cbor:"3,keyasint,omitempty"`
	Line   int    `cbor:"4,keyasint,omitempty"`
	Column int    `cbor:"5,keyasint,omitempty"`
}

// wireNode は全てのノードに共通のワイヤ表現。
// Kids は位置が決まった子（省略された子は nil）、Lists は子の列。
// どのフィールドを使うかは Kind ごとに決まっている。
type wireNode struct {
	Kind   string        `cbor:"1,keyasint"`
	Span   *wireSpan     `cbor:"2,keyasint,omitempty"`
	Name   string        `cbor:"3,keyasint,omitempty"`
	Lit    int           `cbor:"4,keyasint,omitempty"`
	Number float64       `cbor:"5,keyasint,omitempty"`
	Str    string        `cbor:"6,keyasint,omitempty"`
	Flag   bool          `cbor:"7,keyasint,omitempty"`
	Kids   []*wireNode   `cbor:"8,keyasint,omitempty"`
	Lists  [][]*wireNode `cbor:"9,keyasint,omitempty"`
}

func encodeSpan(s token.Span) *wireSpan {
	if s.IsZero() {
		return nil
	}
	return &wireSpan{File: s.File, Start: s.Start, End: s.End, Line: s.Line, Column: s.Column}
}

func decodeSpan(w *wireSpan) token.Span {
	if w == nil {
		return token.Span{}
	}
	return token.Span{File: w.File, Start: w.Start, End: w.End, Line: w.Line, Column: w.Column}
}

// encodeNode はノードをワイヤ表現に変換する。nil は nil になる。
func encodeNode(n ast.Node) *wireNode {
	switch n := n.(type) {

	case nil:
		return nil

	case *ast.Identifier:
		return encodeIdent(n)

	case *ast.Literal:
		return &wireNode{Kind: kindLiteral, Span: encodeSpan(n.Span), Lit: int(n.Kind), Number: n.Number, Str: n.Str, Flag: n.Bool}

	case *ast.Gensym:
		return &wireNode{Kind: kindGensym, Span: encodeSpan(n.Span), Str: n.Prefix}

	case *ast.LetStar:
		bindings := make([]*wireNode, 0, len(n.Bindings))
		for _, b := range n.Bindings {
			if b == nil || b.Name == nil {
				continue
			}
			bindings = append(bindings, &wireNode{Kind: kindBinding, Kids: []*wireNode{encodeIdent(b.Name), encodeNode(b.Init)}})
		}
		return &wireNode{Kind: kindLetStar, Span: encodeSpan(n.Span), Flag: n.IsConst, Lists: [][]*wireNode{bindings, encodeList(n.Body)}}

	case *ast.If:
		return &wireNode{Kind: kindIf, Span: encodeSpan(n.Span), Kids: kids(n.Cond, n.Then, n.Else)}

	case *ast.While:
		return &wireNode{Kind: kindWhile, Span: encodeSpan(n.Span), Kids: kids(n.Cond), Lists: [][]*wireNode{encodeList(n.Body)}}

	case *ast.For:
		return &wireNode{Kind: kindFor, Span: encodeSpan(n.Span), Kids: kids(n.Init, n.Cond, n.Update), Lists: [][]*wireNode{encodeList(n.Body)}}

	case *ast.Return:
		return &wireNode{Kind: kindReturn, Span: encodeSpan(n.Span), Kids: kids(n.Value)}

	case *ast.Throw:
		return &wireNode{Kind: kindThrow, Span: encodeSpan(n.Span), Kids: kids(n.Value)}

	case *ast.TryCatch:
		return &wireNode{
			Kind:  kindTry,
			Span:  encodeSpan(n.Span),
			Kids:  []*wireNode{encodeIdent(n.CatchParam)},
			Lists: [][]*wireNode{encodeList(n.TryBody), encodeList(n.CatchBody), encodeList(n.FinallyBody)},
		}

	case *ast.Block:
		return &wireNode{Kind: kindBlock, Span: encodeSpan(n.Span), Lists: [][]*wireNode{encodeList(n.Body)}}

	case *ast.Call:
		return &wireNode{Kind: kindCall, Span: encodeSpan(n.Span), Kids: kids(n.Callee), Lists: [][]*wireNode{encodeList(n.Args)}}

	case *ast.Prop:
		return &wireNode{Kind: kindProp, Span: encodeSpan(n.Span), Name: n.Name, Kids: kids(n.Object)}

	case *ast.Index:
		return &wireNode{Kind: kindIndex, Span: encodeSpan(n.Span), Kids: kids(n.Object, n.Index)}

	case *ast.Assign:
		return &wireNode{Kind: kindAssign, Span: encodeSpan(n.Span), Kids: kids(n.Target, n.Value)}

	case *ast.Array:
		return &wireNode{Kind: kindArray, Span: encodeSpan(n.Span), Lists: [][]*wireNode{encodeList(n.Elements)}}

	case *ast.Object:
		fields := make([]*wireNode, 0, len(n.Fields))
		for _, f := range n.Fields {
			if f == nil {
				continue
			}
			fields = append(fields, &wireNode{Kind: kindField, Kids: kids(f.Key, f.Value)})
		}
		return &wireNode{Kind: kindObject, Span: encodeSpan(n.Span), Lists: [][]*wireNode{fields}}

	case *ast.New:
		return &wireNode{Kind: kindNew, Span: encodeSpan(n.Span), Kids: kids(n.Callee), Lists: [][]*wireNode{encodeList(n.Args)}}

	case *ast.Function:
		return encodeFunction(n)

	case *ast.Class:
		fields := make([]*wireNode, 0, len(n.Fields))
		for _, f := range n.Fields {
			if f == nil || f.Name == nil {
				continue
			}
			fields = append(fields, &wireNode{Kind: kindClassField, Kids: []*wireNode{encodeIdent(f.Name), encodeNode(f.Value)}})
		}
		methods := make([]*wireNode, 0, len(n.Methods))
		for _, m := range n.Methods {
			if m == nil {
				continue
			}
			methods = append(methods, encodeFunction(m))
		}
		return &wireNode{
			Kind:  kindClass,
			Span:  encodeSpan(n.Span),
			Kids:  []*wireNode{encodeIdent(n.Name), encodeNode(n.Super)},
			Lists: [][]*wireNode{fields, methods},
		}

	case *ast.TypeAssert:
		return &wireNode{Kind: kindTypeAssert, Span: encodeSpan(n.Span), Kids: []*wireNode{encodeNode(n.Expr), encodeType(n.Type)}}

	case *ast.Quote:
		return &wireNode{Kind: kindQuote, Span: encodeSpan(n.Span), Kids: kids(n.Expr)}

	case *ast.Unquote:
		return &wireNode{Kind: kindUnquote, Span: encodeSpan(n.Span), Kids: kids(n.Expr)}

	case *ast.UnquoteSplice:
		return &wireNode{Kind: kindUnquoteSplice, Span: encodeSpan(n.Span), Kids: kids(n.Expr)}

	case *ast.MacroDef:
		return &wireNode{
			Kind:  kindMacroDef,
			Span:  encodeSpan(n.Span),
			Kids:  []*wireNode{encodeIdent(n.Name)},
			Lists: [][]*wireNode{encodeIdents(n.Params), encodeList(n.Body)},
		}

	case *ast.TypeAlias:
		return &wireNode{Kind: kindTypeAlias, Span: encodeSpan(n.Span), Kids: []*wireNode{encodeIdent(n.Name), encodeType(n.Type)}}

	case *ast.Import:
		return &wireNode{Kind: kindImport, Span: encodeSpan(n.Span), Str: n.Source, Lists: [][]*wireNode{encodeIdents(n.Names)}}

	case *ast.Export:
		return &wireNode{Kind: kindExport, Span: encodeSpan(n.Span), Lists: [][]*wireNode{encodeIdents(n.Names)}}
	}

	return nil
}

// kids は位置が決まった子を並べる。省略された子は nil のまま残す。
func kids(nodes ...ast.Node) []*wireNode {
	out := make([]*wireNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, encodeNode(n))
	}
	return out
}

// encodeList は子の列を変換する。列の中の nil は書き出さない。
func encodeList(nodes []ast.Node) []*wireNode {
	out := make([]*wireNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, encodeNode(n))
	}
	return out
}

func encodeIdent(id *ast.Identifier) *wireNode {
	if id == nil {
		return nil
	}
	return &wireNode{Kind: kindIdentifier, Span: encodeSpan(id.Span), Name: id.Name}
}

func encodeIdents(ids []*ast.Identifier) []*wireNode {
	out := make([]*wireNode, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		out = append(out, encodeIdent(id))
	}
	return out
}

func encodeFunction(fn *ast.Function) *wireNode {
	return &wireNode{
		Kind:  kindFunction,
		Span:  encodeSpan(fn.Span),
		Kids:  []*wireNode{encodeIdent(fn.Name)},
		Lists: [][]*wireNode{encodeIdents(fn.Params), encodeList(fn.Body)},
	}
}

func encodeType(t *ast.TypeRef) *wireNode {
	if t == nil {
		return nil
	}
	args := make([]*wireNode, 0, len(t.Args))
	for _, a := range t.Args {
		args = append(args, encodeType(a))
	}
	return &wireNode{Kind: kindType, Name: t.Name, Lists: [][]*wireNode{args}}
}
