package astcodec

import (
	"fmt"

	"github.com/raould/t2lang-sub002/ast"
)

// decoder はワイヤ表現からASTを組み立てる。最初に見つけたエラーだけを保持し、
// それ以降の変換結果は使われない。
type decoder struct {
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

// kid は i 番目の位置の子を返す。足りなければ nil。
func kid(w *wireNode, i int) *wireNode {
	if i < len(w.Kids) {
		return w.Kids[i]
	}
	return nil
}

// list は i 番目の列を返す。足りなければ空。
func list(w *wireNode, i int) []*wireNode {
	if i < len(w.Lists) {
		return w.Lists[i]
	}
	return nil
}

func (d *decoder) node(w *wireNode) ast.Node {
	if w == nil || d.err != nil {
		return nil
	}
	span := decodeSpan(w.Span)

	switch w.Kind {

	case kindIdentifier:
		return &ast.Identifier{Span: span, Name: w.Name}

	case kindLiteral:
		kind := ast.LiteralKind(w.Lit)
		if kind < ast.NumberLiteral || kind > ast.UndefinedLiteral {
			d.fail("unknown literal kind %d", w.Lit)
			return nil
		}
		return &ast.Literal{Span: span, Kind: kind, Number: w.Number, Str: w.Str, Bool: w.Flag}

	case kindGensym:
		return &ast.Gensym{Span: span, Prefix: w.Str}

	case kindLetStar:
		bindings := make([]*ast.Binding, 0, len(list(w, 0)))
		for _, b := range list(w, 0) {
			if b == nil || b.Kind != kindBinding {
				d.fail("let* binding expected")
				return nil
			}
			bindings = append(bindings, &ast.Binding{Name: d.name(kid(b, 0), "binding"), Init: d.node(kid(b, 1))})
		}
		return &ast.LetStar{Span: span, IsConst: w.Flag, Bindings: bindings, Body: d.nodes(list(w, 1))}

	case kindIf:
		return &ast.If{Span: span, Cond: d.node(kid(w, 0)), Then: d.node(kid(w, 1)), Else: d.node(kid(w, 2))}

	case kindWhile:
		return &ast.While{Span: span, Cond: d.node(kid(w, 0)), Body: d.nodes(list(w, 0))}

	case kindFor:
		return &ast.For{Span: span, Init: d.node(kid(w, 0)), Cond: d.node(kid(w, 1)), Update: d.node(kid(w, 2)), Body: d.nodes(list(w, 0))}

	case kindReturn:
		return &ast.Return{Span: span, Value: d.node(kid(w, 0))}

	case kindThrow:
		return &ast.Throw{Span: span, Value: d.node(kid(w, 0))}

	case kindTry:
		return &ast.TryCatch{
			Span:        span,
			TryBody:     d.nodes(list(w, 0)),
			CatchParam:  d.ident(kid(w, 0)),
			CatchBody:   d.nodes(list(w, 1)),
			FinallyBody: d.nodes(list(w, 2)),
		}

	case kindBlock:
		return &ast.Block{Span: span, Body: d.nodes(list(w, 0))}

	case kindCall:
		return &ast.Call{Span: span, Callee: d.node(kid(w, 0)), Args: d.nodes(list(w, 0))}

	case kindProp:
		return &ast.Prop{Span: span, Object: d.node(kid(w, 0)), Name: w.Name}

	case kindIndex:
		return &ast.Index{Span: span, Object: d.node(kid(w, 0)), Index: d.node(kid(w, 1))}

	case kindAssign:
		return &ast.Assign{Span: span, Target: d.node(kid(w, 0)), Value: d.node(kid(w, 1))}

	case kindArray:
		return &ast.Array{Span: span, Elements: d.nodes(list(w, 0))}

	case kindObject:
		fields := make([]*ast.Field, 0, len(list(w, 0)))
		for _, f := range list(w, 0) {
			if f == nil || f.Kind != kindField {
				d.fail("object field expected")
				return nil
			}
			fields = append(fields, &ast.Field{Key: d.node(kid(f, 0)), Value: d.node(kid(f, 1))})
		}
		return &ast.Object{Span: span, Fields: fields}

	case kindNew:
		return &ast.New{Span: span, Callee: d.node(kid(w, 0)), Args: d.nodes(list(w, 0))}

	case kindFunction:
		return d.function(w)

	case kindClass:
		fields := make([]*ast.ClassField, 0, len(list(w, 0)))
		for _, f := range list(w, 0) {
			if f == nil || f.Kind != kindClassField {
				d.fail("class field expected")
				return nil
			}
			fields = append(fields, &ast.ClassField{Name: d.name(kid(f, 0), "class field"), Value: d.node(kid(f, 1))})
		}
		methods := make([]*ast.Function, 0, len(list(w, 1)))
		for _, m := range list(w, 1) {
			if m == nil || m.Kind != kindFunction {
				d.fail("class method expected")
				return nil
			}
			methods = append(methods, d.function(m))
		}
		return &ast.Class{Span: span, Name: d.name(kid(w, 0), "class"), Super: d.node(kid(w, 1)), Fields: fields, Methods: methods}

	case kindTypeAssert:
		return &ast.TypeAssert{Span: span, Expr: d.node(kid(w, 0)), Type: d.typeRef(kid(w, 1))}

	case kindQuote:
		return &ast.Quote{Span: span, Expr: d.node(kid(w, 0))}

	case kindUnquote:
		return &ast.Unquote{Span: span, Expr: d.node(kid(w, 0))}

	case kindUnquoteSplice:
		return &ast.UnquoteSplice{Span: span, Expr: d.node(kid(w, 0))}

	case kindMacroDef:
		return &ast.MacroDef{Span: span, Name: d.name(kid(w, 0), "defmacro"), Params: d.idents(list(w, 0)), Body: d.nodes(list(w, 1))}

	case kindTypeAlias:
		return &ast.TypeAlias{Span: span, Name: d.name(kid(w, 0), "type alias"), Type: d.typeRef(kid(w, 1))}

	case kindImport:
		return &ast.Import{Span: span, Names: d.idents(list(w, 0)), Source: w.Str}

	case kindExport:
		return &ast.Export{Span: span, Names: d.idents(list(w, 0))}
	}

	d.fail("unknown node kind %q", w.Kind)
	return nil
}

// nodes は子の列を変換する。列の要素に null は許さない。
func (d *decoder) nodes(ws []*wireNode) []ast.Node {
	out := make([]ast.Node, 0, len(ws))
	for _, w := range ws {
		if w == nil {
			d.fail("null entry in a sequence")
			return nil
		}
		out = append(out, d.node(w))
	}
	return out
}

func (d *decoder) ident(w *wireNode) *ast.Identifier {
	if w == nil {
		return nil
	}
	if w.Kind != kindIdentifier {
		d.fail("identifier expected, got %q", w.Kind)
		return nil
	}
	return &ast.Identifier{Span: decodeSpan(w.Span), Name: w.Name}
}

// name は省略できない名前の位置の識別子を変換する。
func (d *decoder) name(w *wireNode, of string) *ast.Identifier {
	if w == nil {
		d.fail("%s name expected", of)
		return nil
	}
	return d.ident(w)
}

func (d *decoder) idents(ws []*wireNode) []*ast.Identifier {
	out := make([]*ast.Identifier, 0, len(ws))
	for _, w := range ws {
		if w == nil {
			d.fail("null entry in a name list")
			return nil
		}
		out = append(out, d.ident(w))
	}
	return out
}

func (d *decoder) function(w *wireNode) *ast.Function {
	return &ast.Function{
		Span:   decodeSpan(w.Span),
		Name:   d.ident(kid(w, 0)),
		Params: d.idents(list(w, 0)),
		Body:   d.nodes(list(w, 1)),
	}
}

func (d *decoder) typeRef(w *wireNode) *ast.TypeRef {
	if w == nil {
		return nil
	}
	if w.Kind != kindType {
		d.fail("type expected, got %q", w.Kind)
		return nil
	}
	args := make([]*ast.TypeRef, 0, len(list(w, 0)))
	for _, a := range list(w, 0) {
		args = append(args, d.typeRef(a))
	}
	return &ast.TypeRef{Name: w.Name, Args: args}
}
