// clone.go はASTの深いコピーを提供する。
// マクロの引数を展開先に埋め込むとき、同じ部分木を複数の場所で共有すると
// 後段の書き換えが別の展開結果まで壊してしまうので、必ず複製して使う。
package ast

// Clone は n の深いコピーを返す。nil はそのまま nil を返す。
// Gensym の複製は元のノードを origin として持つ。
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil

	case *Identifier:
		if n == nil {
			return nil
		}
		return cloneIdent(n)

	case *Literal:
		c := *n
		return &c

	case *Gensym:
		return &Gensym{Span: n.Span, Prefix: n.Prefix, origin: n.Origin()}

	case *LetStar:
		bindings := make([]*Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = &Binding{Name: cloneIdent(b.Name), Init: Clone(b.Init)}
		}
		return &LetStar{Span: n.Span, IsConst: n.IsConst, Bindings: bindings, Body: CloneList(n.Body)}

	case *If:
		return &If{Span: n.Span, Cond: Clone(n.Cond), Then: Clone(n.Then), Else: Clone(n.Else)}

	case *While:
		return &While{Span: n.Span, Cond: Clone(n.Cond), Body: CloneList(n.Body)}

	case *For:
		return &For{
			Span:   n.Span,
			Init:   Clone(n.Init),
			Cond:   Clone(n.Cond),
			Update: Clone(n.Update),
			Body:   CloneList(n.Body),
		}

	case *Return:
		return &Return{Span: n.Span, Value: Clone(n.Value)}

	case *Throw:
		return &Throw{Span: n.Span, Value: Clone(n.Value)}

	case *TryCatch:
		return &TryCatch{
			Span:        n.Span,
			TryBody:     CloneList(n.TryBody),
			CatchParam:  cloneIdent(n.CatchParam),
			CatchBody:   CloneList(n.CatchBody),
			FinallyBody: CloneList(n.FinallyBody),
		}

	case *Block:
		return &Block{Span: n.Span, Body: CloneList(n.Body)}

	case *Call:
		return &Call{Span: n.Span, Callee: Clone(n.Callee), Args: CloneList(n.Args)}

	case *Prop:
		return &Prop{Span: n.Span, Object: Clone(n.Object), Name: n.Name}

	case *Index:
		return &Index{Span: n.Span, Object: Clone(n.Object), Index: Clone(n.Index)}

	case *Assign:
		return &Assign{Span: n.Span, Target: Clone(n.Target), Value: Clone(n.Value)}

	case *Array:
		return &Array{Span: n.Span, Elements: CloneList(n.Elements)}

	case *Object:
		fields := make([]*Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = &Field{Key: Clone(f.Key), Value: Clone(f.Value)}
		}
		return &Object{Span: n.Span, Fields: fields}

	case *New:
		return &New{Span: n.Span, Callee: Clone(n.Callee), Args: CloneList(n.Args)}

	case *Function:
		return cloneFunction(n)

	case *Class:
		fields := make([]*ClassField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = &ClassField{Name: cloneIdent(f.Name), Value: Clone(f.Value)}
		}
		methods := make([]*Function, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = cloneFunction(m)
		}
		return &Class{Span: n.Span, Name: cloneIdent(n.Name), Super: Clone(n.Super), Fields: fields, Methods: methods}

	case *TypeAssert:
		return &TypeAssert{Span: n.Span, Expr: Clone(n.Expr), Type: CloneType(n.Type)}

	case *Quote:
		return &Quote{Span: n.Span, Expr: Clone(n.Expr)}

	case *Unquote:
		return &Unquote{Span: n.Span, Expr: Clone(n.Expr)}

	case *UnquoteSplice:
		return &UnquoteSplice{Span: n.Span, Expr: Clone(n.Expr)}

	case *MacroDef:
		return &MacroDef{Span: n.Span, Name: cloneIdent(n.Name), Params: CloneIdents(n.Params), Body: CloneList(n.Body)}

	case *TypeAlias:
		return &TypeAlias{Span: n.Span, Name: cloneIdent(n.Name), Type: CloneType(n.Type)}

	case *Import:
		return &Import{Span: n.Span, Names: CloneIdents(n.Names), Source: n.Source}

	case *Export:
		return &Export{Span: n.Span, Names: CloneIdents(n.Names)}
	}

	return n
}

// CloneList はノード列の各要素を複製する。
func CloneList(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// CloneIdents は識別子列を複製する。
func CloneIdents(ids []*Identifier) []*Identifier {
	if ids == nil {
		return nil
	}
	out := make([]*Identifier, len(ids))
	for i, id := range ids {
		out[i] = cloneIdent(id)
	}
	return out
}

// CloneType は型式を複製する。
func CloneType(t *TypeRef) *TypeRef {
	if t == nil {
		return nil
	}
	args := make([]*TypeRef, len(t.Args))
	for i, a := range t.Args {
		args[i] = CloneType(a)
	}
	if len(args) == 0 {
		args = nil
	}
	return &TypeRef{Name: t.Name, Args: args}
}

// CloneProgram はプログラム全体を複製する。
func CloneProgram(p *Program) *Program {
	return &Program{File: p.File, Body: CloneList(p.Body)}
}

func cloneIdent(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	return &Identifier{Span: id.Span, Name: id.Name}
}

func cloneFunction(f *Function) *Function {
	if f == nil {
		return nil
	}
	return &Function{Span: f.Span, Name: cloneIdent(f.Name), Params: CloneIdents(f.Params), Body: CloneList(f.Body)}
}
