// modify.go は AST変換関数 Modify と、その土台になる Rebuild・Walk を提供する。
// Modify は ASTノードを再帰的に走査し、各ノードに modifier 関数を適用する。
// マクロ展開器の構造的な展開、置換、トップレベル quote の gensym 置換で使用される。
//
// 元の木は書き換えない。子を持つノードは必ず新しく作り直される。
package ast

// ModifierFunc はASTノードを受け取り、変換後のノードを返す関数の型。
// 列の要素に対して nil を返すと、その要素は列から取り除かれる。
type ModifierFunc func(Node) Node

// Modify はASTノードを再帰的に走査し、各ノードに modifier を適用する。
// 子ノードを先に変換してから親ノードを変換する（ボトムアップ走査）。
func Modify(node Node, modifier ModifierFunc) Node {
	if node == nil {
		return nil
	}
	rebuilt := Rebuild(node, func(child Node) Node {
		return Modify(child, modifier)
	})
	return modifier(rebuilt)
}

// ModifyProgram はプログラムの各フォームに Modify を適用した新しいプログラムを返す。
func ModifyProgram(program *Program, modifier ModifierFunc) *Program {
	return &Program{File: program.File, Body: mapList(program.Body, func(n Node) Node {
		return Modify(n, modifier)
	})}
}

// Rebuild は node の直接の子それぞれに f を適用し、新しいノードを作って返す。
// 再帰はしない。再帰するかどうかは f が決める。
//
// 束縛位置の識別子（let の名前、仮引数、関数名、catch の引数、クラス名、
// import/export の名前）にも f を適用するが、結果が識別子でなければ元の名前を残す。
// 子を持たないノード（Identifier, Literal, Gensym）は複製して返す。
func Rebuild(node Node, f ModifierFunc) Node {
	switch node := node.(type) {

	case nil:
		return nil

	case *Identifier, *Literal, *Gensym:
		return Clone(node)

	case *LetStar:
		bindings := make([]*Binding, 0, len(node.Bindings))
		for _, b := range node.Bindings {
			bindings = append(bindings, &Binding{Name: binder(b.Name, f), Init: f(b.Init)})
		}
		return &LetStar{Span: node.Span, IsConst: node.IsConst, Bindings: bindings, Body: mapList(node.Body, f)}

	case *If:
		return &If{Span: node.Span, Cond: f(node.Cond), Then: f(node.Then), Else: optional(node.Else, f)}

	case *While:
		return &While{Span: node.Span, Cond: f(node.Cond), Body: mapList(node.Body, f)}

	case *For:
		return &For{
			Span:   node.Span,
			Init:   optional(node.Init, f),
			Cond:   optional(node.Cond, f),
			Update: optional(node.Update, f),
			Body:   mapList(node.Body, f),
		}

	case *Return:
		return &Return{Span: node.Span, Value: optional(node.Value, f)}

	case *Throw:
		return &Throw{Span: node.Span, Value: f(node.Value)}

	case *TryCatch:
		return &TryCatch{
			Span:        node.Span,
			TryBody:     mapList(node.TryBody, f),
			CatchParam:  binder(node.CatchParam, f),
			CatchBody:   mapList(node.CatchBody, f),
			FinallyBody: mapList(node.FinallyBody, f),
		}

	case *Block:
		return &Block{Span: node.Span, Body: mapList(node.Body, f)}

	case *Call:
		return &Call{Span: node.Span, Callee: f(node.Callee), Args: mapList(node.Args, f)}

	case *Prop:
		return &Prop{Span: node.Span, Object: f(node.Object), Name: node.Name}

	case *Index:
		return &Index{Span: node.Span, Object: f(node.Object), Index: f(node.Index)}

	case *Assign:
		return &Assign{Span: node.Span, Target: f(node.Target), Value: f(node.Value)}

	case *Array:
		return &Array{Span: node.Span, Elements: mapList(node.Elements, f)}

	case *Object:
		fields := make([]*Field, 0, len(node.Fields))
		for _, fd := range node.Fields {
			fields = append(fields, &Field{Key: f(fd.Key), Value: f(fd.Value)})
		}
		return &Object{Span: node.Span, Fields: fields}

	case *New:
		return &New{Span: node.Span, Callee: f(node.Callee), Args: mapList(node.Args, f)}

	case *Function:
		return rebuildFunction(node, f)

	case *Class:
		fields := make([]*ClassField, 0, len(node.Fields))
		for _, fd := range node.Fields {
			fields = append(fields, &ClassField{Name: binder(fd.Name, f), Value: optional(fd.Value, f)})
		}
		methods := make([]*Function, 0, len(node.Methods))
		for _, m := range node.Methods {
			methods = append(methods, rebuildFunction(m, f))
		}
		return &Class{
			Span:    node.Span,
			Name:    binder(node.Name, f),
			Super:   optional(node.Super, f),
			Fields:  fields,
			Methods: methods,
		}

	case *TypeAssert:
		return &TypeAssert{Span: node.Span, Expr: f(node.Expr), Type: CloneType(node.Type)}

	case *Quote:
		return &Quote{Span: node.Span, Expr: f(node.Expr)}

	case *Unquote:
		return &Unquote{Span: node.Span, Expr: f(node.Expr)}

	case *UnquoteSplice:
		return &UnquoteSplice{Span: node.Span, Expr: f(node.Expr)}

	case *MacroDef:
		return &MacroDef{Span: node.Span, Name: binder(node.Name, f), Params: binders(node.Params, f), Body: mapList(node.Body, f)}

	case *TypeAlias:
		return &TypeAlias{Span: node.Span, Name: binder(node.Name, f), Type: CloneType(node.Type)}

	case *Import:
		return &Import{Span: node.Span, Names: binders(node.Names, f), Source: node.Source}

	case *Export:
		return &Export{Span: node.Span, Names: binders(node.Names, f)}
	}

	return node
}

// Walk は node を行きがけ順で訪問する。visit が false を返すと子には降りない。
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	Rebuild(node, func(child Node) Node {
		Walk(child, visit)
		return child
	})
}

func mapList(nodes []Node, f ModifierFunc) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if m := f(n); m != nil {
			out = append(out, m)
		}
	}
	return out
}

func optional(n Node, f ModifierFunc) Node {
	if n == nil {
		return nil
	}
	return f(n)
}

func binder(id *Identifier, f ModifierFunc) *Identifier {
	if id == nil {
		return nil
	}
	if m, ok := f(id).(*Identifier); ok && m != nil {
		return m
	}
	return cloneIdent(id)
}

func binders(ids []*Identifier, f ModifierFunc) []*Identifier {
	if ids == nil {
		return nil
	}
	out := make([]*Identifier, len(ids))
	for i, id := range ids {
		out[i] = binder(id, f)
	}
	return out
}

func rebuildFunction(fn *Function, f ModifierFunc) *Function {
	if fn == nil {
		return nil
	}
	return &Function{Span: fn.Span, Name: binder(fn.Name, f), Params: binders(fn.Params, f), Body: mapList(fn.Body, f)}
}
