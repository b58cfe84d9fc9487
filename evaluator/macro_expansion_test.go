package evaluator

import (
	"errors"
	"testing"

	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/token"
)

func TestExpandMacroFreeProgramIsUnchanged(t *testing.T) {
	a := ast.Ident("a")
	forms := []ast.Node{
		&ast.LetStar{Bindings: []*ast.Binding{bind("a", ast.Num(1))}, Body: []ast.Node{call("+", a, ast.Num(2))}},
		&ast.If{Cond: ast.Bool(true), Then: ast.Str("yes"), Else: ast.Null()},
		&ast.Function{
			Name:   ast.Ident("f"),
			Params: []*ast.Identifier{ast.Ident("x")},
			Body:   []ast.Node{&ast.Return{Value: call("*", ast.Ident("x"), ast.Num(2))}},
		},
		&ast.While{Cond: ast.Ident("running"), Body: []ast.Node{&ast.Assign{Target: ast.Ident("n"), Value: call("-", ast.Ident("n"), ast.Num(1))}}},
		&ast.For{Init: &ast.Assign{Target: ast.Ident("i"), Value: ast.Num(0)}, Cond: call("<", ast.Ident("i"), ast.Num(3)), Body: []ast.Node{call("log", ast.Ident("i"))}},
		&ast.TryCatch{TryBody: []ast.Node{call("risky")}, CatchParam: ast.Ident("e"), CatchBody: []ast.Node{&ast.Throw{Value: ast.Ident("e")}}, FinallyBody: []ast.Node{call("done")}},
		&ast.Class{
			Name:    ast.Ident("Point"),
			Super:   ast.Ident("Base"),
			Fields:  []*ast.ClassField{{Name: ast.Ident("x"), Value: ast.Num(0)}},
			Methods: []*ast.Function{{Name: ast.Ident("getX"), Body: []ast.Node{&ast.Prop{Object: ast.Ident("this"), Name: "x"}}}},
		},
		&ast.Object{Fields: []*ast.Field{{Key: ast.Str("k"), Value: ast.ArrayOf(ast.Num(1), ast.Undefined())}}},
		&ast.New{Callee: ast.Ident("Point"), Args: []ast.Node{ast.Num(1)}},
		&ast.Index{Object: ast.Ident("xs"), Index: ast.Num(0)},
		&ast.TypeAssert{Expr: ast.Ident("v"), Type: &ast.TypeRef{Name: "number"}},
		&ast.Block{Body: []ast.Node{ast.Ident("a"), ast.Ident("b")}},
		&ast.TypeAlias{Name: ast.Ident("ID"), Type: &ast.TypeRef{Name: "string"}},
		&ast.Import{Names: []*ast.Identifier{ast.Ident("readFile")}, Source: "fs"},
		&ast.Export{Names: []*ast.Identifier{ast.Ident("f")}},
	}
	program := &ast.Program{Body: forms}
	before := program.String()

	expanded, _ := testExpand(t, forms...)

	if expanded.String() != before {
		t.Errorf("macro-free program changed.\nwant=%q\ngot =%q", before, expanded.String())
	}
}

func TestHygiene(t *testing.T) {
	// (defmacro m () (let* ((x (gensym "t"))) (quote (array ~x ~x))))
	// (m) (m) t
	m := defmacro("m", nil,
		letStar([]*ast.Binding{bind("x", call("gensym", ast.Str("t")))},
			quote(call("array", unquote("x"), unquote("x")))))

	expanded, _ := testExpand(t, m, call("m"), call("m"), ast.Ident("t"))

	expected := "(array t1 t1)\n(array t2 t2)\nt"
	if expanded.String() != expected {
		t.Fatalf("hygiene wrong.\nwant=%q\ngot =%q", expected, expanded.String())
	}

	first := expanded.Body[0].(*ast.Array)
	if first.Elements[0] == first.Elements[1] {
		t.Errorf("both occurrences share one node instance")
	}
	assertCoreGrammar(t, expanded)
}

func TestGensymSkipsUserIdentifiers(t *testing.T) {
	m := defmacro("m", nil, call("gensym", ast.Str("t")))

	expanded, _ := testExpand(t, m, ast.Ident("t1"), call("m"))

	if expanded.String() != "t1\nt2" {
		t.Errorf("generated name collides with a user identifier. got=%q", expanded.String())
	}
}

func TestGensymDefaultPrefix(t *testing.T) {
	m := defmacro("fresh", nil, call("gensym"))

	expanded, _ := testExpand(t, m, call("fresh"), call("fresh"))

	if expanded.String() != "G__1\nG__2" {
		t.Errorf("default gensym prefix wrong. got=%q", expanded.String())
	}

	e := New(Options{GensymPrefix: "tmp_"})
	out, err := e.ExpandProgram(&ast.Program{Body: []ast.Node{m, call("fresh")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "tmp_1" {
		t.Errorf("configured gensym prefix ignored. got=%q", out.String())
	}
}

func TestGensymNodeIsStableWithinOneInvocation(t *testing.T) {
	g := &ast.Gensym{Prefix: "tmp"}
	twice := defmacro("twice", nil, quote(call("array", g, g)))

	v := &ast.Gensym{Prefix: "v"}
	bound := defmacro("bound", nil,
		letStar([]*ast.Binding{bind("x", v)},
			quote(call("f", unquote("x"), unquote("x")))))

	expanded, _ := testExpand(t, twice, bound, call("twice"), call("twice"), call("bound"))

	expected := "(array tmp1 tmp1)\n(array tmp2 tmp2)\n(f v3 v3)"
	if expanded.String() != expected {
		t.Errorf("gensym caching wrong.\nwant=%q\ngot =%q", expected, expanded.String())
	}
}

func TestSpliceInArray(t *testing.T) {
	// (defmacro cat (a b) (quote (array ~@a ~@b)))
	cat := defmacro("cat", []string{"a", "b"}, quote(call("array", unquoteSplice("a"), unquoteSplice("b"))))

	expanded, _ := testExpand(t, cat, call("cat", ast.ArrayOf(nums(1, 2)...), ast.ArrayOf(nums(3, 4)...)))

	arr, ok := expanded.Body[0].(*ast.Array)
	if !ok {
		t.Fatalf("expansion is not *ast.Array. got=%T", expanded.Body[0])
	}
	if len(arr.Elements) != 4 {
		t.Fatalf("wrong number of elements. got=%d", len(arr.Elements))
	}
	if arr.String() != "(array 1 2 3 4)" {
		t.Errorf("splice wrong. got=%q", arr.String())
	}
}

func TestSpliceInCallArguments(t *testing.T) {
	// (defmacro lg (xs) (quote (call f ~@xs)))
	lg := defmacro("lg", []string{"xs"}, quote(call("call", ast.Ident("f"), unquoteSplice("xs"))))

	expanded, _ := testExpand(t, lg, call("lg", ast.ArrayOf(nums(1, 2, 3)...)))

	c, ok := expanded.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("expansion is not *ast.Call. got=%T", expanded.Body[0])
	}
	if name, _ := ast.IdentName(c.Callee); name != "f" || len(c.Args) != 3 {
		t.Errorf("call wrong. got=%q", c.String())
	}
	if c.String() != "(f 1 2 3)" {
		t.Errorf("splice wrong. got=%q", c.String())
	}
}

func TestSpliceInOtherSequences(t *testing.T) {
	progn := defmacro("progn", []string{"forms"}, quote(call("block", unquoteSplice("forms"))))
	mk := defmacro("mk", []string{"C", "xs"}, quote(call("new", unquote("C"), unquoteSplice("xs"))))
	bindall := defmacro("bindall", []string{"binds", "body"},
		quote(call("let*", ast.CallOf(&ast.UnquoteSplice{Expr: ast.Ident("binds")}), unquote("body"))))
	bare := defmacro("bare", []string{"xs"}, quote(unquoteSplice("xs")))
	single := defmacro("single", []string{"x"}, quote(call("f", unquoteSplice("x"))))
	bareCall := defmacro("barecall", []string{"xs"}, call("quote", unquoteSplice("xs")))

	tests := []struct {
		input    ast.Node
		expected string
	}{
		{call("progn", ast.ArrayOf(call("f"), call("g"))), "(block (f) (g))"},
		{call("mk", ast.Ident("Foo"), ast.ArrayOf(nums(1, 2)...)), "(new Foo 1 2)"},
		{call("bindall", ast.ArrayOf(call("a", ast.Num(1)), call("b", ast.Num(2))), call("+", ast.Ident("a"), ast.Ident("b"))),
			"(let* ((a 1) (b 2)) (+ a b))"},
		{call("bare", ast.ArrayOf(nums(1, 2)...)), "(array 1 2)"},
		{call("bare", ast.ArrayOf(ast.Num(5))), "(array 5)"},
		{call("bare", ast.Num(5)), "(array 5)"},
		{call("bare", ast.ArrayOf()), "(array)"},
		{call("barecall", ast.ArrayOf(ast.Num(5))), "(array 5)"},
		{call("single", ast.Num(7)), "(f 7)"},
	}

	for _, tt := range tests {
		expanded, _ := testExpand(t, progn, mk, bindall, bare, single, bareCall, tt.input)
		if expanded.String() != tt.expected {
			t.Errorf("splice wrong for %s. want=%q, got=%q", tt.input, tt.expected, expanded.String())
		}
		assertCoreGrammar(t, expanded)
	}
}

func TestRecursiveMacroExpansion(t *testing.T) {
	// (defmacro inc (x) (+ x 1)) (defmacro double (x) (* x 2)) (double (inc 5))
	inc := defmacro("inc", []string{"x"}, call("+", ast.Ident("x"), ast.Num(1)))
	double := defmacro("double", []string{"x"}, call("*", ast.Ident("x"), ast.Num(2)))

	expanded, _ := testExpand(t, inc, double, call("double", call("inc", ast.Num(5))))

	if expanded.String() != "(* (+ 5 1) 2)" {
		t.Errorf("recursive expansion wrong. got=%q", expanded.String())
	}
}

func TestMacroProducingMacroCall(t *testing.T) {
	inc := defmacro("inc", []string{"x"}, call("+", ast.Ident("x"), ast.Num(1)))
	inc2 := defmacro("inc2", []string{"x"}, quote(call("inc", call("inc", unquote("x")))))

	expanded, _ := testExpand(t, inc, inc2, call("inc2", ast.Num(5)))

	if expanded.String() != "(+ (+ 5 1) 1)" {
		t.Errorf("expansion result was not re-expanded. got=%q", expanded.String())
	}
}

func TestIdentifiersInsideQuoteAreLiteral(t *testing.T) {
	// (defmacro m (x) (quote (array x ~x))) (m 7)
	m := defmacro("m", []string{"x"}, quote(call("array", ast.Ident("x"), unquote("x"))))

	expanded, _ := testExpand(t, m, call("m", ast.Num(7)))

	arr, ok := expanded.Body[0].(*ast.Array)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expansion wrong. got=%q", expanded.String())
	}
	if name, ok := ast.IdentName(arr.Elements[0]); !ok || name != "x" {
		t.Errorf("first element must be the identifier x. got=%s", arr.Elements[0])
	}
	if lit, ok := arr.Elements[1].(*ast.Literal); !ok || lit.Number != 7 {
		t.Errorf("second element must be the literal 7. got=%s", arr.Elements[1])
	}
}

func TestMacroDefinitionsNeverSurvive(t *testing.T) {
	forms := []ast.Node{
		defmacro("a", nil, ast.Num(1)),
		call("a"),
		defmacro("b", []string{"x"}, ast.Ident("x")),
		&ast.Block{Body: []ast.Node{defmacro("inner", nil, ast.Num(3)), call("inner")}},
		defmacro("c", nil, ast.Num(2)),
	}

	expanded, rec := testExpand(t, forms...)

	assertCoreGrammar(t, expanded)
	if expanded.String() != "1\n(block (inner))" {
		t.Errorf("expansion wrong. got=%q", expanded.String())
	}

	done := rec.Of(MacroExpansionDone)
	if len(done) != 1 || done[0].MacroCount != 3 {
		t.Errorf("macroExpansionDone wrong. got=%+v", done)
	}
}

func TestLaterDefinitionWins(t *testing.T) {
	expanded, rec := testExpand(t,
		defmacro("m", nil, ast.Num(1)),
		defmacro("m", nil, ast.Num(2)),
		call("m"))

	if expanded.String() != "2" {
		t.Errorf("redefinition did not win. got=%q", expanded.String())
	}
	if got := len(rec.Of(MacroRegistered)); got != 2 {
		t.Errorf("macroRegistered count wrong. got=%d", got)
	}
	if got := rec.Of(MacroExpansionDone)[0].MacroCount; got != 1 {
		t.Errorf("macroCount wrong. got=%d", got)
	}
}

func TestNewWithArrayArgument(t *testing.T) {
	// (defmacro mknew (C args) (quote (new ~C ~args))) (mknew Foo (array 1 2 3))
	mknew := defmacro("mknew", []string{"C", "args"}, quote(call("new", unquote("C"), unquote("args"))))

	expanded, _ := testExpand(t, mknew, call("mknew", ast.Ident("Foo"), ast.ArrayOf(nums(1, 2, 3)...)))

	n, ok := expanded.Body[0].(*ast.New)
	if !ok {
		t.Fatalf("expansion is not *ast.New. got=%T", expanded.Body[0])
	}
	if len(n.Args) != 3 || n.String() != "(new Foo 1 2 3)" {
		t.Errorf("new wrong. got=%q", n.String())
	}
}

func TestArgumentBinding(t *testing.T) {
	pair := defmacro("pair", []string{"a", "b"}, call("array", ast.Ident("a"), ast.Ident("b")))

	tests := []struct {
		input    ast.Node
		expected string
	}{
		{call("pair", ast.Num(1), ast.Num(2)), "(array 1 2)"},
		{call("pair", ast.Num(1)), "(array 1 null)"},
		{call("pair"), "(array null null)"},
		{call("pair", ast.Num(1), ast.Num(2), ast.Num(3)), "(array 1 2)"},
	}

	for _, tt := range tests {
		expanded, _ := testExpand(t, pair, tt.input)
		if expanded.String() != tt.expected {
			t.Errorf("argument binding wrong. want=%q, got=%q", tt.expected, expanded.String())
		}
	}
}

func TestBoundArgumentsAreCloned(t *testing.T) {
	dup := defmacro("dup", []string{"x"}, call("array", ast.Ident("x"), ast.Ident("x")))

	expanded, _ := testExpand(t, dup, call("dup", call("f", ast.Num(1))))

	arr := expanded.Body[0].(*ast.Array)
	if arr.Elements[0] == arr.Elements[1] {
		t.Errorf("argument subtree shared between two positions")
	}
	if arr.String() != "(array (f 1) (f 1))" {
		t.Errorf("expansion wrong. got=%q", arr.String())
	}
}

func TestLetStarIsSequential(t *testing.T) {
	// (defmacro m (x) (let* ((a x) (b (array a a))) (quote (f ~b))))
	m := defmacro("m", []string{"x"},
		letStar([]*ast.Binding{
			bind("a", ast.Ident("x")),
			bind("b", call("array", ast.Ident("a"), ast.Ident("a"))),
		}, quote(call("f", unquote("b")))))

	expanded, _ := testExpand(t, m, call("m", ast.Num(4)))

	if expanded.String() != "(f (array 4 4))" {
		t.Errorf("let* wrong. got=%q", expanded.String())
	}
}

func TestIfIsStructural(t *testing.T) {
	pick := defmacro("pick", []string{"c", "a", "b"}, &ast.If{Cond: ast.Ident("c"), Then: ast.Ident("a"), Else: ast.Ident("b")})

	expanded, _ := testExpand(t, pick, call("pick", ast.Bool(true), ast.Num(1), ast.Num(2)))

	if expanded.String() != "(if true 1 2)" {
		t.Errorf("if must not branch at expansion time. got=%q", expanded.String())
	}
}

func TestSubstitutionIntoTypedNodes(t *testing.T) {
	adder := defmacro("adder", []string{"n"}, &ast.Function{
		Params: []*ast.Identifier{ast.Ident("a")},
		Body:   []ast.Node{call("+", ast.Ident("a"), ast.Ident("n"))},
	})
	lam := defmacro("lam", []string{"p", "body"}, &ast.Function{
		Params: []*ast.Identifier{ast.Ident("p")},
		Body:   []ast.Node{ast.Ident("body")},
	})
	obj := defmacro("obj", []string{"x"}, &ast.Object{
		Fields: []*ast.Field{{Key: ast.Str("v"), Value: &ast.Unquote{Expr: ast.Ident("x")}}},
	})

	tests := []struct {
		input    ast.Node
		expected string
	}{
		{call("adder", ast.Num(5)), "(fn (array a) (+ a 5))"},
		{call("lam", ast.Ident("y"), call("+", ast.Ident("y"), ast.Num(1))), "(fn (array y) (+ y 1))"},
		{call("lam", ast.Num(3), ast.Num(4)), "(fn (array p) 4)"},
		{call("obj", ast.Num(5)), `(object ("v" 5))`},
	}

	for _, tt := range tests {
		expanded, _ := testExpand(t, adder, lam, obj, tt.input)
		if expanded.String() != tt.expected {
			t.Errorf("substitution wrong. want=%q, got=%q", tt.expected, expanded.String())
		}
	}
}

func TestTopLevelQuote(t *testing.T) {
	inc := defmacro("inc", []string{"x"}, call("+", ast.Ident("x"), ast.Num(1)))
	g := &ast.Gensym{Prefix: "q"}

	expanded, _ := testExpand(t,
		inc,
		quote(call("list", g, g, ast.Ident("x"), call("inc", ast.Num(1)))),
		quote(call("f", &ast.Unquote{Expr: call("inc", ast.Num(2))})),
	)

	expected := "(list q1 q1 x (inc 1))\n(f (+ 2 1))"
	if expanded.String() != expected {
		t.Errorf("top-level quote wrong.\nwant=%q\ngot =%q", expected, expanded.String())
	}
	assertCoreGrammar(t, expanded)
}

func TestExpandProgramDoesNotMutateInput(t *testing.T) {
	m := defmacro("m", []string{"x"}, quote(call("f", unquote("x"))))
	program := &ast.Program{Body: []ast.Node{m, call("m", ast.Num(1)), call("m", ast.Num(2))}}
	before := program.String()

	if _, err := New(Options{}).ExpandProgram(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if program.String() != before {
		t.Errorf("input program mutated.\nwant=%q\ngot =%q", before, program.String())
	}
}

func TestNonTermination(t *testing.T) {
	forever := defmacro("forever", nil, call("forever"))
	program := &ast.Program{Body: []ast.Node{forever, &ast.Call{Span: token.Span{File: "loop.t2", Line: 2, Column: 1}, Callee: ast.Ident("forever")}}}

	tests := []struct {
		opts   Options
		reason LimitReason
		limit  int
	}{
		{Options{MaxExpansions: 50}, ExpansionCountLimit, 50},
		{Options{MaxDepth: 10}, DepthLimit, 10},
		{Options{MaxExpansions: 100, MaxDepth: 20}, DepthLimit, 20},
	}

	for _, tt := range tests {
		expanded, err := New(tt.opts).ExpandProgram(program)
		if err == nil {
			t.Fatalf("expected an error, got program %q", expanded.String())
		}
		if expanded != nil {
			t.Errorf("partial program returned with error")
		}
		if !errors.Is(err, ErrNonTerminating) {
			t.Errorf("error does not match ErrNonTerminating. got=%v", err)
		}
		var nt *NonTerminationError
		if !errors.As(err, &nt) {
			t.Fatalf("error is not *NonTerminationError. got=%T", err)
		}
		if nt.Macro != "forever" || nt.Reason != tt.reason || nt.Limit != tt.limit {
			t.Errorf("error fields wrong. got=%+v", nt)
		}
	}
}

func TestExpandMacro(t *testing.T) {
	inc := defmacro("inc", []string{"x"}, call("+", ast.Ident("x"), ast.Num(1)))
	e := New(Options{})
	e.DefineMacros(&ast.Program{Body: []ast.Node{inc}})

	got, err := e.ExpandMacro("inc", ast.Num(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "(+ 5 1)" {
		t.Errorf("ExpandMacro wrong. got=%q", got.String())
	}

	if _, err := e.ExpandMacro("missing"); err == nil {
		t.Errorf("expected an error for an unknown macro")
	}
	if _, ok := e.Macro("inc"); !ok || e.MacroCount() != 1 {
		t.Errorf("registry lookup wrong")
	}
}

func TestExpandMacroSkipsArgumentIdentifiers(t *testing.T) {
	// (defmacro pair (x) (let* ((g (gensym "t"))) (quote (array ~g ~g))))
	pair := defmacro("pair", []string{"x"},
		letStar([]*ast.Binding{bind("g", call("gensym", ast.Str("t")))},
			quote(call("array", unquote("g"), unquote("g")))))
	e := New(Options{})
	e.DefineMacros(&ast.Program{Body: []ast.Node{pair}})

	got, err := e.ExpandMacro("pair", ast.Ident("t1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "(array t2 t2)" {
		t.Errorf("generated name collides with an argument identifier. got=%q", got.String())
	}
}

func TestSwapMacro(t *testing.T) {
	// (defmacro swap (a b)
	//   (let* ((tmp (gensym "t")))
	//     (quote (let* ((~tmp ~a)) (assign ~a ~b) (assign ~b ~tmp)))))
	swap := defmacro("swap", []string{"a", "b"},
		letStar([]*ast.Binding{bind("tmp", call("gensym", ast.Str("t")))},
			quote(call("let*",
				ast.CallOf(ast.CallOf(unquote("tmp"), unquote("a"))),
				call("assign", unquote("a"), unquote("b")),
				call("assign", unquote("b"), unquote("tmp"))))))

	expanded, _ := testExpand(t, swap,
		call("swap", ast.Ident("x"), ast.Ident("y")),
		call("swap", ast.Ident("p"), ast.Ident("q")))

	expected := "(let* ((t1 x)) (assign x y) (assign y t1))\n" +
		"(let* ((t2 p)) (assign p q) (assign q t2))"
	if expanded.String() != expected {
		t.Fatalf("swap wrong.\nwant=%q\ngot =%q", expected, expanded.String())
	}

	ls, ok := expanded.Body[0].(*ast.LetStar)
	if !ok {
		t.Fatalf("expansion is not *ast.LetStar. got=%T", expanded.Body[0])
	}
	if len(ls.Bindings) != 1 || ls.Bindings[0].Name.Name != "t1" {
		t.Errorf("binding wrong. got=%q", ls.String())
	}
	if _, ok := ls.Body[0].(*ast.Assign); !ok {
		t.Errorf("body is not *ast.Assign. got=%T", ls.Body[0])
	}
	assertCoreGrammar(t, expanded)
}

func TestEvents(t *testing.T) {
	site := token.Span{File: "main.t2", Start: 40, End: 47, Line: 3, Column: 1}
	inc := defmacro("inc", []string{"x"}, call("+", ast.Ident("x"), ast.Num(1)))
	two := defmacro("two", []string{"a", "b"}, ast.Ident("a"))

	_, rec := testExpand(t, inc, two, &ast.Call{Span: site, Callee: ast.Ident("inc"), Args: []ast.Node{ast.Num(1)}})

	if len(rec.Events) != 4 {
		t.Fatalf("wrong number of events. got=%+v", rec.Events)
	}

	reg := rec.Events[1]
	if reg.Kind != MacroRegistered || reg.Name != "two" || len(reg.Params) != 2 || reg.Params[1] != "b" {
		t.Errorf("macroRegistered wrong. got=%+v", reg)
	}

	exp := rec.Events[2]
	if exp.Kind != MacroExpanding || exp.Name != "inc" || exp.ArgCount != 1 || exp.Location != site {
		t.Errorf("macroExpanding wrong. got=%+v", exp)
	}

	done := rec.Events[3]
	if done.Kind != MacroExpansionDone || done.MacroCount != 2 {
		t.Errorf("macroExpansionDone wrong. got=%+v", done)
	}
}

func TestExpansionKeepsCallSiteSpan(t *testing.T) {
	site := token.Span{File: "main.t2", Line: 7, Column: 3}
	m := defmacro("m", nil, call("gensym"))

	expanded, _ := testExpand(t, m, &ast.Call{Span: site, Callee: ast.Ident("m")})

	if expanded.Body[0].Pos() != site {
		t.Errorf("span wrong. got=%s", expanded.Body[0].Pos())
	}
}

// =====================
// テスト用の補助関数
// =====================

func testExpand(t *testing.T, forms ...ast.Node) (*ast.Program, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	e := New(Options{Sink: rec})

	expanded, err := e.ExpandProgram(&ast.Program{Body: forms})
	if err != nil {
		t.Fatalf("ExpandProgram returned an error: %v", err)
	}
	return expanded, rec
}

// assertCoreGrammar は展開後のASTにメタプログラミング用のノードが残っていないことを確かめる。
func assertCoreGrammar(t *testing.T, program *ast.Program) {
	t.Helper()

	for _, form := range program.Body {
		ast.Walk(form, func(node ast.Node) bool {
			switch node.(type) {
			case *ast.MacroDef, *ast.Quote, *ast.Unquote, *ast.UnquoteSplice, *ast.Gensym:
				t.Errorf("%T survived expansion: %s", node, node)
			}
			return true
		})
	}
}

func defmacro(name string, params []string, body ...ast.Node) *ast.MacroDef {
	ids := make([]*ast.Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ast.Ident(p))
	}
	return &ast.MacroDef{Name: ast.Ident(name), Params: ids, Body: body}
}

func call(name string, args ...ast.Node) *ast.Call {
	return ast.CallNamed(name, args...)
}

func quote(n ast.Node) *ast.Quote {
	return &ast.Quote{Expr: n}
}

func unquote(name string) *ast.Unquote {
	return &ast.Unquote{Expr: ast.Ident(name)}
}

func unquoteSplice(name string) *ast.UnquoteSplice {
	return &ast.UnquoteSplice{Expr: ast.Ident(name)}
}

func bind(name string, init ast.Node) *ast.Binding {
	return &ast.Binding{Name: ast.Ident(name), Init: init}
}

func letStar(bindings []*ast.Binding, body ...ast.Node) *ast.LetStar {
	return &ast.LetStar{Bindings: bindings, Body: body}
}

func nums(values ...float64) []ast.Node {
	out := make([]ast.Node, 0, len(values))
	for _, v := range values {
		out = append(out, ast.Num(v))
	}
	return out
}
