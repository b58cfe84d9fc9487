// gensym.go は衛生的なマクロのための新しい識別子名を生成する。
// 名前は 接頭辞 + 通し番号 で、番号は展開器ごとに1から増えていく。
package evaluator

import (
	"strconv"

	"github.com/raould/t2lang-sub002/ast"
	"github.com/raould/t2lang-sub002/token"
)

type gensymGenerator struct {
	prefix  string
	counter int
	taken   map[string]bool
}

func newGensymGenerator(prefix string) *gensymGenerator {
	return &gensymGenerator{prefix: prefix, taken: make(map[string]bool)}
}

// reserve はユーザーが書いた識別子名を使用済みにする。
// 生成する名前がそれらと衝突したら、番号を進めて別の名前にする。
func (g *gensymGenerator) reserve(nodes ...ast.Node) {
	for _, n := range nodes {
		ast.Walk(n, func(node ast.Node) bool {
			if name, ok := ast.IdentName(node); ok {
				g.taken[name] = true
			}
			return true
		})
	}
}

// generate は新しい識別子を作る。prefix が空なら既定の接頭辞を使う。
func (g *gensymGenerator) generate(prefix string, span token.Span) *ast.Identifier {
	if prefix == "" {
		prefix = g.prefix
	}
	for {
		g.counter++
		name := prefix + strconv.Itoa(g.counter)
		if g.taken[name] {
			continue
		}
		g.taken[name] = true
		return &ast.Identifier{Span: span, Name: name}
	}
}

// expandGensym は Gensym ノードを識別子に置き換える。
// マクロ呼び出しの中では、同じノード（とその複製）は常に同じ名前になる。
// 別のマクロ呼び出しでは新しい名前になる。
func (e *Expander) expandGensym(node *ast.Gensym) *ast.Identifier {
	cache := e.topGensym
	if e.frame != nil {
		cache = e.frame.gensyms
	}

	key := node.Origin()
	id, ok := cache[key]
	if !ok {
		id = e.gensym.generate(node.Prefix, node.Span)
		cache[key] = id
	}

	return &ast.Identifier{Span: node.Span, Name: id.Name}
}
