// Package token は t2lang のソース位置（Span）と、
// マクロ展開器が認識する特殊形式名・演算子名の表を定義するパッケージ。
// 字句解析そのものは外部のパーサーが担当し、このパッケージは
// パーサーが付けた位置情報と、quote 内で「呼び出し」として読まれた
// 特殊形式を判別するための名前だけを扱う。
package token

import "fmt"

// Span はASTノードのソース上の位置。
// Start と End はファイル先頭からのバイトオフセット、Line と Column は1始まり。
type Span struct {
	File   string
	Start  int
	End    int
	Line   int
	Column int
}

// IsZero は位置情報が設定されていないかどうかを返す。
func (s Span) IsZero() bool {
	return s == Span{}
}

// String は `file:line:column` の形式で位置を返す。
func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	file := s.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, s.Line, s.Column)
}

// FormType は quote 内の呼び出し形式を、どの型付きノードに再構築するかを表す。
type FormType string

const (
	CALL = "CALL" // 特殊形式ではない通常の呼び出し

	LET_STAR    = "LET_STAR"
	IF          = "IF"
	BLOCK       = "BLOCK"
	ASSIGN      = "ASSIGN"
	INDEX       = "INDEX"
	PROP        = "PROP"
	NEW         = "NEW"
	RETURN      = "RETURN"
	THROW       = "THROW"
	TYPE_ASSERT = "TYPE_ASSERT"
	FUNCTION    = "FUNCTION"
	OPERATOR    = "OPERATOR" // 中置演算子。コード生成側が識別子名で判別する
	ARRAY       = "ARRAY"
	CALL_FORM   = "CALL_FORM" // (call f args...)
)

// マクロ本体の評価器が特別扱いする呼び出し名。
const (
	GENSYM   = "gensym"
	QUOTE    = "quote"
	ARRAY_FN = "array"
	TYPE_REF = "type-ref"
	ANY_TYPE = "any"
	CONST    = "const"
)

// forms は特殊形式名から再構築先への対応表。
var forms = map[string]FormType{
	"let*":        LET_STAR,
	CONST:         LET_STAR,
	"if":          IF,
	"block":       BLOCK,
	"assign":      ASSIGN,
	"index":       INDEX,
	"prop":        PROP,
	"new":         NEW,
	"return":      RETURN,
	"throw":       THROW,
	"type-assert": TYPE_ASSERT,
	"fn":          FUNCTION,
	ARRAY_FN:      ARRAY,
	"call":        CALL_FORM,
}

// operators は中置演算子として扱われる識別子名。
var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"==": true, "!=": true, "===": true, "!==": true,
	"&&": true, "||": true,
}

// LookupForm は呼び出し名が特殊形式かどうかを判定する。
// 演算子名は特殊形式より先に判定されることはないが、
// 表が重ならないので順序は結果に影響しない。
func LookupForm(name string) FormType {
	if form, ok := forms[name]; ok {
		return form
	}
	if operators[name] {
		return OPERATOR
	}
	return CALL
}

// IsOperator は名前が中置演算子かどうかを返す。
func IsOperator(name string) bool {
	return operators[name]
}
