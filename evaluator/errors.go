package evaluator

import (
	"errors"
	"fmt"

	"github.com/raould/t2lang-sub002/token"
)

// ErrNonTerminating は、マクロ展開が設定された上限を超えたことを表す。
var ErrNonTerminating = errors.New("macro expansion did not terminate")

// LimitReason はどの上限を超えたかを表す。
type LimitReason string

const (
	ExpansionCountLimit LimitReason = "expansion count"
	DepthLimit          LimitReason = "expansion depth"
)

// NonTerminationError は上限を超えたマクロ呼び出しの情報を持つ。
type NonTerminationError struct {
	Macro    string
	Location token.Span
	Limit    int
	Reason   LimitReason
}

func (e *NonTerminationError) Error() string {
	return fmt.Sprintf("%s: macro %q exceeded %s limit of %d: %v",
		e.Location, e.Macro, e.Reason, e.Limit, ErrNonTerminating)
}

// Is は errors.Is(err, ErrNonTerminating) を満たすためのメソッド。
func (e *NonTerminationError) Is(target error) bool {
	return target == ErrNonTerminating
}

// recoverNonTermination は展開の途中で投げられた NonTerminationError を err に移す。
// それ以外の panic はそのまま投げ直す。
func recoverNonTermination(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if nt, ok := r.(*NonTerminationError); ok {
		*err = nt
		return
	}
	panic(r)
}
