// expand_tracing.go はマクロ展開のデバッグ用トレーシング機能を提供する。
// Options.Trace が真のとき、マクロ呼び出しの入口と出口でデバッグログを出力する。
package evaluator

import "strings"

const traceIdentPlaceholder string = "\t"

// identLevel は現在のトレースレベルに応じたインデント文字列を返す。
func (e *Expander) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, e.traceLevel-1)
}

// tracePrint はインデント付きでメッセージを出力する。
func (e *Expander) tracePrint(fs string) {
	e.log.Debugf("%s%s", e.identLevel(), fs)
}

// trace はマクロ適用の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
func (e *Expander) trace(msg string) string {
	if !e.opts.Trace {
		return msg
	}
	e.traceLevel++
	e.tracePrint("BEGIN " + msg)
	return msg
}

// untrace はマクロ適用の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (e *Expander) untrace(msg string) {
	if !e.opts.Trace {
		return
	}
	e.tracePrint("END " + msg)
	e.traceLevel--
}
