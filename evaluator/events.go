package evaluator

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/raould/t2lang-sub002/token"
)

// EventKind はトレースイベントの種類。
type EventKind string

const (
	MacroRegistered    EventKind = "macroRegistered"
	MacroExpanding     EventKind = "macroExpanding"
	MacroExpansionDone EventKind = "macroExpansionDone"
)

// Event は展開器が出す診断用のイベント。展開結果には影響しない。
// Kind によって使うフィールドが異なる:
//
//	macroRegistered:    Name, Params
//	macroExpanding:     Name, ArgCount, Location
//	macroExpansionDone: MacroCount
type Event struct {
	Kind       EventKind
	Name       string
	Params     []string
	ArgCount   int
	Location   token.Span
	MacroCount int
}

// EventSink はイベントの送り先。
type EventSink interface {
	Emit(ev Event)
}

// NopSink は全てのイベントを捨てる。
type NopSink struct{}

func (NopSink) Emit(Event) {}

// Recorder は受け取ったイベントを順に保持する。
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.Events = append(r.Events, ev)
}

// Of は kind のイベントだけを返す。
func (r *Recorder) Of(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// LogSink はイベントを commonlog に書き出す。
type LogSink struct {
	Log commonlog.Logger
}

// NewLogSink は name のロガーに書き出す LogSink を作る。
func NewLogSink(name string) *LogSink {
	return &LogSink{Log: commonlog.GetLogger(name)}
}

func (s *LogSink) Emit(ev Event) {
	switch ev.Kind {
	case MacroRegistered:
		s.Log.Info("macro registered", "name", ev.Name, "params", strings.Join(ev.Params, " "))
	case MacroExpanding:
		s.Log.Debug("macro expanding", "name", ev.Name, "argCount", ev.ArgCount, "location", ev.Location.String())
	case MacroExpansionDone:
		s.Log.Info("macro expansion done", "macroCount", ev.MacroCount)
	}
}
