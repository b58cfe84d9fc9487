// environment.go はマクロ本体を評価するときの環境（スコープ）を管理する。
// Environment は仮引数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
//
// 環境は作成後に変更しない。let* の束縛ごとに Extend で子の環境を作る。
package object

// NewEnvironment は新しい空の環境を作成する。
// マクロ呼び出しごとに1つ作り、仮引数を束縛する。
func NewEnvironment() *Environment {
	return &Environment{}
}

// Environment は束縛1つ分のスコープ。
// name と value がこのスコープの束縛で、
// outer は外側のスコープへの参照（なければnil）。
type Environment struct {
	name  string
	value Object
	bound bool
	outer *Environment
}

// Extend は name に value を束縛した子の環境を返す。e 自体は変更しない。
func (e *Environment) Extend(name string, value Object) *Environment {
	return &Environment{name: name, value: value, bound: true, outer: e}
}

// Get は名前から値を検索する。
// 内側の束縛から順に外側へ探し、見つかれば (値, true)、
// 見つからなければ (nil, false) を返す。
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if env.bound && env.name == name {
			return env.value, true
		}
	}
	return nil, false
}

// Names は束縛された名前を束縛した順に返す。同じ名前は内側のものだけ数える。
func (e *Environment) Names() []string {
	var reversed []string
	seen := map[string]bool{}
	for env := e; env != nil; env = env.outer {
		if env.bound && !seen[env.name] {
			seen[env.name] = true
			reversed = append(reversed, env.name)
		}
	}
	names := make([]string, len(reversed))
	for i, n := range reversed {
		names[len(reversed)-1-i] = n
	}
	return names
}
