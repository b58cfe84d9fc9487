// Package astcodec は展開前後のASTを CBOR で読み書きする。
// パーサーやコード生成を別プロセスに置くときの受け渡しに使う。
//
// エンコードは canonical モードなので、同じASTは常に同じバイト列になる。
// 先頭のエンベロープに形式名とバージョンを持ち、読み込み時に互換性を確かめる。
package astcodec

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/fxamacker/cbor/v2"

	"github.com/raould/t2lang-sub002/ast"
)

const (
	// Format はエンベロープに書く形式名。
	Format = "t2lang-ast"

	// Version はこのパッケージが書き出すワイヤ形式のバージョン。
	Version = "1.0.0"

	// compatibleVersions は読み込めるバージョンの範囲。
	compatibleVersions = "^1.0"
)

var (
	ErrUnsupportedFormat   = errors.New("astcodec: unsupported format")
	ErrIncompatibleVersion = errors.New("astcodec: incompatible version")
	ErrMalformed           = errors.New("astcodec: malformed node")
)

var (
	cborEncMode cbor.EncMode
	compatible  *semver.Constraints
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("astcodec: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	c, err := semver.NewConstraint(compatibleVersions)
	if err != nil {
		panic(fmt.Sprintf("astcodec: bad version constraint: %v", err))
	}
	compatible = c
}

// envelope はワイヤ形式の最上位。
type envelope struct {
	Format  string      `cbor:"1,keyasint"`
	Version string      `cbor:"2,keyasint"`
	File    string      `cbor:"3,keyasint,omitempty"`
	Body    []*wireNode `cbor:"4,keyasint"`
}

// MarshalProgram はプログラムを CBOR にエンコードする。
func MarshalProgram(p *ast.Program) ([]byte, error) {
	env := &envelope{
		Format:  Format,
		Version: Version,
		File:    p.File,
		Body:    encodeList(p.Body),
	}
	data, err := cborEncMode.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("astcodec: marshal program: %w", err)
	}
	return data, nil
}

// UnmarshalProgram は CBOR からプログラムを復元する。
// 形式名が違えば ErrUnsupportedFormat、バージョンが範囲外なら ErrIncompatibleVersion、
// ノードの形が壊れていれば ErrMalformed を包んだエラーを返す。
func UnmarshalProgram(data []byte) (*ast.Program, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("astcodec: unmarshal program: %w", err)
	}

	if env.Format != Format {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, env.Format)
	}
	if err := checkVersion(env.Version); err != nil {
		return nil, err
	}

	d := &decoder{}
	program := &ast.Program{File: env.File, Body: d.nodes(env.Body)}
	if d.err != nil {
		return nil, d.err
	}
	return program, nil
}

func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatibleVersion, version, err)
	}
	if !compatible.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, v, compatibleVersions)
	}
	return nil
}
