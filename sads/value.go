package sads

import "strings"

// literalPrefix escapes a raw attribute value from token resolution.
const literalPrefix = "custom:"

// Kind discriminates Value variants.
type Kind int

const (
	// Token values are semantic names resolved against a theme category.
	Token Kind = iota
	// Literal values pass into declarations verbatim.
	Literal
)

// Value is a single styling attribute value, either a semantic token or a
// literal CSS value. The escape prefix is stripped exactly once when the
// value enters the system, nothing downstream inspects prefixes again.
type Value struct {
	kind Kind
	text string
}

// Tok returns a semantic token value.
func Tok(s string) Value { return Value{kind: Token, text: s} }

// Lit returns a literal CSS value.
func Lit(s string) Value { return Value{kind: Literal, text: s} }

// ParseValue classifies a raw attribute value. "custom:" marks a literal,
// everything else is a token. An empty string is an empty token.
func ParseValue(raw string) Value {
	if after, ok := strings.CutPrefix(raw, literalPrefix); ok {
		return Lit(after)
	}
	return Tok(raw)
}

// Kind returns the variant.
func (v Value) Kind() Kind { return v.kind }

// Text returns the token name or the literal CSS text.
func (v Value) Text() string { return v.text }

// IsLiteral reports whether the value bypasses theme resolution.
func (v Value) IsLiteral() bool { return v.kind == Literal }

// IsEmpty reports whether the value carries no text. Empty values resolve
// to the empty string and generators suppress their declarations.
func (v Value) IsEmpty() bool { return v.text == "" }

func (v Value) String() string {
	if v.kind == Literal {
		return literalPrefix + v.text
	}
	return v.text
}
