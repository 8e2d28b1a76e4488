package treediff

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Order is a deterministic total order over relative paths. Both listings of
// a diff must be sorted with the same Order.
type Order interface {
	Name() string
	Compare(a, b string) int
}

type lexicalOrder struct{}

func (lexicalOrder) Name() string { return "lexical" }

func (lexicalOrder) Compare(a, b string) int {
	return strings.Compare(a, b)
}

type javaHashOrder struct{}

func (javaHashOrder) Name() string { return "java-hash" }

// Compare orders by Java's String.hashCode and breaks hash collisions
// lexically so that distinct paths never compare equal.
func (javaHashOrder) Compare(a, b string) int {
	ha, hb := JavaHashCode(a), JavaHashCode(b)
	switch {
	case ha < hb:
		return -1
	case ha > hb:
		return 1
	}
	return strings.Compare(a, b)
}

var (
	Lexical  Order = lexicalOrder{}
	JavaHash Order = javaHashOrder{}
)

// ParseOrder resolves an order by its name.
func ParseOrder(name string) (Order, error) {
	switch name {
	case "", Lexical.Name():
		return Lexical, nil
	case JavaHash.Name():
		return JavaHash, nil
	}
	return nil, fmt.Errorf("unknown order %q (want %q or %q)", name, Lexical.Name(), JavaHash.Name())
}

// JavaHashCode computes java.lang.String#hashCode over the UTF-16 encoding of s.
func JavaHashCode(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}
