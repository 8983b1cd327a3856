package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Key identifies one translation: text in SourceLang rendered into TargetLang.
//
// Key is comparable and is used as a map key directly, so two keys are equal
// only when all three fields are equal.
type Key struct {
	SourceLang string
	TargetLang string
	Text       string
}

// Encode returns a length-prefixed encoding of the key.
// Distinct keys always encode to distinct strings, whatever the text contains.
func (k Key) Encode() string {
	var b strings.Builder
	b.Grow(len(k.SourceLang) + len(k.TargetLang) + len(k.Text) + 16)
	for _, field := range [...]string{k.SourceLang, k.TargetLang, k.Text} {
		b.WriteString(strconv.Itoa(len(field)))
		b.WriteByte(':')
		b.WriteString(field)
	}
	return b.String()
}

// Digest returns the hex SHA-256 of Encode, for stores that need bounded keys.
func (k Key) Digest() string {
	sum := sha256.Sum256([]byte(k.Encode()))
	return hex.EncodeToString(sum[:])
}

// String returns a short human-readable form for logs.
func (k Key) String() string {
	text := k.Text
	if runes := []rune(text); len(runes) > 32 {
		text = string(runes[:29]) + "..."
	}
	return k.SourceLang + "->" + k.TargetLang + " " + strconv.Quote(text)
}
