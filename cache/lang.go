package cache

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// ErrEmptyLang is returned by CanonicalLang for a blank language code.
var ErrEmptyLang = errors.New("empty language code")

// CanonicalLang parses a language code and returns its canonical BCP 47
// form. "en_US", "en-us" and "EN-US" all canonicalize to "en-US".
func CanonicalLang(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmptyLang
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}
