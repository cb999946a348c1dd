package pathutil

import "strings"

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape escapes one JSON pointer reference token (RFC 6901).
func Escape(token string) string {
	return escaper.Replace(token)
}

// Unescape reverses Escape.
func Unescape(token string) string {
	return unescaper.Replace(token)
}

// Join builds a JSON pointer from unescaped tokens.
func Join(tokens ...string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// Split parses a JSON pointer (with or without a leading "#") into unescaped tokens.
func Split(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts
}
