package tokenizer

import "encoding/json"

// NormalizeCell strips one layer of string-literal quoting from a cell.
//
// The raw text is decoded as a JSON string literal; when that succeeds and
// yields a non-empty string the decoded value is returned. Cells that are
// not a literal, or that decode to the empty string, are returned verbatim,
// so `""` stays `""` and `say "hi"` stays untouched.
func NormalizeCell(raw string) string {
	var decoded string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	if decoded == "" {
		return raw
	}
	return decoded
}
