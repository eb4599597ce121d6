package catalogs

import "unicode"

// cjkRanges covers the Han, Hiragana, Katakana, and Hangul scripts used to
// detect record text that needs translation.
var cjkRanges = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

// ContainsCJK reports whether the string contains any CJK code points.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.IsOneOf(cjkRanges, r) {
			return true
		}
	}
	return false
}

// NeedsTranslation reports whether the model's name or description contains
// CJK text.
func (m *Model) NeedsTranslation() bool {
	return ContainsCJK(m.Name) || ContainsCJK(m.Description)
}
