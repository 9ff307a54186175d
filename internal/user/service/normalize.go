package service

import (
	"strings"
	"unicode/utf8"

	"github.com/AlibekovAA/userfmt/internal/common/constants"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

func DisplayName(name string) string {
	return constants.DisplayNamePrefix + name
}

// NormalizeID zero-fills the literal id text to NormalizedIDWidth characters.
// A leading sign stays in front of the zeros; longer ids are never truncated.
func NormalizeID(id domain.ID) string {
	s := string(id)
	n := utf8.RuneCountInString(s)
	if n >= constants.NormalizedIDWidth {
		return s
	}

	pad := strings.Repeat("0", constants.NormalizedIDWidth-n)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[:1] + pad + s[1:]
	}
	return pad + s
}
