package nlu

import (
	"unicode"

	"golang.org/x/text/language"
)

// Lang is one of the three languages the bot understands.
type Lang string

// Supported languages.
const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
	LangKO Lang = "ko"
)

// Tag returns the BCP 47 tag for the language.
func (l Lang) Tag() language.Tag {
	switch l {
	case LangRU:
		return language.Russian
	case LangKO:
		return language.Korean
	default:
		return language.English
	}
}

// ParseLang maps a BCP 47 string such as "ru-RU" onto a supported language.
// Anything unrecognized is English.
func ParseLang(s string) Lang {
	tag, err := language.Parse(s)
	if err != nil {
		return LangEN
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ru":
		return LangRU
	case "ko":
		return LangKO
	}
	return LangEN
}

// DetectLanguage classifies raw text by script: any Hangul means Korean, else
// any Cyrillic means Russian, else English. It must run on the raw message.
func DetectLanguage(raw string) Lang {
	hasCyrillic := false
	for _, r := range raw {
		if unicode.Is(unicode.Hangul, r) {
			return LangKO
		}
		if unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r) {
			hasCyrillic = true
		}
	}
	if hasCyrillic {
		return LangRU
	}
	return LangEN
}
