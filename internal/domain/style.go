package domain

import "strings"

type Style string

const (
	StyleLager   Style = "LAGER"
	StylePilsner Style = "PILSNER"
	StyleStout   Style = "STOUT"
	StyleGose    Style = "GOSE"
	StylePorter  Style = "PORTER"
	StyleAle     Style = "ALE"
	StyleWheat   Style = "WHEAT"
	StyleIPA     Style = "IPA"
	StylePaleAle Style = "PALE_ALE"
	StyleSaison  Style = "SAISON"
)

var styles = map[Style]bool{
	StyleLager: true, StylePilsner: true, StyleStout: true, StyleGose: true,
	StylePorter: true, StyleAle: true, StyleWheat: true, StyleIPA: true,
	StylePaleAle: true, StyleSaison: true,
}

func (s Style) Valid() bool { return styles[s] }

// ParseStyle maps free text to a style, tolerating case and spaces.
// Unknown text returns the empty style.
func ParseStyle(s string) Style {
	v := Style(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	if v.Valid() {
		return v
	}
	return ""
}
