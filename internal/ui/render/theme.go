package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines viewer colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	PromptFg      tcell.Color
	HeadingFg     tcell.Color
	LinkFg        tcell.Color
	QuoteFg       tcell.Color
	DecorationFg  tcell.Color
	PlaceholderFg tcell.Color
	CodeFg        tcell.Color
	CodeBlockBg   tcell.Color
	CodeBlockFg   tcell.Color
	MatchBg       tcell.Color
	MatchFg       tcell.Color
	ActiveMatchBg tcell.Color
	ActiveMatchFg tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		FooterBg:      tcell.Color236,
		FooterFg:      tcell.Color252,
		PromptFg:      tcell.Color33,
		HeadingFg:     tcell.Color33,
		LinkFg:        tcell.Color44,
		QuoteFg:       tcell.ColorLightSlateGray,
		DecorationFg:  tcell.ColorLightSlateGray,
		PlaceholderFg: tcell.Color137,
		CodeFg:        tcell.Color44,  // brighter cyan text for code
		CodeBlockBg:   tcell.Color234, // darker grey background for fenced code
		CodeBlockFg:   tcell.Color252,
		MatchBg:       tcell.Color220, // yellow, like a marker pen
		MatchFg:       tcell.ColorBlack,
		ActiveMatchBg: tcell.Color208,
		ActiveMatchFg: tcell.ColorBlack,
	}
}

// WithOverrides replaces the colors named in overrides. Unknown names and
// unparsable colors are ignored.
func (t ColorTheme) WithOverrides(overrides map[string]string) ColorTheme {
	slots := map[string]*tcell.Color{
		"background":      &t.Background,
		"foreground":      &t.Foreground,
		"footer_bg":       &t.FooterBg,
		"footer_fg":       &t.FooterFg,
		"prompt_fg":       &t.PromptFg,
		"heading_fg":      &t.HeadingFg,
		"link_fg":         &t.LinkFg,
		"quote_fg":        &t.QuoteFg,
		"decoration_fg":   &t.DecorationFg,
		"placeholder_fg":  &t.PlaceholderFg,
		"code_fg":         &t.CodeFg,
		"code_block_bg":   &t.CodeBlockBg,
		"code_block_fg":   &t.CodeBlockFg,
		"match_bg":        &t.MatchBg,
		"match_fg":        &t.MatchFg,
		"active_match_bg": &t.ActiveMatchBg,
		"active_match_fg": &t.ActiveMatchFg,
	}
	for name, value := range overrides {
		slot, ok := slots[name]
		if !ok {
			continue
		}
		if c := tcell.GetColor(value); c != tcell.ColorDefault || value == "default" {
			*slot = c
		}
	}
	return t
}
