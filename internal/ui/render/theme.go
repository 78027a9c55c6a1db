package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	SeparatorFg   tcell.Color
	FocusMarkerFg tcell.Color
	Heading       [6]tcell.Color
	CodeFg        tcell.Color
	LinkFg        tcell.Color
	ErrorFg       tcell.Color
	WarningFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.ColorDefault,
		HeaderFg:      tcell.ColorDefault,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		SeparatorFg:   tcell.Color240,
		FocusMarkerFg: tcell.Color33,
		Heading: [6]tcell.Color{
			tcell.Color33,  // h1 blue
			tcell.Color37,  // h2 teal
			tcell.Color71,  // h3 green
			tcell.Color136, // h4 amber
			tcell.Color139, // h5 mauve
			tcell.Color245, // h6 grey
		},
		CodeFg:    tcell.Color44, // brighter cyan text for code
		LinkFg:    tcell.Color75,
		ErrorFg:   tcell.ColorRed,
		WarningFg: tcell.Color214,
	}
}

// HeadingColor returns the colour for a heading of level (1-6).
func (t ColorTheme) HeadingColor(level int) tcell.Color {
	if level < 1 {
		level = 1
	}
	if level > len(t.Heading) {
		level = len(t.Heading)
	}
	return t.Heading[level-1]
}
