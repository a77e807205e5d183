package render

import "strings"

type TextPosition string

const (
	PositionTop    TextPosition = "Top"
	PositionMiddle TextPosition = "Middle"
	PositionBottom TextPosition = "Bottom"
)

// ASS numpad alignment values.
const (
	alignBottom = 2
	alignMiddle = 5
	alignTop    = 8
)

// CaptionStyle is a resolved subtitle style ready for ASS output.
type CaptionStyle struct {
	FontName     string
	FontSize     int
	PrimaryColor string
	OutlineColor string
	OutlineSize  int
	ShadowSize   int
	Alignment    int
	MarginV      int
	Bold         bool
	RTL          bool
}

// StyleOptions carries the user-tunable parts of a caption style. Empty
// fields fall back to the defaults below.
type StyleOptions struct {
	FontName     string
	FontSize     int
	PrimaryColor string
	OutlineColor string
}

const (
	defaultFontName     = "Montserrat Black"
	defaultFontSize     = 96
	defaultPrimaryColor = "#FFFF00"
	defaultOutlineColor = "#000000"
)

var rtlLanguages = map[string]bool{
	"arabic": true,
	"hebrew": true,
	"farsi":  true,
	"urdu":   true,
}

// IsRTLLanguage reports whether captions in the given language read right to
// left, which changes the subtitle layout variant.
func IsRTLLanguage(language string) bool {
	return rtlLanguages[strings.ToLower(strings.TrimSpace(language))]
}

// StyleFor resolves the caption style for an orientation, text position and
// script direction combination.
func StyleFor(vertical bool, position TextPosition, rtl bool, opts StyleOptions) CaptionStyle {
	style := CaptionStyle{
		FontName:     opts.FontName,
		FontSize:     opts.FontSize,
		PrimaryColor: opts.PrimaryColor,
		OutlineColor: opts.OutlineColor,
		OutlineSize:  4,
		ShadowSize:   2,
		Bold:         true,
		RTL:          rtl,
	}
	if style.FontName == "" {
		style.FontName = defaultFontName
	}
	if style.FontSize == 0 {
		style.FontSize = defaultFontSize
	}
	if style.PrimaryColor == "" {
		style.PrimaryColor = defaultPrimaryColor
	}
	if style.OutlineColor == "" {
		style.OutlineColor = defaultOutlineColor
	}

	switch position {
	case PositionTop:
		style.Alignment = alignTop
		style.MarginV = 120
	case PositionBottom:
		style.Alignment = alignBottom
		style.MarginV = 160
	default:
		style.Alignment = alignMiddle
		style.MarginV = 50
	}

	// Landscape frames have less vertical room, so shrink the face and pull
	// the margins in.
	if !vertical {
		style.FontSize = style.FontSize * 2 / 3
		if position != PositionMiddle {
			style.MarginV = style.MarginV / 2
		}
	}

	return style
}

// PlayRes returns the ASS script canvas for the orientation. Styles are
// authored against these dimensions and libass scales them to the output.
func PlayRes(vertical bool) (int, int) {
	if vertical {
		return 1080, 1920
	}
	return 1920, 1080
}
