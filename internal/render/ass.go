package render

import (
	"fmt"
	"strings"
)

// toASS renders caption operations into an ASS subtitle document using the
// style of the first caption. All captions in one plan share a style.
func toASS(captionOps []EditOperation, vertical bool) string {
	if len(captionOps) == 0 {
		return ""
	}
	style := captionOps[0].Style
	resX, resY := PlayRes(vertical)

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString("Title: Generated Captions\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", resX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", resY))
	sb.WriteString("\n")

	boldVal := 0
	if style.Bold {
		boldVal = -1
	}

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,%s,%s,%s,&H80000000,%d,0,0,0,100,100,0,0,1,%d,%d,%d,30,30,%d,1\n",
		style.FontName, style.FontSize,
		toASSColor(style.PrimaryColor), toASSColor(style.PrimaryColor), toASSColor(style.OutlineColor),
		boldVal, style.OutlineSize, style.ShadowSize, style.Alignment, style.MarginV))
	sb.WriteString("\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, op := range captionOps {
		text := escapeASSText(op.Text)
		if style.RTL {
			// Unicode RLE/PDF marks keep punctuation on the correct side
			// for right-to-left scripts.
			text = "‫" + text + "‬"
		}
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(op.Start), formatASSTime(op.End), text))
	}

	return sb.String()
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

func toASSColor(color string) string {
	if strings.HasPrefix(color, "&H") {
		return color
	}
	color = strings.TrimPrefix(color, "#")
	if len(color) == 6 {
		r := color[0:2]
		g := color[2:4]
		b := color[4:6]
		return fmt.Sprintf("&H00%s%s%s", b, g, r)
	}
	return "&H00FFFFFF"
}

func formatASSTime(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	centis := int((seconds - float64(int(seconds))) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
