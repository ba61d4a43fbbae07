package render

import "strings"

// Condition glyphs.
const (
	GlyphSun     = "☀️"
	GlyphRain    = "🌧️"
	GlyphCloud   = "☁️"
	GlyphSnow    = "❄️"
	GlyphFog     = "🌫️"
	GlyphUnknown = "❓"
)

// emojiRules is checked in order; the first rule with a matching keyword wins.
var emojiRules = []struct {
	keywords []string
	glyph    string
}{
	{[]string{"sunny", "clear"}, GlyphSun},
	{[]string{"rain", "drizzle"}, GlyphRain},
	{[]string{"cloud", "overcast"}, GlyphCloud},
	{[]string{"snow", "sleet"}, GlyphSnow},
	{[]string{"fog", "mist"}, GlyphFog},
}

// Emoji picks a glyph for a provider condition description.
func Emoji(condition string) string {
	text := strings.ToLower(condition)
	for _, rule := range emojiRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.glyph
			}
		}
	}
	return GlyphUnknown
}
