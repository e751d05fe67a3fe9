package occupancy

import "strings"

// ColorPair is the background/foreground token pair used to paint one reservation.
type ColorPair struct {
	Background string
	Foreground string
}

// Hue returns the color family of the pair, e.g. "blue" for "bg-blue-100".
func (c ColorPair) Hue() string {
	parts := strings.Split(c.Background, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// DarkBackground returns the dark-theme background token of the same hue.
func (c ColorPair) DarkBackground() string {
	if hue := c.Hue(); hue != "" {
		return "dark:bg-" + hue + "-800"
	}
	return ""
}

// DarkForeground returns the dark-theme foreground token of the same hue.
func (c ColorPair) DarkForeground() string {
	if hue := c.Hue(); hue != "" {
		return "dark:text-" + hue + "-100"
	}
	return ""
}

// Palette is an ordered list of visually distinct color pairs.
type Palette []ColorPair

// DefaultPalette is the twelve-entry pastel palette of the reservation calendar.
var DefaultPalette = Palette{
	{Background: "bg-blue-100", Foreground: "text-blue-700"},
	{Background: "bg-green-100", Foreground: "text-green-700"},
	{Background: "bg-purple-100", Foreground: "text-purple-700"},
	{Background: "bg-orange-100", Foreground: "text-orange-700"},
	{Background: "bg-pink-100", Foreground: "text-pink-700"},
	{Background: "bg-teal-100", Foreground: "text-teal-700"},
	{Background: "bg-indigo-100", Foreground: "text-indigo-700"},
	{Background: "bg-amber-100", Foreground: "text-amber-700"},
	{Background: "bg-cyan-100", Foreground: "text-cyan-700"},
	{Background: "bg-rose-100", Foreground: "text-rose-700"},
	{Background: "bg-violet-100", Foreground: "text-violet-700"},
	{Background: "bg-emerald-100", Foreground: "text-emerald-700"},
}

// ColorFor picks the palette entry for a reservation identifier: the sum of the
// identifier's code points modulo the palette size. The empty identifier maps to
// index 0; an empty palette yields the zero pair.
func ColorFor(id string, palette Palette) ColorPair {
	if len(palette) == 0 {
		return ColorPair{}
	}
	sum := 0
	for _, r := range id {
		sum += int(r)
	}
	return palette[sum%len(palette)]
}
