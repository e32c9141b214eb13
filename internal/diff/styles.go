package diff

// Palette is the color set for one theme.
type Palette struct {
	Background        string
	Color             string
	AddedBackground   string
	AddedColor        string
	RemovedBackground string
	RemovedColor      string
	GutterBackground  string
	GutterColor       string
}

// Styles are the presentation parameters handed to the diff template.
type Styles struct {
	Light Palette
	Dark  Palette

	LinePadding    string
	LineMinHeight  string
	LineFontSize   string
	LineHeight     string
	FontFamily     string
	GutterPadding  string
	GutterMinWidth string
	GutterFontSize string
}

var DefaultStyles = Styles{
	Light: Palette{
		Background:        "#ffffff",
		Color:             "#111827",
		AddedBackground:   "#ecfdf5",
		AddedColor:        "#064e3b",
		RemovedBackground: "#fef2f2",
		RemovedColor:      "#7f1d1d",
		GutterBackground:  "#ffffff",
		GutterColor:       "#6e7681",
	},
	Dark: Palette{
		Background:        "rgb(17 24 39)",
		Color:             "rgb(243 244 246)",
		AddedBackground:   "#1e392b",
		AddedColor:        "#e2e8f0",
		RemovedBackground: "#3c2626",
		RemovedColor:      "#e2e8f0",
		GutterBackground:  "rgb(17 24 39)",
		GutterColor:       "#858585",
	},
	LinePadding:    "0 15px",
	LineMinHeight:  "20px",
	LineFontSize:   "13px",
	LineHeight:     "20px",
	FontFamily:     "monospace",
	GutterPadding:  "0 10px",
	GutterMinWidth: "35px",
	GutterFontSize: "12px",
}

// Palette returns the dark or light palette.
func (s Styles) Palette(dark bool) Palette {
	if dark {
		return s.Dark
	}
	return s.Light
}
