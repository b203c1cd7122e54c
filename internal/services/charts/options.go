package charts

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultWidth  = 800
	DefaultHeight = 400
)

// ChartOptions are the display props shared by every chart.
type ChartOptions struct {
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Theme      string `json:"theme"`
	Animate    bool   `json:"animate"`
	ShowLegend bool   `json:"showLegend"`
	ShowGrid   bool   `json:"showGrid"`
}

type Option func(*ChartOptions)

func WithSize(width, height int) Option {
	return func(o *ChartOptions) {
		if width > 0 {
			o.Width = width
		}
		if height > 0 {
			o.Height = height
		}
	}
}

func WithTheme(theme string) Option {
	return func(o *ChartOptions) {
		if theme == ThemeDark || theme == ThemeLight {
			o.Theme = theme
		}
	}
}

func WithAnimate(v bool) Option { return func(o *ChartOptions) { o.Animate = v } }

func WithLegend(v bool) Option { return func(o *ChartOptions) { o.ShowLegend = v } }

func WithGrid(v bool) Option { return func(o *ChartOptions) { o.ShowGrid = v } }

// NewOptions starts from 800x400, light theme, legend and grid on.
func NewOptions(opts ...Option) ChartOptions {
	o := ChartOptions{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Theme:      ThemeLight,
		Animate:    true,
		ShowLegend: true,
		ShowGrid:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type palette struct {
	background string
	text       string
	grid       string
}

func (o ChartOptions) palette() palette {
	if o.Theme == ThemeDark {
		return palette{background: "#111827", text: "#F9FAFB", grid: "#374151"}
	}
	return palette{background: "#FFFFFF", text: "#1F2937", grid: "#E5E7EB"}
}
