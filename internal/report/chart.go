package report

import (
	"fmt"
	"strings"

	"github.com/seenimoa/newspulse/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	BarHeight    int    // height of one bar row (default: 22)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 20)
	MarginLeft   int    // left margin for labels (default: 80)
	BgColor      string // background color (default: "#ffffff")
	TextColor    string // label color (default: "#333333")
	FontSize     int    // label font size (default: 11)
	MaxBars      int    // rows beyond this are not drawn (default: 30)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		BarHeight:    22,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 20,
		MarginLeft:   80,
		BgColor:      "#ffffff",
		TextColor:    "#333333",
		FontSize:     11,
		MaxBars:      30,
		Title:        "Sentiment by Ticker",
	}
}

// BarItem represents a single bar in a horizontal bar chart.
type BarItem struct {
	Label string
	Value float64 // in [-1, 1]
	Color string  // optional
}

// SentimentChart draws one bar per report row, in row order.
func SentimentChart(rows []models.ReportRow, cfg ChartConfig) string {
	items := make([]BarItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, BarItem{Label: r.Ticker, Value: r.SentimentScore})
	}
	return HorizontalBarChart(items, cfg)
}

// HorizontalBarChart generates an SVG bar chart on a fixed [-1, 1] axis
// centred on zero.
func HorizontalBarChart(items []BarItem, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if len(items) == 0 {
		return emptySVG(cfg, "No data")
	}
	if cfg.MaxBars > 0 && len(items) > cfg.MaxBars {
		items = items[:cfg.MaxBars]
	}

	height := cfg.MarginTop + cfg.MarginBottom + cfg.BarHeight*len(items)
	pw := cfg.Width - cfg.MarginLeft - cfg.MarginRight
	half := float64(pw) / 2
	zeroX := float64(cfg.MarginLeft) + half
	barH := float64(cfg.BarHeight) * 0.7

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg.Width, height))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999" stroke-width="1"/>`,
		zeroX, cfg.MarginTop, zeroX, height-cfg.MarginBottom))

	for i, item := range items {
		v := item.Value
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		color := item.Color
		if color == "" {
			switch models.Classify(v) {
			case models.BucketPositive:
				color = "#4caf50"
			case models.BucketNegative:
				color = "#ef5350"
			default:
				color = "#9e9e9e"
			}
		}

		by := float64(cfg.MarginTop) + float64(i*cfg.BarHeight) + (float64(cfg.BarHeight)-barH)/2
		bw := half * v
		bx := zeroX
		if bw < 0 {
			bw = -bw
			bx = zeroX - bw
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, bw, barH, color))

		// Label
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			cfg.MarginLeft-5, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(item.Label)))

		// Value
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%.2f</text>`,
			zeroX+half+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, item.Value))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func svgHeader(width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		width, height, width, height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	width, height := cfg.Width, 120
	if width == 0 {
		width = 400
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		width, height, width, height, width/2, height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
