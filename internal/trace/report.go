package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	chartWidth  = 64
	chartHeight = 10
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Render writes a styled summary followed by energy and height charts.
func (r Report) Render(w io.Writer) error {
	rows := [][2]string{
		{"preset", r.Preset},
		{"steps", fmt.Sprintf("%d (%.2fs simulated)", r.Steps, r.Result.Time)},
		{"dropped", fmt.Sprint(r.Dropped)},
		{"wall hits", fmt.Sprint(r.Stats.WallHits)},
		{"body hits", fmt.Sprint(r.Stats.BodyHits)},
		{"goals", fmt.Sprint(r.Stats.Goals)},
		{"lost", fmt.Sprint(r.Stats.Lost)},
	}
	if r.Result.MaxScore > 0 {
		rows = append(rows, [2]string{"score", fmt.Sprintf("%d/%d", r.Result.Score, r.Result.MaxScore)})
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Ball drop trace"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteByte('\n')
	}

	sections := []string{boxStyle.Render(strings.TrimRight(b.String(), "\n"))}
	if chart := plot(r.Energy, "kinetic energy"); chart != "" {
		sections = append(sections, chart)
	}
	if chart := plot(r.Height, "ball height"); chart != "" {
		sections = append(sections, chart)
	}

	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, sections...)+"\n")
	return err
}

// plot draws a series, or returns "" when there is too little to draw.
func plot(series []float64, caption string) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Caption(caption),
	)
}
