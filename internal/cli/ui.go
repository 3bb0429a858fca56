package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/accumap/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// datasetColors maps palette names to terminal colours for the summary swatch.
var datasetColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("196"),
	"green":  lipgloss.Color("46"),
	"blue":   lipgloss.Color("33"),
	"purple": lipgloss.Color("201"),
	"yellow": lipgloss.Color("226"),
	"cyan":   lipgloss.Color("51"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSwatch  = "■"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line, with its size when it can be read.
func printFile(path string) {
	line := "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path)
	if info, err := os.Stat(path); err == nil {
		line += " " + StyleDim.Render("("+humanize.Bytes(uint64(info.Size()))+")")
	}
	fmt.Println(line)
}

// =============================================================================
// Run Summary
// =============================================================================

// printSummary prints one line per dataset followed by the output file.
func printSummary(r *pipeline.Result) {
	printSuccess("%s", StyleTitle.Render("Heatmap ready"))
	for _, d := range r.Datasets {
		fmt.Println(datasetLine(d))
	}
	if r.Stats.OutOfBounds > 0 {
		printWarning("%s bins fell outside the canvas", humanize.Comma(int64(r.Stats.OutOfBounds)))
	}
	if r.Stats.Saturated > 0 {
		printDetail("%s pixels saturated", humanize.Comma(int64(r.Stats.Saturated)))
	}
	printFile(r.Output)
}

// datasetLine renders "■ path  kept/read reads · dropped · bins · cached".
func datasetLine(d pipeline.DatasetResult) string {
	swatch := lipgloss.NewStyle().Foreground(datasetColors[d.Color]).Render(iconSwatch)

	parts := []string{
		fmt.Sprintf("%s/%s reads", humanize.Comma(int64(d.Source.Kept)), humanize.Comma(int64(d.Source.Read))),
		fmt.Sprintf("%s dropped", humanize.Comma(int64(d.Source.Dropped()))),
		fmt.Sprintf("%s bins", humanize.Comma(int64(d.Hist.Len()))),
	}

	status, statusStyle := iconFresh, styleComputed
	if d.CacheHit {
		status, statusStyle = iconCached, styleCached
	}

	var b strings.Builder
	b.WriteString("  " + swatch + " " + StyleValue.Render(d.Path) + "  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleNumber.Render(part))
	}
	b.WriteString(StyleDim.Render(" · ") + statusStyle.Render(status))
	return b.String()
}
