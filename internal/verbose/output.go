package verbose

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/chriscorrea/searchtemplater/internal/app"
)

// OutputConfig contains parameters for preview output formatting
type OutputConfig struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	HeaderColor  *color.Color
	WarnColor    *color.Color
	EnableColors bool
}

// DefaultOutputConfig returns a default configuration for preview output
func DefaultOutputConfig(writer io.Writer) *OutputConfig {
	return &OutputConfig{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		HeaderColor:  color.New(color.FgYellow, color.Bold),
		WarnColor:    color.New(color.FgRed),
		EnableColors: true,
	}
}

// PrintPlan displays a planned execution: the short flags two per row, then the long
// values on their own rows, then any warnings
func PrintPlan(plan app.Plan, warnings []string, outputCfg *OutputConfig) {
	if outputCfg == nil {
		outputCfg = DefaultOutputConfig(os.Stderr)
	}

	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	type param struct {
		Key   string
		Value string
	}

	model := plan.Runtime.Model
	if model == "" {
		model = "(none)"
	}

	short := []param{
		{Key: "Template", Value: plan.Template.ID},
		{Key: "Label", Value: plan.Template.Label},
		{Key: "Hints Search", Value: strconv.FormatBool(plan.Runtime.HintsSearch)},
		{Key: "Temporary Chat", Value: strconv.FormatBool(plan.Runtime.TemporaryChat)},
		{Key: "Model", Value: model},
		{Key: "Length", Value: fmt.Sprintf("%d / %d", len(plan.URL), plan.HardLimit)},
	}

	for i := 0; i < len(short); i += 2 {
		p1 := short[i]
		if i+1 < len(short) {
			p2 := short[i+1]
			printRow(w, outputCfg, p1.Key, p1.Value, p2.Key, p2.Value)
		} else {
			printRow(w, outputCfg, p1.Key, p1.Value, "", "")
		}
	}

	printRow(w, outputCfg, "Query", plan.Query, "", "")
	printRow(w, outputCfg, "Encoded Query", plan.EncodedQuery, "", "")
	printRow(w, outputCfg, "URL", plan.URL, "", "")

	fmt.Fprintf(w, "\n")
	w.Flush()

	warn := outputCfg.WarnColor.SprintFunc()
	if !outputCfg.EnableColors {
		warn = fmt.Sprint
	}
	if plan.TooLong {
		fmt.Fprintln(outputCfg.Writer, warn(app.MessageTooLong))
	}
	for _, msg := range warnings {
		fmt.Fprintln(outputCfg.Writer, warn(msg))
	}
}

// printRow prints a multi-column row for one or two key-value pairs
// and handles color formatting and alignment via tabwriter
func printRow(w io.Writer, outputCfg *OutputConfig, key1, value1, key2, value2 string) {
	keySprint := outputCfg.KeyColor.SprintFunc()
	valueSprint := outputCfg.ValueColor.SprintFunc()

	if !outputCfg.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	if key2 != "" {
		fmt.Fprintf(w, "%s:\t%s\t%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
			keySprint(key2),
			valueSprint(value2),
		)
	} else {
		fmt.Fprintf(w, "%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
		)
	}
}
