package doc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/chainview/op-service/metrics"
)

var (
	Markdown = "markdown"
	JSON     = "json"
)

type Documentor interface {
	Document() []metrics.DocumentedMetric
}

func NewSubcommands(m Documentor) cli.Commands {
	return cli.Commands{
		{
			Name:  "metrics",
			Usage: "Dumps a list of supported metrics to stdout",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: "markdown",
					Usage: "Output format (json|markdown)",
				},
			},
			Action: func(ctx *cli.Context) error {
				supportedMetrics := m.Document()
				format := ctx.String("format")

				if format != Markdown && format != JSON {
					return fmt.Errorf("invalid format: %s", format)
				}

				if format == Markdown {
					return markdownFormat(ctx.App.Writer, supportedMetrics)
				}
				return jsonFormat(ctx.App.Writer, supportedMetrics)
			},
		},
	}
}

func markdownFormat(w io.Writer, supportedMetrics []metrics.DocumentedMetric) error {
	table := tablewriter.NewWriter(w)
	data := make([][]string, 0, len(supportedMetrics))
	for _, metric := range supportedMetrics {
		labels := strings.Join(metric.Labels, ",")
		data = append(data, []string{metric.Name, metric.Type, labels, metric.Help})
	}
	table.SetHeader([]string{"Metric", "Type", "Labels", "Description"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
	return nil
}

func jsonFormat(w io.Writer, supportedMetrics []metrics.DocumentedMetric) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(supportedMetrics)
}
