package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

var reportFilters filterFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard as terminal tables",
	Long: `Loads the data file, applies the filters and prints the KPI cards, the
category, agent, weather and area tables and the recommendations.

Example:
  lastmile report --start 2022-03-01 --end 2022-03-31 --vehicle van`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := reportFilters.build(cmd)
		if err != nil {
			return err
		}

		app, err := newApplication(false)
		if err != nil {
			return err
		}
		defer app.Close()

		dash, err := app.analytics.Dashboard(cmd.Context(), f)
		if err != nil {
			return err
		}
		renderReport(cmd.OutOrStdout(), dash)
		return nil
	},
}

func init() {
	reportFilters.register(reportCmd)
}

func renderReport(w io.Writer, dash *models.Dashboard) {
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w, "Key Performance Indicators")
	kpis := tablewriter.NewWriter(w)
	kpis.SetHeader([]string{"Total Orders", "Avg Delivery Time", "On-Time Delivery", "Avg Agent Rating"})
	kpis.Append([]string{
		p.Sprintf("%d", dash.KPIs.TotalOrders),
		optional(p, "%.1f min", dash.KPIs.AvgDeliveryTime),
		optional(p, "%.1f%%", dash.KPIs.OnTimeRate),
		optional(p, "%.2f/5", dash.KPIs.AvgAgentRating),
	})
	kpis.Render()

	if dash.RowCount == 0 {
		fmt.Fprintln(w, dash.KPIs.Message)
		return
	}

	fmt.Fprintln(w, "\nDelivery Types")
	types := tablewriter.NewWriter(w)
	types.SetHeader([]string{"Type", "Orders"})
	for _, tc := range dash.Overview.DeliveryTypeCounts {
		types.Append([]string{tc.Label, p.Sprintf("%d", tc.Count)})
	}
	types.Render()

	fmt.Fprintln(w, "\nPerformance by Category")
	renderGroupStats(w, p, "Category", dash.Overview.CategoryStats)

	fmt.Fprintln(w, "\nAgent Efficiency by Age")
	eff := tablewriter.NewWriter(w)
	eff.SetHeader([]string{"Age", "Avg Time", "Avg Rating", "Orders", "Min/km"})
	for _, e := range dash.Agents.Efficiency {
		eff.Append([]string{
			p.Sprintf("%.0f", e.AgentAge),
			p.Sprintf("%.2f", e.AvgDeliveryTime),
			p.Sprintf("%.2f", e.AvgRating),
			p.Sprintf("%d", e.TotalOrders),
			optional(p, "%.2f", e.EfficiencyScore),
		})
	}
	eff.Render()

	fmt.Fprintln(w, "\nWeather Impact")
	weather := tablewriter.NewWriter(w)
	weather.SetHeader([]string{"Weather", "Avg Time"})
	for _, pt := range dash.WeatherTraffic.WeatherImpact {
		weather.Append([]string{pt.Key, p.Sprintf("%.2f", pt.AvgDeliveryTime)})
	}
	weather.Render()

	fmt.Fprintln(w, "\nArea Performance")
	renderGroupStats(w, p, "Area", dash.Geographic.AreaPerformance)
	if !dash.Geographic.MapAvailable {
		fmt.Fprintln(w, dash.Geographic.MapMessage)
	}

	fmt.Fprintln(w, "\nRecommendations")
	for _, rec := range dash.Recommendations {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(rec.Level), rec.Message)
		for _, action := range rec.Actions {
			fmt.Fprintf(w, "  - %s\n", action)
		}
	}
}

func renderGroupStats(w io.Writer, p *message.Printer, key string, rows []models.GroupStat) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{key, "Avg Time", "Orders", "Avg Rating"})
	for _, row := range rows {
		table.Append([]string{
			row.Key,
			p.Sprintf("%.2f", row.AvgDeliveryTime),
			p.Sprintf("%d", row.OrderCount),
			p.Sprintf("%.2f", row.AvgRating),
		})
	}
	table.Render()
}

func optional(p *message.Printer, format string, v *float64) string {
	if v == nil {
		return "n/a"
	}
	return p.Sprintf(format, *v)
}
