package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// filterFlags are the dashboard filters exposed on the command line
type filterFlags struct {
	start    string
	end      string
	weather  []string
	traffic  []string
	vehicle  []string
	area     []string
	category []string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&ff.start, "start", "", "Start date (YYYY-MM-DD), inclusive")
	flags.StringVar(&ff.end, "end", "", "End date (YYYY-MM-DD), inclusive")
	flags.StringSliceVar(&ff.weather, "weather", nil, "Weather values to include")
	flags.StringSliceVar(&ff.traffic, "traffic", nil, "Traffic values to include")
	flags.StringSliceVar(&ff.vehicle, "vehicle", nil, "Vehicle values to include")
	flags.StringSliceVar(&ff.area, "area", nil, "Area values to include")
	flags.StringSliceVar(&ff.category, "category", nil, "Category values to include")
}

// build converts the flags into a filter. An unset flag allows every value;
// a flag set to "" allows none.
func (ff *filterFlags) build(cmd *cobra.Command) (models.DeliveryFilter, error) {
	var f models.DeliveryFilter
	var err error

	if ff.start != "" {
		if f.StartDate, err = time.Parse("2006-01-02", ff.start); err != nil {
			return f, fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", ff.start)
		}
	}
	if ff.end != "" {
		if f.EndDate, err = time.Parse("2006-01-02", ff.end); err != nil {
			return f, fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", ff.end)
		}
	}

	pick := func(name string, values []string) []string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	f.Weather = pick("weather", ff.weather)
	f.Traffic = pick("traffic", ff.traffic)
	f.Vehicle = pick("vehicle", ff.vehicle)
	f.Area = pick("area", ff.area)
	f.Category = pick("category", ff.category)
	return f, nil
}
