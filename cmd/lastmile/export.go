package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportDir     string
	exportNoLog   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records to a CSV or XLSX file",
	Long: `Applies the filters and writes the matching records, with the derived columns,
to filtered_delivery_data_YYYYMMDD.<format> in the export directory.

Example:
  lastmile export --weather Stormy,Fog --format xlsx --dir ./out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := exportFilters.build(cmd)
		if err != nil {
			return err
		}

		app, err := newApplication(!exportNoLog)
		if err != nil {
			return err
		}
		defer app.Close()

		path, rec, err := app.exports.ExportToDir(cmd.Context(), exportDir, f, exportFormat, models.ExportTriggerCLI)
		if err != nil {
			return err
		}

		logger.Debug("Export recorded", zap.String("id", rec.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rec.RowCount, path)
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "csv or xlsx (defaults to export.format)")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (defaults to export.dir)")
	exportCmd.Flags().BoolVar(&exportNoLog, "no-history", false, "Do not record the export in the database")
}
