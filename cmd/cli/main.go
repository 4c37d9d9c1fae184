package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sheetlens/adapters/excel"
	"sheetlens/domain/insight"
	"sheetlens/domain/workbook"
	"sheetlens/internal/analysis"
	"sheetlens/internal/migration"
	"sheetlens/internal/testkit"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "sheetlens-cli",
		Short: "Sheetlens CLI for inspecting and analyzing spreadsheets offline",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newInfoCmd(),
		newColumnsCmd(),
		newSampleCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var kind string
	var column string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Parse a workbook and print generated insights as JSON",
		Long: `Parse a workbook and run the insight pipeline against its first sheet.

Example: sheetlens-cli analyze sales.xlsx --type trend --column Revenue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseFile(args[0])
			if err != nil {
				return err
			}

			if kind == "" {
				return printJSON(cmd.OutOrStdout(), analysisReport{
					Workbook: res.Workbook,
					Insights: analysis.GenerateAll(res),
				})
			}

			k, err := insight.ParseKind(kind)
			if err != nil {
				return err
			}
			rec, err := analysis.Generate(res, k, column)
			if err != nil {
				return fmt.Errorf("error generating %s insight: %w", k, err)
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "Generate a single insight kind (summary, trend, anomaly, prediction, recommendation)")
	cmd.Flags().StringVar(&column, "column", "", "Target column for trend and anomaly insights")

	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Print sheet names and dimensions without extracting rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			info, err := excel.NewParser().Info(data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newColumnsCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns [file]",
		Short: "Classify each column of a sheet and print its statistics",
		Long: `Profile the columns of one sheet: inferred type, analysis eligibility and
descriptive statistics. The first sheet is used unless --sheet is given.

Example: sheetlens-cli columns sales.xlsx --sheet Orders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			parser := excel.NewParser()
			if sheet == "" {
				info, err := parser.Info(data)
				if err != nil {
					return err
				}
				if len(info.Sheets) == 0 {
					return fmt.Errorf("workbook has no sheets")
				}
				sheet = info.Sheets[0].Name
			}

			t, err := parser.ExtractSheet(data, sheet)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), columnsReport{
				Sheet:    sheet,
				RowCount: t.RowCount,
				Columns:  analysis.ProfileColumns(t),
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to profile (defaults to the first sheet)")

	return cmd
}

func newSampleCmd() *cobra.Command {
	var out string
	var orders int
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic orders workbook for demos and manual testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultShoppingConfig()
			cfg.OrderCount = orders
			cfg.Seed = seed

			data, err := testkit.NewShoppingDataGenerator(cfg).Workbook()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d orders to %s\n", orders, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "sample_orders.xlsx", "Output path")
	cmd.Flags().IntVar(&orders, "orders", 120, "Number of order rows")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("database URL is required (--database-url or DATABASE_URL)")
			}

			db, err := sqlx.Connect("postgres", databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := migration.NewRunner().Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")

	return cmd
}

type analysisReport struct {
	Workbook workbook.Metadata `json:"workbook"`
	Insights []insight.Record  `json:"insights"`
}

type columnsReport struct {
	Sheet    string                   `json:"sheet"`
	RowCount int                      `json:"row_count"`
	Columns  []analysis.ColumnProfile `json:"columns"`
}

func parseFile(path string) (*workbook.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res := excel.NewParser().Parse(data)
	if !res.Success {
		return nil, fmt.Errorf("error processing Excel file: %s", res.ErrorMessage)
	}
	return &res, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
