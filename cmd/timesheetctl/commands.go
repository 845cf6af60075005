package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/adapters/export/xlsx"
	"github.com/ogurasousui/timesheet-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/timesheet-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/timesheet-clean-arch/internal/platform/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// summarizer は集計コマンドが必要とするユースケースです。
type summarizer interface {
	Summary(ctx context.Context, in report.SummaryInput) (*report.Summary, error)
}

// summaryBackend は設定から集計ユースケースを組み立てます。close は接続を解放します。
type summaryBackend func(ctx context.Context, configPath string) (svc summarizer, closeFn func(), err error)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(databaseBackend, time.Now)
}

func newRootCmdWith(backend summaryBackend, now func() time.Time) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "timesheetctl",
		Short:         "Timesheet calendar and summary tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (defaults to CONFIG_PATH env or assets/local.yaml)")

	root.AddCommand(
		holidaysCmd(now),
		calendarCmd(now),
		hoursCmd(),
		summaryCmd(backend, &configPath),
	)
	return root
}

func holidaysCmd(now func() time.Time) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List US holidays for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = now().Year()
			}
			if year <= 0 {
				return fmt.Errorf("year must be positive: %d", year)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, h := range calendar.HolidayList(year) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", h.Date, calendar.WeekdayLabel(h.Date.Weekday()), h.Full)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (defaults to current year)")
	return cmd
}

func calendarCmd(now func() time.Time) *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid with holidays marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := now()
			if year == 0 {
				year = current.Year()
			}
			if month == 0 {
				month = int(current.Month())
			}

			cells, err := calendar.BuildMonthGrid(year, time.Month(month), nil)
			if err != nil {
				return err
			}
			return printGrid(cmd.OutOrStdout(), year, time.Month(month), cells)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (defaults to current year)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (defaults to current month)")
	return cmd
}

func printGrid(out io.Writer, year int, month time.Month, cells []calendar.Cell) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", calendar.MonthTitle(year, month))

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		fmt.Fprintf(&b, "%-5s", calendar.WeekdayLabel(wd))
	}
	b.WriteString("\n")

	var holidays []calendar.Holiday
	for i, c := range cells {
		switch {
		case c.OtherMonth:
			b.WriteString("     ")
		case c.Holiday != nil:
			fmt.Fprintf(&b, "%3d* ", c.Date.Day)
			holidays = append(holidays, *c.Holiday)
		default:
			fmt.Fprintf(&b, "%3d  ", c.Date.Day)
		}
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	for _, h := range holidays {
		fmt.Fprintf(&b, "* %s %s\n", h.Date, h.Full)
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func hoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hours START END",
		Short: "Compute worked hours between two HH:MM times (overnight supported)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := calendar.ComputeHours(args[0], args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.1f\n", hours)
			return err
		},
	}
}

func summaryCmd(backend summaryBackend, configPath *string) *cobra.Command {
	var (
		start    string
		end      string
		preset   string
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize hours and salary of every employee over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			svc, closeFn, err := backend(ctx, *configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, err := svc.Summary(ctx, report.SummaryInput{Start: start, End: end, Preset: preset})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := writeWorkbook(xlsxPath, summary); err != nil {
					return err
				}
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	cmd.Flags().StringVar(&preset, "range", "", "range preset: thisMonth1, thisMonth2, lastMonth1, lastMonth2")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the summary workbook to this path")
	cmd.MarkFlagsRequiredTogether("start", "end")
	cmd.MarkFlagsMutuallyExclusive("start", "range")
	return cmd
}

func printSummary(out io.Writer, s *report.Summary) error {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(out, "%s - %s\n", s.Start.Chinese(), s.End.Chinese())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "NAME\tDAYS\tHOURS\tSALARY\t")
	for _, e := range s.Employees {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t\n", e.Name, e.WorkDays, p.Sprintf("%.1f", e.TotalHours), p.Sprintf("$%.2f", e.TotalSalary))
	}
	fmt.Fprintf(w, "TOTAL (%d with hours)\t%d\t%s\t%s\t\n",
		s.EmployeeCountWithHours, s.TotalDays, p.Sprintf("%.1f", s.TotalHours), p.Sprintf("$%.2f", s.TotalSalary))
	return w.Flush()
}

func writeWorkbook(path string, s *report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := xlsx.NewSummaryExporter().WriteSummary(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func databaseBackend(ctx context.Context, configPath string) (summarizer, func(), error) {
	cfg, err := config.Load(config.EffectivePath(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		_ = zl.Sync()
		return nil, nil, err
	}
	zl.Debug("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	employees := postgres.NewEmployeeRepository(pool)
	records := postgres.NewWorkRecordRepository(pool)
	svc := report.NewService(employees, records, nil, pg.NewTransactionManager(pool))

	closeFn := func() {
		pool.Close()
		_ = zl.Sync()
	}
	return svc, closeFn, nil
}
