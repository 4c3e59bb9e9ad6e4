package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/internal/report"
	"partner-portal/internal/services"
	"partner-portal/internal/store"
	"partner-portal/models"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	partnerID string
	from      string
	to        string
	period    string
	days      int
	out       string
}

// newExportCommand writes a partner's CSV report from the command line, for
// back office staff who need a report without signing in as the partner.
func newExportCommand(p *portal) *cobra.Command {
	opts := &exportOptions{}

	command := &cobra.Command{
		Use:       "export [sales|analytics|summary|payments]",
		Short:     "Export a partner report as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"sales", "analytics", "summary", "payments"},
		RunE: func(command *cobra.Command, args []string) error {
			return runExport(command.Context(), p, args[0], opts, command.OutOrStdout())
		},
	}

	command.Flags().StringVar(&opts.partnerID, "partner", "", "partner id (required)")
	command.Flags().StringVar(&opts.from, "from", "", "first day, 2006-01-02")
	command.Flags().StringVar(&opts.to, "to", "", "last day, 2006-01-02")
	command.Flags().StringVar(&opts.period, "period", "daily", "analytics bucket: daily, weekly or monthly")
	command.Flags().IntVar(&opts.days, "days", services.DefaultSummaryDays, "summary window in days")
	command.Flags().StringVarP(&opts.out, "out", "o", "", "output file, stdout when empty")
	_ = command.MarkFlagRequired("partner")

	return command
}

func runExport(ctx context.Context, p *portal, kind string, opts *exportOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	partner, err := p.partners.FindByID(ctx, opts.partnerID)
	if err != nil {
		return fmt.Errorf("partner %s: %w", opts.partnerID, err)
	}
	session := models.NewPartnerSession(partner, time.Now())

	r, err := exportRange(opts, p.sales.Location())
	if err != nil {
		return err
	}

	render, err := exportRenderer(ctx, p, kind, session, r, opts)
	if err != nil {
		return err
	}

	if opts.out == "" {
		return render(stdout)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("os.Create(): %w", err)
	}
	defer f.Close()
	return render(f)
}

// exportRenderer loads the report data, so nothing is written until the
// report is known and its rows are in hand.
func exportRenderer(ctx context.Context, p *portal, kind string, session models.PartnerSession, r store.Range, opts *exportOptions) (func(io.Writer) error, error) {
	switch kind {
	case "sales":
		view, err := p.sales.Sales(ctx, session, services.SalesQuery{Range: r})
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.WriteSales(w, view.Rows, p.sales.Location()) }, nil

	case "analytics":
		view, err := p.sales.Analytics(ctx, session, services.AnalyticsQuery{
			Range:  r,
			Period: aggregate.ParsePeriod(opts.period),
			Top:    services.DefaultTopN,
		})
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.WriteAnalytics(w, view.Report.Buckets) }, nil

	case "summary":
		summary, err := p.sales.Summary(ctx, session, services.ClampDays(opts.days))
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.WriteSummary(w, *summary) }, nil

	case "payments":
		payments, err := p.payments.List(ctx, session)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.WritePayments(w, payments, p.sales.Location()) }, nil
	}

	return nil, fmt.Errorf("unknown report %q", kind)
}

func exportRange(opts *exportOptions, loc *time.Location) (store.Range, error) {
	var r store.Range
	if opts.from != "" {
		from, err := time.ParseInLocation(time.DateOnly, opts.from, loc)
		if err != nil {
			return r, fmt.Errorf("--from: %w", err)
		}
		r.From = from
	}
	if opts.to != "" {
		to, err := time.ParseInLocation(time.DateOnly, opts.to, loc)
		if err != nil {
			return r, fmt.Errorf("--to: %w", err)
		}
		r.To = to.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return r, nil
}
