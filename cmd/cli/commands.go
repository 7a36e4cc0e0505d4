package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
)

func parseDay(flag, value string) (dto.Date, error) {
	t, err := domain.ParseDate(value)
	if err != nil {
		return dto.Date{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return dto.NewDate(t), nil
}

func trialBalanceCmd(opts *options) *cobra.Command {
	var from, to, classes, openingFrom string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"date_from": {from}, "date_to": {to}}
			if classes != "" {
				query.Set("classes", classes)
			}
			if openingFrom != "" {
				query.Set("opening_from", openingFrom)
			}

			var tb dto.TrialBalanceResponse
			if err := opts.do(http.MethodGet, "/trial-balance", query, nil, &tb); err != nil {
				return err
			}
			if opts.jsonOutput() {
				printJSON(tb)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "ACCOUNT\tNAME\tOPENING MD\tOPENING D\tPERIOD MD\tPERIOD D\tCLOSING MD\tCLOSING D\t")
			for _, row := range tb.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					row.AccountCode, truncate(row.AccountName, 30),
					row.Opening.Debit.StringFixed(2), row.Opening.Credit.StringFixed(2),
					row.Period.Debit.StringFixed(2), row.Period.Credit.StringFixed(2),
					row.Closing.Debit.StringFixed(2), row.Closing.Credit.StringFixed(2))
			}
			fmt.Fprintf(w, "TOTAL\t\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				tb.Totals.Opening.Debit.StringFixed(2), tb.Totals.Opening.Credit.StringFixed(2),
				tb.Totals.Period.Debit.StringFixed(2), tb.Totals.Period.Credit.StringFixed(2),
				tb.Totals.Closing.Debit.StringFixed(2), tb.Totals.Closing.Credit.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}

			if tb.IsBalanced {
				fmt.Println("Balanced: yes")
			} else {
				fmt.Println("Balanced: NO")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&classes, "classes", "", "Comma separated account classes, e.g. 5,6")
	cmd.Flags().StringVar(&openingFrom, "opening-from", "", "Sum opening balances from this day, defaults to the latest carry-forward")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func checklistCmd(opts *options) *cobra.Command {
	var fiscalYearID string

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Year-end closing checklist",
	}
	cmd.PersistentFlags().StringVar(&fiscalYearID, "fiscal-year", "", "Fiscal year ID")
	_ = cmd.MarkPersistentFlagRequired("fiscal-year")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show checklist items and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.ChecklistResponse
			if err := opts.do(http.MethodGet, "/closing/checklist", url.Values{"fiscal_year_id": {fiscalYearID}}, nil, &list); err != nil {
				return err
			}
			printChecklist(opts, &list)
			return nil
		},
	}

	var note string
	set := &cobra.Command{
		Use:   "set <item-id> <status>",
		Short: "Set an item to pending, done, skipped or na",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.SetChecklistItemRequest{
				FiscalYearID: fiscalYearID,
				ItemID:       domain.ChecklistItemID(args[0]),
				Status:       domain.ChecklistStatus(args[1]),
				Note:         note,
			}
			var list dto.ChecklistResponse
			if err := opts.do(http.MethodPost, "/closing/checklist", nil, req, &list); err != nil {
				return err
			}
			printChecklist(opts, &list)
			return nil
		},
	}
	set.Flags().StringVar(&note, "note", "", "Note stored with the verdict")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Run the automatic checklist verifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.ChecklistResponse
			req := dto.VerifyChecklistRequest{FiscalYearID: fiscalYearID}
			if err := opts.do(http.MethodPost, "/closing/checklist/verify", nil, req, &list); err != nil {
				return err
			}
			printChecklist(opts, &list)
			return nil
		},
	}

	cmd.AddCommand(show, set, verify)
	return cmd
}

func printChecklist(opts *options, list *dto.ChecklistResponse) {
	if opts.jsonOutput() {
		printJSON(list)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSTATUS\tNOTE")
	for _, item := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.ItemID, item.Status, truncate(item.Note, 40))
	}
	_ = w.Flush()

	p := list.Progress
	fmt.Printf("Progress: %.1f%% (%d done, %d skipped, %d n/a, %d pending)\n",
		p.Percentage, p.Done, p.Skipped, p.NA, p.Pending)
}

func closingCmd(opts *options) *cobra.Command {
	var fiscalYearID string

	cmd := &cobra.Command{
		Use:   "closing",
		Short: "Year-end closing operations",
	}
	cmd.PersistentFlags().StringVar(&fiscalYearID, "fiscal-year", "", "Fiscal year ID")
	_ = cmd.MarkPersistentFlagRequired("fiscal-year")

	var from, to string
	execute := &cobra.Command{
		Use:   "execute <revenue_close|expense_close|profit_loss_close|balance_close>",
		Short: "Execute one closing operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ExecuteClosingRequest{
				FiscalYearID: fiscalYearID,
				Type:         domain.ClosingOperationType(args[0]),
			}
			if from != "" {
				d, err := parseDay("from", from)
				if err != nil {
					return err
				}
				req.PeriodStart = &d
			}
			if to != "" {
				d, err := parseDay("to", to)
				if err != nil {
					return err
				}
				req.PeriodEnd = &d
			}

			var op dto.ClosingOperationResponse
			if err := opts.do(http.MethodPost, "/closing/operations", nil, req, &op); err != nil {
				return err
			}
			if opts.jsonOutput() {
				printJSON(op)
				return nil
			}
			entry := "-"
			if op.JournalEntryID != nil {
				entry = *op.JournalEntryID
			}
			fmt.Printf("Executed %s: operation %s, entry %s, %d accounts, total %s\n",
				op.Type, op.ID, entry, op.AccountsCount, op.TotalAmount.StringFixed(2))
			return nil
		},
	}
	execute.Flags().StringVar(&from, "from", "", "Period start, defaults to the fiscal year start")
	execute.Flags().StringVar(&to, "to", "", "Period end, defaults to the fiscal year end")

	list := &cobra.Command{
		Use:   "list",
		Short: "List executed closing operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Operations []*dto.ClosingOperationResponse `json:"operations"`
			}
			if err := opts.do(http.MethodGet, "/closing/operations", url.Values{"fiscal_year_id": {fiscalYearID}}, nil, &resp); err != nil {
				return err
			}
			if opts.jsonOutput() {
				printJSON(resp)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tID\tACCOUNTS\tTOTAL\tCREATED")
			for _, op := range resp.Operations {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", op.Type, op.ID, op.AccountsCount,
					op.TotalAmount.StringFixed(2), op.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(execute, list)
	return cmd
}

func periodCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Period locks",
	}

	var from, to string
	lock := &cobra.Command{
		Use:   "lock",
		Short: "Lock an inclusive date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end, err := parseDay("to", to)
			if err != nil {
				return err
			}

			var l dto.PeriodLockResponse
			req := dto.LockPeriodRequest{PeriodStart: start, PeriodEnd: end}
			if err := opts.do(http.MethodPost, "/closing/period-lock", nil, req, &l); err != nil {
				return err
			}
			printLock(opts, &l)
			return nil
		},
	}
	lock.Flags().StringVar(&from, "from", "", "First locked day (YYYY-MM-DD)")
	lock.Flags().StringVar(&to, "to", "", "Last locked day (YYYY-MM-DD)")
	_ = lock.MarkFlagRequired("from")
	_ = lock.MarkFlagRequired("to")

	unlock := &cobra.Command{
		Use:   "unlock <lock-id>",
		Short: "Lift a period lock (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l dto.PeriodLockResponse
			if err := opts.do(http.MethodDelete, "/closing/period-lock/"+url.PathEscape(args[0]), nil, nil, &l); err != nil {
				return err
			}
			printLock(opts, &l)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List period locks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Locks []*dto.PeriodLockResponse `json:"locks"`
			}
			if err := opts.do(http.MethodGet, "/closing/period-lock", nil, nil, &resp); err != nil {
				return err
			}
			if opts.jsonOutput() {
				printJSON(resp)
				return nil
			}
			for _, l := range resp.Locks {
				printLock(opts, l)
			}
			return nil
		},
	}

	cmd.AddCommand(lock, unlock, list)
	return cmd
}

func printLock(opts *options, l *dto.PeriodLockResponse) {
	if opts.jsonOutput() {
		printJSON(l)
		return
	}
	state := "unlocked"
	if l.Locked {
		state = "locked"
	}
	fmt.Printf("%s %s..%s %s\n", l.ID, domain.FormatDate(l.PeriodStart.Time), domain.FormatDate(l.PeriodEnd.Time), state)
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	resolve := func() (string, string, error) {
		cfg, err := config.Load()
		if err != nil {
			return "", "", err
		}
		dbURL, path := databaseURL, migrationsPath
		if dbURL == "" {
			dbURL = cfg.DatabaseURL
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		return dbURL, path, nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL, defaults to DATABASE_URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory, defaults to MIGRATIONS_PATH")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, path, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(dbURL, path)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, path, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(dbURL, path)
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, path, err := resolve()
			if err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(dbURL, path)
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty: %v)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret    string
		role      string
		companyID string
		email     string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a signed API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.Actor{
				ID:        args[0],
				Email:     email,
				Role:      domain.Role(role),
				CompanyID: companyID,
			})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAccountant), "admin, accountant or viewer")
	cmd.Flags().StringVar(&companyID, "company", "", "Pin the token to one company")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
