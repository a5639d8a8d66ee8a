package main

import (
	"fmt"
	"strings"

	"github.com/SamuelLeutner/student-declarations/config"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/SamuelLeutner/student-declarations/utils"
	"github.com/spf13/cobra"
)

// newSheetsCommand prints, per configured tab, the header row that will be
// used and how many records it yields. With --email it also resolves the
// student registered under that address.
func newSheetsCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Inspect the configured spreadsheet tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.AppConfig
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			reader := services.NewGoogleSheetsReader(cfg, appLogger)

			titles, err := reader.SheetTitles(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Spreadsheet tabs: %s\n\n", strings.Join(titles, ", "))

			for _, table := range cfg.SourceTables {
				rows, err := reader.GetRows(ctx, fmt.Sprintf("'%s'!%s", table.Name, cfg.SheetRangeColumns))
				if err != nil {
					fmt.Fprintf(out, "%-22s ERROR %v\n", table.Name, err)
					continue
				}
				records := services.ParseSheetRows(table, rows)

				var headers []string
				if table.HeaderRowIndex < len(rows) {
					for _, cell := range rows[table.HeaderRowIndex] {
						if h := utils.CellString(cell); h != "" {
							headers = append(headers, h)
						}
					}
				}
				if len(headers) > 5 {
					headers = append(headers[:5], "...")
				}
				fmt.Fprintf(out, "%-22s header row %d, %d records: %s\n",
					table.Name, table.HeaderRowIndex+1, len(records), strings.Join(headers, ", "))
			}

			if email == "" {
				return nil
			}
			repository := services.NewStudentRepository(reader, cfg.SourceTables, cfg.SheetRangeColumns, appLogger)
			student, err := services.NewStudentLocator(repository, cfg.SearchLimit).FindByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("lookup of %s failed: %w", email, err)
			}
			fmt.Fprintf(out, "\n%s -> %s (%s) tab=%s status=%s\n",
				email, student.Name(), utils.FormatCPF(student.CPF()), student.SourceSheet, student.Status())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "also look up the student with this e-mail")
	return cmd
}

func newLogsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the latest login and declaration audit rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := services.OpenAuditDatabase(&config.AppConfig, appLogger)
			if err != nil {
				return err
			}
			audit := services.NewGormAuditRecorder(db)
			out := cmd.OutOrStdout()

			logins, err := audit.RecentLogins(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Latest %d logins:\n", len(logins))
			for _, l := range logins {
				fmt.Fprintf(out, "  #%d %s %s %s %s\n", l.ID, l.DataAcesso.Format("02/01/2006 15:04:05"), l.EmailUsuario, l.IPAddress, truncate(l.UserAgent, 20))
			}

			declarations, err := audit.RecentDeclarations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Latest %d declarations:\n", len(declarations))
			for _, d := range declarations {
				fmt.Fprintf(out, "  #%d %s %s -> %s (%s) status=%s warning=%t\n",
					d.ID, d.DataGeracao.Format("02/01/2006 15:04:05"), d.EmailUsuario, d.NomeAluno,
					utils.FormatCPF(d.CPFAluno), d.StatusPagamento, d.WarningExibido)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of rows per table")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the audit tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := services.OpenAuditDatabase(&config.AppConfig, appLogger)
			if err != nil {
				return err
			}
			if err := services.MigrateAudit(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Audit tables are up to date.")
			return nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
