package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meditrack/meditrack/internal/config"
	"github.com/meditrack/meditrack/internal/domain/insights"
	"github.com/meditrack/meditrack/internal/domain/records"
	"github.com/meditrack/meditrack/internal/export"
	"github.com/meditrack/meditrack/internal/platform/api"
	"github.com/meditrack/meditrack/internal/platform/dashboard"
	"github.com/meditrack/meditrack/internal/platform/session"
	"github.com/meditrack/meditrack/internal/render"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "meditrack",
		Short: "Medical prescription tracker client",
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(archiveCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(daywiseCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(purgeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what nearly every command needs.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *api.Client
	store  *session.FileStore
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	return &app{
		cfg:    cfg,
		log:    logger,
		client: api.NewClient(cfg.APIURL, time.Duration(cfg.TimeoutSeconds)*time.Second, logger),
		store:  session.NewFileStore(cfg.SessionFile),
	}, nil
}

// authedApp is newApp plus the session gate every data screen sits behind.
func authedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := session.RequireAuth(a.store); err != nil {
		return nil, fmt.Errorf("%w: run `meditrack login` first", err)
	}
	return a, nil
}

func prompt(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// -- Auth commands --

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if username == "" {
				if username, err = prompt("Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt("Password"); err != nil {
					return err
				}
			}

			payload, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errors.New("Invalid username or password")
				}
				return err
			}

			marker, err := json.Marshal(session.Session{Username: username, Raw: payload})
			if err != nil {
				return fmt.Errorf("encode session: %w", err)
			}
			if err := a.store.Set(marker); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "login username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "login password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sess, err := a.store.Get()
			if err != nil {
				return err
			}
			if sess.Username == "" {
				fmt.Println("Logged in (session stored).")
				return nil
			}
			fmt.Printf("Logged in as %s.\n", sess.Username)
			return nil
		},
	}
}

// -- Record commands --

func listCmd() *cobra.Command {
	var search, start, end string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prescriptions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}

			eng := records.NewEngine(a.client, a.log)
			if err := eng.SetDateRange(cmd.Context(), start, end); err != nil {
				return err
			}
			if start == "" || end == "" {
				if err := eng.Refresh(cmd.Context()); err != nil {
					return err
				}
			}
			eng.SetSearch(search)
			if page > 1 {
				eng.GoToPage(page)
			}

			render.Prescriptions(os.Stdout, eng.Page())
			render.PageFooter(os.Stdout, eng.CurrentPage(), eng.TotalPages(), len(eng.Filtered()))
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by patient name or diagnosis")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			p, err := a.client.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			render.Prescriptions(os.Stdout, []records.Prescription{*p})
			return nil
		},
	}
}

func formFlags(cmd *cobra.Command, d *records.FormData) {
	cmd.Flags().StringVar(&d.PrescriptionDate, "date", "", "prescription date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.PatientName, "name", "", "patient name")
	cmd.Flags().StringVar(&d.PatientAge, "age", "", "patient age")
	cmd.Flags().StringVar(&d.PatientGender, "gender", "", "patient gender (male, female, other)")
	cmd.Flags().StringVar(&d.Diagnosis, "diagnosis", "", "diagnosis, comma separated")
	cmd.Flags().StringVar(&d.Medicines, "medicines", "", "medicines, comma separated")
	cmd.Flags().StringVar(&d.NextVisitDate, "next-visit", "", "next visit date (YYYY-MM-DD)")
}

func printFieldErrors(errs records.ValidationErrors) {
	for field, msg := range errs {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
	}
}

func createCmd() *cobra.Command {
	var data records.FormData

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prescription",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}

			form := records.NewCreateForm()
			form.Data = data
			saved, err := form.Submit(cmd.Context(), a.client)
			if err != nil {
				var verrs records.ValidationErrors
				if errors.As(err, &verrs) {
					printFieldErrors(verrs)
				}
				return err
			}

			fmt.Printf("Prescription %d created.\n", saved.ID)
			// Brief pause before returning to the list, like the create
			// screen's success banner.
			time.Sleep(records.RedirectDelay)

			eng := records.NewEngine(a.client, a.log)
			if err := eng.Refresh(cmd.Context()); err != nil {
				return err
			}
			render.Prescriptions(os.Stdout, eng.Page())
			render.PageFooter(os.Stdout, eng.CurrentPage(), eng.TotalPages(), len(eng.Filtered()))
			return nil
		},
	}
	formFlags(cmd, &data)
	return cmd
}

func editCmd() *cobra.Command {
	var data records.FormData

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			current, err := a.client.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			form := records.NewEditForm(id, *current)
			// Only the flags the user set override the fetched record.
			if cmd.Flags().Changed("date") {
				form.Data.PrescriptionDate = data.PrescriptionDate
			}
			if cmd.Flags().Changed("name") {
				form.Data.PatientName = data.PatientName
			}
			if cmd.Flags().Changed("age") {
				form.Data.PatientAge = data.PatientAge
			}
			if cmd.Flags().Changed("gender") {
				form.Data.PatientGender = data.PatientGender
			}
			if cmd.Flags().Changed("diagnosis") {
				form.Data.Diagnosis = data.Diagnosis
			}
			if cmd.Flags().Changed("medicines") {
				form.Data.Medicines = data.Medicines
			}
			if cmd.Flags().Changed("next-visit") {
				form.Data.NextVisitDate = data.NextVisitDate
			}

			saved, err := form.Submit(cmd.Context(), a.client)
			if err != nil {
				var verrs records.ValidationErrors
				if errors.As(err, &verrs) {
					printFieldErrors(verrs)
				}
				return err
			}
			fmt.Printf("Prescription %d updated.\n", saved.ID)
			return nil
		},
	}
	formFlags(cmd, &data)
	return cmd
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if !yes && !records.Confirm(os.Stdin, os.Stderr, fmt.Sprintf("Delete prescription %d?", id)) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := a.client.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Prescription %d deleted.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func archiveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Move a prescription to history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if !yes && !records.Confirm(os.Stdin, os.Stderr, fmt.Sprintf("Archive prescription %d?", id)) {
				fmt.Println("Cancelled.")
				return nil
			}

			eng := records.NewEngine(a.client, a.log)
			if err := eng.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := eng.Archive(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Prescription %d archived.\n", id)
			return nil
		},
	}
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func historyCmd() *cobra.Command {
	var name, start, end string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}

			var hs []records.History
			switch {
			case name != "":
				hs, err = a.client.HistoryByName(cmd.Context(), name)
			case start != "" && end != "":
				hs, err = a.client.HistoryByDate(cmd.Context(), start, end)
			default:
				hs, err = a.client.ListHistory(cmd.Context())
			}
			if err != nil {
				return err
			}
			render.Histories(os.Stdout, hs)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filter by patient name")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	return cmd
}

// -- Reports --

func exportCmd() *cobra.Command {
	var start, end, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the prescription list as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}

			ps, err := a.client.List(cmd.Context())
			if err != nil {
				return err
			}
			records.SortByDateDesc(ps)
			ps = export.FilterByDate(ps, start, end)

			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path := filepath.Join(dir, export.ListFilename(start, end))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()

			if err := export.PrescriptionList(f, ps); err != nil {
				os.Remove(path)
				return err
			}
			fmt.Printf("Wrote %s (%d records).\n", path, len(ps))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dir, "out", "", "output directory (defaults to MEDITRACK_EXPORT_DIR)")
	return cmd
}

func daywiseCmd() *cobra.Command {
	var start, end string
	var pdf bool

	cmd := &cobra.Command{
		Use:   "daywise",
		Short: "Daily prescription counts for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			if start == "" || end == "" {
				return errors.New("both --start and --end are required")
			}

			rows, err := a.client.DayWiseReport(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			render.DayWise(os.Stdout, rows)

			if pdf {
				path := filepath.Join(a.cfg.ExportDir, export.DayWiseFilename(start, end))
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer f.Close()
				if err := export.DayWiseReport(f, rows); err != nil {
					os.Remove(path)
					return err
				}
				fmt.Printf("Wrote %s.\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also write the report as a PDF")
	return cmd
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Aggregated statistics over the prescription set",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}

			ps, err := a.client.List(cmd.Context())
			if err != nil {
				return err
			}
			end := time.Now()
			startDate := end.AddDate(0, 0, -30)
			daywise, err := a.client.DayWiseReport(cmd.Context(),
				startDate.Format(records.DateLayout), end.Format(records.DateLayout))
			if err != nil {
				return err
			}

			fmt.Println("Top Diagnoses")
			render.NameCounts(os.Stdout, "Diagnosis", "Count", insights.TopDiagnoses(ps))
			fmt.Println("Most Prescribed Medicines")
			render.NameCounts(os.Stdout, "Medicine", "Count", insights.TopMedicines(ps))

			age := insights.AgeDistribution(ps)
			render.Distribution(os.Stdout, "Patient Age Distribution", insights.AgeBucketLabels[:], age[:])
			gender := insights.GenderDistribution(ps)
			render.Distribution(os.Stdout, "Patient Gender Distribution", insights.GenderLabels[:], gender[:])
			months := insights.VisitsPerMonth(daywise)
			render.Distribution(os.Stdout, "Visits Per Month", insights.MonthLabels[:], months[:])

			fmt.Println("Top Visited Patients")
			render.NameCounts(os.Stdout, "Patient", "Visits", insights.TopVisitedPatients(ps))
			return nil
		},
	}
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the insights dashboard locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			port, err := strconv.Atoi(a.cfg.DashboardPort)
			if err != nil {
				return fmt.Errorf("DASHBOARD_PORT must be a number, got %q", a.cfg.DashboardPort)
			}
			srv := dashboard.NewServer(a.client, a.log)
			return srv.Start(port)
		},
	}
}

func purgeCmd() *cobra.Command {
	var start, end string
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every prescription inside a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := authedApp()
			if err != nil {
				return err
			}
			if start == "" || end == "" {
				return errors.New("both --start and --end are required")
			}
			if !yes && !records.Confirm(os.Stdin, os.Stderr,
				fmt.Sprintf("Delete ALL prescriptions from %s to %s?", start, end)) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := a.client.DeleteByDate(cmd.Context(), start, end); err != nil {
				return err
			}
			fmt.Printf("Deleted prescriptions from %s to %s.\n", start, end)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
