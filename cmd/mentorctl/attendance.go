package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/Azure/go-autorest/autorest/date"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mentorship/internal/apiclient"
	"mentorship/internal/attendance"
	"mentorship/internal/dashboard"
	"mentorship/internal/daterange"
	"mentorship/internal/people"
	"mentorship/internal/report"
)

func newAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "attendance", Short: "Attendance records"}
	cmd.AddCommand(newReportCmd(a), newMarkCmd(a), newDeleteCmd(a))
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var rangeKey, from, to, xlsxPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show visible attendance for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := daterange.ParseKey(rangeKey)
			if err != nil {
				return err
			}
			sel := daterange.Selection{Key: key}
			if key == daterange.Custom {
				if sel.Start, err = optionalDate(from); err != nil {
					return err
				}
				if sel.End, err = optionalDate(to); err != nil {
					return err
				}
			}

			api, viewer, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			b := newBoard(a, api, viewer)
			if err := b.Load(cmd.Context()); err != nil {
				return err
			}
			b.SetRange(sel)

			out := cmd.OutOrStdout()
			printRecords(out, b.Visible())
			fmt.Fprintln(out)
			printSummary(out, b.Summary(), b.Arcs())
			fmt.Fprintln(out)
			printPeople(out, b.People())

			if xlsxPath != "" {
				if err := exportXLSX(xlsxPath, b); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nwrote %s\n", xlsxPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rangeKey, "range", string(daterange.All), "all|today|yesterday|this-week|last-week|this-month|last-month|custom")
	cmd.Flags().StringVar(&from, "from", "", "custom range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom range end YYYY-MM-DD")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report to this XLSX file")
	return cmd
}

func newMarkCmd(a *app) *cobra.Command {
	var (
		userID            int
		day, status       string
		checkIn, checkOut string
		update            bool
	)
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Record or change attendance for one person and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := date.ParseDate(day)
			if err != nil {
				return pkgerrors.Wrap(err, "--date")
			}
			st, ok := attendance.ParseStatus(status)
			if !ok {
				return pkgerrors.Errorf("--status %q is not one of %v", status, attendance.Statuses())
			}
			api, viewer, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			b := newBoard(a, api, viewer)
			rec := attendance.Record{UserID: userID, Date: d, CheckIn: checkIn, CheckOut: checkOut, Status: st}
			if update {
				err = b.Edit(cmd.Context(), rec)
			} else {
				err = b.Mark(cmd.Context(), rec)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rec.Key(), st.Label())
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&day, "date", "", "day YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "Present|Late|HalfDay|Excused|Unexcused")
	cmd.Flags().StringVar(&checkIn, "in", "", "check-in HH:MM")
	cmd.Flags().StringVar(&checkOut, "out", "", "check-out HH:MM")
	cmd.Flags().BoolVar(&update, "update", false, "change an existing record instead of creating one")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var (
		userID int
		day    string
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the attendance record of one person and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := date.ParseDate(day)
			if err != nil {
				return pkgerrors.Wrap(err, "--date")
			}
			api, viewer, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			key := attendance.Key{UserID: userID, Date: d}
			removed, err := newBoard(a, api, viewer).Remove(cmd.Context(), key)
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			}
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no record for %s, nothing to delete\n", key)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&day, "date", "", "day YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newBoard(a *app, api *apiclient.Client, v dashboard.Viewer) *dashboard.AttendanceBoard {
	return dashboard.NewAttendanceBoard(v, attendance.NewRepository(api), people.NewRepository(api), a.cfg.Location(), nil)
}

func optionalDate(s string) (*date.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := date.ParseDate(s)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "date %q", s)
	}
	return &d, nil
}

func printRecords(w io.Writer, records []attendance.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tUSER\tNAME\tIN\tOUT\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", r.Date, r.UserID, r.UserName, dash(r.CheckIn), dash(r.CheckOut), r.Status.Label())
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, t report.Tally, arcs []report.Arc) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCOUNT\tARC")
	for _, arc := range arcs {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\n", arc.Status.Label(), arc.Count, arc.Length)
	}
	fmt.Fprintf(tw, "Total\t%d\t\n", t.Total())
	_ = tw.Flush()
}

func printPeople(w io.Writer, persons []report.Person) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "PERSON"
	for _, s := range report.Buckets {
		header += "\t" + s.Label()
	}
	fmt.Fprintln(tw, header+"\tTOTAL")
	for _, p := range persons {
		row := p.Name
		for _, s := range report.Buckets {
			row += "\t" + strconv.Itoa(p.Tally.Count(s))
		}
		fmt.Fprintf(tw, "%s\t%d\n", row, p.Tally.Total())
	}
	_ = tw.Flush()
}

func exportXLSX(path string, b *dashboard.AttendanceBoard) error {
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrap(err, "create xlsx")
	}
	if err := report.WriteXLSX(f, b.Visible(), b.People()); err != nil {
		_ = f.Close()
		return err
	}
	return pkgerrors.Wrap(f.Close(), "close xlsx")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
