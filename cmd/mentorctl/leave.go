package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mentorship/internal/dashboard"
	"mentorship/internal/leave"
)

func newLeaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "leave", Short: "Leave requests"}
	cmd.AddCommand(newPendingCmd(a), newReviewCmd(a))
	return cmd
}

func newPendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List the leave requests waiting for you",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, viewer, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			desk := dashboard.NewLeaveDesk(viewer, leave.NewRepository(api), a.cfg.Location(), nil)
			if err := desk.Load(cmd.Context()); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tNAME\tTYPE\tSTATUS\tREASON")
			for _, r := range desk.Requests() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.FullName, r.LeaveType, r.Status, r.Reason)
			}
			return tw.Flush()
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var (
		approve, reject bool
		notes           string
	)
	cmd := &cobra.Command{
		Use:   "review ID",
		Short: "Approve or reject a pending leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return pkgerrors.Errorf("request id %q is not a number", args[0])
			}
			if approve == reject {
				return pkgerrors.New("pass exactly one of --approve or --reject")
			}
			api, viewer, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			desk := dashboard.NewLeaveDesk(viewer, leave.NewRepository(api), a.cfg.Location(), nil)
			verdict := "approved"
			if approve {
				err = desk.Approve(cmd.Context(), id, notes)
			} else {
				verdict = "rejected"
				err = desk.Reject(cmd.Context(), id, notes)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request %d %s\n", id, verdict)
			return nil
		},
	}
	cmd.Flags().BoolVar(&approve, "approve", false, "approve the request")
	cmd.Flags().BoolVar(&reject, "reject", false, "reject the request")
	cmd.Flags().StringVar(&notes, "notes", "", "reviewer notes")
	return cmd
}
