package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/navigation"
	"github.com/spf13/cobra"
)

// run builds the app for one command invocation and tears it down after.
func run(flags *globalFlags, fn func(ctx context.Context, a *app, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		a, err := newApp(ctx, *flags, out)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			return err
		}
		defer a.Close()
		return fn(ctx, a, out)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "hrisctl",
		Short:         "Employee attendance from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&flags.offline, "offline", false, "simulate a device without connectivity")
	rootCmd.PersistentFlags().BoolVar(&flags.noBiometric, "no-biometric", false, "skip the confirmation prompt")
	rootCmd.PersistentFlags().StringVar(&flags.pushToken, "push-token", os.Getenv("HRIS_PUSH_TOKEN"), "device push token to register")

	rootCmd.AddCommand(
		newLoginCommand(flags),
		newLogoutCommand(flags),
		newStatusCommand(flags),
		newAttendanceCommand(flags),
		newLeaveCommand(flags),
		newNotificationsCommand(flags),
		newProfileCommand(flags),
		newPasswordCommand(flags),
		newServeFakeCommand(),
	)
	return rootCmd
}

func newLoginCommand(flags *globalFlags) *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if req.Password == "" {
				req.Password = os.Getenv("HRIS_PASSWORD")
			}
			a.nav.Navigate(navigation.Login)
			profile, err := a.session.Login(ctx, req)
			if err != nil {
				return a.fail(ctx, err, "auth.login")
			}
			a.notifier.ShowSuccess("Welcome, " + profile.DisplayName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "official email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (or HRIS_PASSWORD)")
	return cmd
}

func newLogoutCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the push token and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.session.Logout(ctx); err != nil {
				return a.fail(ctx, err, "auth.logout")
			}
			a.notifier.ShowSuccess("Logged out successfully")
			return nil
		}),
	}
}

func newStatusCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the entry screen, profile and attendance snapshot",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			fmt.Fprintf(out, "screen: %s\n", a.nav.Current())
			if !a.session.State().IsAuthenticated() {
				return nil
			}
			profile, err := a.profile.Current(ctx)
			if err != nil {
				return a.fail(ctx, err, "profile.current")
			}
			snapshot, err := a.attendance.CurrentSession(ctx)
			if err != nil {
				return a.fail(ctx, err, "attendance.session")
			}
			fmt.Fprintf(out, "user: %s (%s)\n", profile.DisplayName(), profile.EmployeeID)
			if snapshot.IsCheckedIn {
				fmt.Fprintf(out, "checked in at %s\n", snapshot.CheckInTime)
			} else {
				fmt.Fprintf(out, "checked out, last worked %s\n", orDefault(snapshot.WorkedTime, "0h 0m"))
			}
			return nil
		}),
	}
}

func newAttendanceCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"att"},
		Short:   "Check in, check out and read attendance reports",
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Check in, or check out when already checked in",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.HomeTab); err != nil {
				return a.fail(ctx, err, "attendance.toggle")
			}
			res, err := a.attendance.Toggle(ctx)
			if err != nil {
				return a.fail(ctx, err, "attendance.toggle")
			}
			a.notifier.ShowSuccess(res.Message)
			if !res.Session.IsCheckedIn && res.Session.WorkedTime != "" {
				fmt.Fprintf(out, "worked %s\n", res.Session.WorkedTime)
			}
			return nil
		}),
	}

	var year, month int
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show this month's attendance statistics",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.History); err != nil {
				return a.fail(ctx, err, "attendance.stats")
			}
			s, err := a.attendance.Stats(ctx, year, month)
			if err != nil {
				return a.fail(ctx, err, "attendance.stats")
			}
			fmt.Fprintf(out, "on time %d, late %d, on leave %d, absent %d (total %d)\n",
				s.OnTimeDays, s.LateDays, s.OnLeaveDays, s.AbsentDays, s.TotalDays())
			return nil
		}),
	}

	var params attendance.ReportParams
	report := &cobra.Command{
		Use:   "report",
		Short: "Show the monthly attendance report",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.History); err != nil {
				return a.fail(ctx, err, "attendance.report")
			}
			page, err := a.clients.Attendance.Report(ctx, params)
			if err != nil {
				return a.fail(ctx, err, "attendance.report")
			}
			for _, row := range page.Items {
				fmt.Fprintf(out, "%-24s %-12s %d records\n", row.FullName, row.Position, len(row.Attendance))
			}
			fmt.Fprintf(out, "%d of %d employees\n", len(page.Items), page.Total)
			return nil
		}),
	}

	now := time.Now()
	for _, c := range []*cobra.Command{stats, report} {
		c.Flags().IntVar(&year, "year", now.Year(), "year")
		c.Flags().IntVar(&month, "month", int(now.Month()), "month (1-12)")
	}
	report.PreRun = func(*cobra.Command, []string) {
		params.Year, params.Month = year, month
	}
	report.Flags().IntVar(&params.Count, "count", 0, "rows per page")
	report.Flags().IntVar(&params.PageNo, "page", 0, "page number")

	cmd.AddCommand(toggle, stats, report)
	return cmd
}

func newLeaveCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Apply for leave and check its status",
	}

	var leaveType, start, end, reason string
	apply := &cobra.Command{
		Use:   "apply",
		Short: "Submit a leave request",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.LeaveRequest); err != nil {
				return a.fail(ctx, err, "leave.create")
			}
			profile, err := a.profile.Current(ctx)
			if err != nil {
				return a.fail(ctx, err, "leave.create")
			}
			msg, err := a.clients.Leave.Create(ctx, leave.NewCreateRequest(profile.ID, leaveType, start, end, reason))
			if err != nil {
				return a.fail(ctx, err, "leave.create")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Leave request submitted successfully"))
			return nil
		}),
	}
	apply.Flags().StringVar(&leaveType, "type", leave.Types[0], "leave type")
	apply.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	apply.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	apply.Flags().StringVar(&reason, "reason", "", "reason")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your leave requests",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.LeaveStatus); err != nil {
				return a.fail(ctx, err, "leave.list")
			}
			profile, err := a.profile.Current(ctx)
			if err != nil {
				return a.fail(ctx, err, "leave.list")
			}
			leaves, err := a.clients.Leave.ListByUser(ctx, profile.ID)
			if err != nil {
				return a.fail(ctx, err, "leave.list")
			}
			for _, l := range leave.FilterByStatus(leaves, leave.Status(status)) {
				fmt.Fprintf(out, "%s  %s..%s  %-16s %d day(s)  %s\n", l.Status, l.StartDate, l.EndDate, l.LeaveType, l.Leaves, l.Reason)
			}
			return nil
		}),
	}
	list.Flags().StringVar(&status, "status", "", "only pending, approved or rejected")

	cmd.AddCommand(apply, list)
	return cmd
}

func newNotificationsCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Read and manage notifications",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Notifications); err != nil {
				return a.fail(ctx, err, "notifications.list")
			}
			inbox, err := a.notifications.Inbox(ctx)
			if err != nil {
				return a.fail(ctx, err, "notifications.list")
			}
			for _, n := range inbox.Items {
				mark := " "
				if !n.IsRead {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s  %s: %s\n", mark, n.ID, n.Title, n.DisplayMessage())
			}
			fmt.Fprintf(out, "%d unread\n", inbox.Unread)
			return nil
		}),
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Notifications); err != nil {
				return a.fail(ctx, err, "notifications.readAll")
			}
			inbox, err := a.notifications.Inbox(ctx)
			if err != nil {
				return a.fail(ctx, err, "notifications.readAll")
			}
			userID, err := a.store.UserID(ctx)
			if err != nil {
				return a.fail(ctx, err, "notifications.readAll")
			}
			res, err := a.notifications.MarkAllAsRead(ctx, userID, inbox.Items)
			if err != nil {
				return a.fail(ctx, err, "notifications.readAll")
			}
			if res.Failed > 0 {
				a.notifier.ShowError(fmt.Sprintf("%d notification(s) could not be marked as read", res.Failed))
			}
			a.notifier.ShowSuccess(fmt.Sprintf("%d notification(s) marked as read", res.Succeeded))
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
	}
	del.RunE = func(c *cobra.Command, args []string) error {
		return run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Notifications); err != nil {
				return a.fail(ctx, err, "notifications.delete")
			}
			userID, err := a.store.UserID(ctx)
			if err != nil {
				return a.fail(ctx, err, "notifications.delete")
			}
			msg, err := a.clients.Notifications.Delete(ctx, args[0], userID)
			if err != nil {
				return a.fail(ctx, err, "notifications.delete")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Notification deleted successfully"))
			return nil
		})(c, args)
	}

	cmd.AddCommand(list, readAll, del)
	return cmd
}

func newProfileCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cached profile",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Profile); err != nil {
				return a.fail(ctx, err, "profile.show")
			}
			p, err := a.profile.Current(ctx)
			if err != nil {
				return a.fail(ctx, err, "profile.show")
			}
			fmt.Fprintf(out, "%s\n%s, %s\n%s\n", p.DisplayName(), p.Position, p.EmployeeID, p.OfficialEmail)
			if p.ProfilePhotoURL != "" {
				fmt.Fprintln(out, p.ProfilePhotoURL)
			}
			return nil
		}),
	}

	photo := &cobra.Command{
		Use:   "photo <file>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
	}
	photo.RunE = func(c *cobra.Command, args []string) error {
		return run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Profile); err != nil {
				return a.fail(ctx, err, "profile.photo")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return a.fail(ctx, err, "profile.photo")
			}
			defer f.Close()

			p, err := a.profile.ChangePhoto(ctx, user.Photo{FileName: filepath.Base(args[0]), Content: f})
			if err != nil {
				return a.fail(ctx, err, "profile.photo")
			}
			a.notifier.ShowSuccess("Profile picture updated")
			fmt.Fprintln(out, p.ProfilePhotoURL)
			return nil
		})(c, args)
	}

	cmd.AddCommand(show, photo)
	return cmd
}

func newPasswordCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Forgotten, reset and changed passwords",
	}

	var email string
	forget := &cobra.Command{
		Use:   "forget",
		Short: "Request a reset link",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			msg, err := a.clients.Auth.Forget(ctx, auth.ForgetRequest{Email: email})
			if err != nil {
				return a.fail(ctx, err, "auth.forget")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Reset link sent"))
			return nil
		}),
	}
	forget.Flags().StringVar(&email, "email", "", "official email")

	var reset auth.ResetPasswordRequest
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if _, err := a.clients.Auth.VerifyOtp(ctx, auth.VerifyOtpRequest{Token: reset.Token}); err != nil {
				return a.fail(ctx, err, "auth.verifyOtp")
			}
			msg, err := a.clients.Auth.ResetPassword(ctx, reset)
			if err != nil {
				return a.fail(ctx, err, "auth.resetPassword")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Password has been reset"))
			return nil
		}),
	}
	resetCmd.Flags().StringVar(&reset.Token, "token", "", "reset token")
	resetCmd.Flags().StringVar(&reset.NewPassword, "new", "", "new password")

	var change auth.ChangePasswordRequest
	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			if err := a.open(navigation.Settings); err != nil {
				return a.fail(ctx, err, "auth.changePassword")
			}
			msg, err := a.clients.Auth.ChangePassword(ctx, change)
			if err != nil {
				return a.fail(ctx, err, "auth.changePassword")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Password changed successfully"))
			return nil
		}),
	}
	changeCmd.Flags().StringVar(&change.NewPassword, "new", "", "new password")

	var token string
	verify := &cobra.Command{
		Use:   "verify-email",
		Short: "Confirm an email address with its token",
		Args:  cobra.NoArgs,
		RunE: run(flags, func(ctx context.Context, a *app, out io.Writer) error {
			msg, err := a.clients.Auth.VerifyEmail(ctx, token)
			if err != nil {
				return a.fail(ctx, err, "auth.verifyEmail")
			}
			a.notifier.ShowSuccess(orDefault(msg, "Email verified"))
			return nil
		}),
	}
	verify.Flags().StringVar(&token, "token", "", "verification token")

	cmd.AddCommand(forget, resetCmd, changeCmd, verify)
	return cmd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
