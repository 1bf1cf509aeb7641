package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

// startLayout is how users type a reservation start in local time.
const startLayout = "2006-01-02T15:04"

// Book reserves a court: book <court> <start> <duration> [note...].
func (a *App) Book(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("book <court-id> <%s> <duration, e.g. 1h30m> [note]", startLayout)
	}
	start, err := time.ParseInLocation(startLayout, args[1], time.Local)
	if err != nil {
		return usage("book <court-id> <%s> <duration>", startLayout)
	}
	dur, err := time.ParseDuration(args[2])
	if err != nil {
		return usage("book <court-id> <start> <duration, e.g. 1h30m>")
	}
	if err := a.enter(ctx, "/bookings"); err != nil {
		return err
	}

	res, err := a.api.CreateReservation(ctx, models.ReservationRequest{
		CourtID:  args[0],
		StartsAt: start,
		EndsAt:   start.Add(dur),
		Note:     strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reservation %s is %s.\n", res.ID, strings.ToLower(string(res.Status)))
	return nil
}

func (a *App) Bookings(ctx context.Context, _ []string) error {
	if err := a.enter(ctx, "/bookings"); err != nil {
		return err
	}
	rs, err := a.api.MyReservations(ctx)
	if err != nil {
		return err
	}
	printReservations(a.out, rs)
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("cancel <reservation-id>")
	}
	if err := a.enter(ctx, "/bookings"); err != nil {
		return err
	}
	if _, err := a.api.CancelReservation(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reservation cancelled.")
	return nil
}

// Pending lists reservations on the owner's courts: pending [status|all].
func (a *App) Pending(ctx context.Context, args []string) error {
	if err := a.requireOwner(ctx, "/owner/reservations"); err != nil {
		return err
	}
	status := models.ReservationPending
	if len(args) > 0 {
		status = models.ReservationStatus(strings.ToUpper(args[0]))
		if status == "ALL" {
			status = ""
		}
	}
	rs, err := a.api.OwnerReservations(ctx, status)
	if err != nil {
		return err
	}
	printReservations(a.out, rs)
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("approve <reservation-id>")
	}
	if err := a.requireOwner(ctx, "/owner/reservations"); err != nil {
		return err
	}
	if _, err := a.api.ApproveReservation(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reservation approved.")
	return nil
}

func (a *App) Reject(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("reject <reservation-id> [reason]")
	}
	if err := a.requireOwner(ctx, "/owner/reservations"); err != nil {
		return err
	}
	if _, err := a.api.RejectReservation(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reservation rejected.")
	return nil
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	if err := a.requireOwner(ctx, "/owner/dashboard"); err != nil {
		return err
	}
	d, err := a.api.Dashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Courts: %d\nPending requests: %d\nUpcoming bookings: %d\nRevenue: %s\n",
		d.Courts, d.PendingReservations, d.UpcomingBookings, money(d.RevenueCents, "eur"))
	return nil
}
