package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func printCourts(w io.Writer, courts []models.Court) {
	table(w, "ID\tNAME\tSPORT\tCITY\tADDRESS\tPRICE/H", func(tw *tabwriter.Writer) {
		for _, c := range courts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n", c.ID, c.Name, c.Sport, c.City, c.Address, c.PricePerHour)
		}
	})
}

func printReservations(w io.Writer, rs []models.Reservation) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No reservations.")
		return
	}
	table(w, "ID\tCOURT\tSTART\tEND\tSTATUS", func(tw *tabwriter.Writer) {
		for _, r := range rs {
			court := r.CourtName
			if court == "" {
				court = r.CourtID
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, court,
				localTime(r.StartsAt), localTime(r.EndsAt), r.Status)
		}
	})
}

func printInvoices(w io.Writer, inv []models.Invoice) {
	if len(inv) == 0 {
		fmt.Fprintln(w, "No invoices.")
		return
	}
	table(w, "ID\tDATE\tAMOUNT\tSTATUS\tDESCRIPTION", func(tw *tabwriter.Writer) {
		for _, i := range inv {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", i.ID, localTime(i.CreatedAt),
				money(i.AmountCents, i.Currency), i.Status, i.Description)
		}
	})
}

func printSubscription(w io.Writer, s *models.Subscription) {
	fmt.Fprintf(w, "Plan: %s (%s)\n", s.Plan, s.Status)
	if s.CancelAtPeriod {
		fmt.Fprintf(w, "Ends on %s\n", localTime(s.CurrentPeriodEnd))
	} else {
		fmt.Fprintf(w, "Renews on %s\n", localTime(s.CurrentPeriodEnd))
	}
}

func printNotifications(w io.Writer, ns []models.Notification) {
	if len(ns) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	table(w, "ID\tDATE\t\tTITLE", func(tw *tabwriter.Writer) {
		for _, n := range ns {
			mark := "*"
			if n.Read {
				mark = ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, localTime(n.CreatedAt), mark, n.Title)
		}
	})
}

// printCookies never shows token values.
func printCookies(w io.Writer, cs []*http.Cookie) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No session cookies.")
		return
	}
	table(w, "COOKIE\tPATH\tEXPIRES", func(tw *tabwriter.Writer) {
		for _, c := range cs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Path, localTime(c.Expires))
		}
	})
}

func money(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}

func localTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
