package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

// Courts lists courts, optionally filtered: courts [city] [sport].
func (a *App) Courts(ctx context.Context, args []string) error {
	var f models.CourtFilter
	if len(args) > 0 {
		f.City = args[0]
	}
	if len(args) > 1 {
		f.Sport = args[1]
	}
	a.router.Navigate(ctx, "/courts")

	courts, err := a.api.ListCourts(ctx, f)
	if err != nil {
		return err
	}
	if len(courts) == 0 {
		fmt.Fprintln(a.out, "No courts found.")
		return nil
	}
	printCourts(a.out, courts)
	return nil
}

func (a *App) Court(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("court <id>")
	}
	a.router.Navigate(ctx, "/courts/"+args[0])

	c, err := a.api.GetCourt(ctx, args[0])
	if err != nil {
		return err
	}
	printCourts(a.out, []models.Court{*c})
	return nil
}
