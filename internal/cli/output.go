package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mcoot/pokernight/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case []response.Player:
		o.printPlayers(v)
	case response.Session:
		o.printSession(v)
	case []response.Session:
		o.printSessions(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.PlayerReport:
		o.printPlayerReport(v)
	case response.Overview:
		o.printOverview(v)
	case response.Login:
		fmt.Fprintf(o.w, "Logged in, session expires %s\n", v.ExpiresAt.Local().Format("2006-01-02 15:04"))
	case response.Status:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
}

// money renders an amount with two decimals and an explicit sign for profits
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func optional(d *decimal.Decimal, render func(decimal.Decimal) string) string {
	if d == nil {
		return "-"
	}
	return render(*d)
}

func nameOrDeleted(name string) string {
	if name == "" {
		return "(deleted)"
	}
	return name
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Sessions: %d\n", p.SessionsPlayed)
	fmt.Fprintf(o.w, "Bought in: %s\n", money(p.TotalBuyIn))
	fmt.Fprintf(o.w, "Cashed out: %s\n", money(p.TotalCashOut))
	fmt.Fprintf(o.w, "Profit: %s\n", signed(p.Profit))
}

func (o *Output) printPlayers(players []response.Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "ID\tNAME\tSESSIONS\tBUY-IN\tCASH-OUT\tPROFIT")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Name, p.SessionsPlayed, money(p.TotalBuyIn), money(p.TotalCashOut), signed(p.Profit))
	}
	_ = tw.Flush()
}

func status(active bool) string {
	if active {
		return "active"
	}
	return "completed"
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	fmt.Fprintf(o.w, "Date: %s\n", s.Date.Format("2006-01-02"))
	fmt.Fprintf(o.w, "Location: %s\n", s.Location)
	fmt.Fprintf(o.w, "Status: %s\n", status(s.IsActive))
	fmt.Fprintf(o.w, "Pool: %s in, %s out\n", money(s.TotalBuyIn), money(s.TotalCashOut))
	fmt.Fprintf(o.w, "Players (%d):\n", len(s.Players))

	tw := o.table()
	for _, p := range s.Players {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			p.PlayerID, nameOrDeleted(p.Name), money(p.BuyIn),
			optional(p.CashOut, money), optional(p.Profit, signed))
	}
	_ = tw.Flush()
}

func (o *Output) printSessions(sessions []response.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(o.w, "No sessions")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "ID\tDATE\tLOCATION\tPLAYERS\tBUY-IN\tSTATUS")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.Date.Format("2006-01-02"), s.Location, len(s.Players), money(s.TotalBuyIn), status(s.IsActive))
	}
	_ = tw.Flush()
}

func (o *Output) printStandings(title string, standings []response.Standing) {
	fmt.Fprintf(o.w, "%s:\n", title)
	if len(standings) == 0 {
		fmt.Fprintln(o.w, "  (none)")
		return
	}
	tw := o.table()
	for i, s := range standings {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, s.Name, signed(s.Profit))
	}
	_ = tw.Flush()
}

func (o *Output) printLeaderboard(lb response.Leaderboard) {
	o.printStandings("Winners", lb.Winners)
	o.printStandings("Losers", lb.Losers)
}

func (o *Output) printPlayerReport(r response.PlayerReport) {
	o.printPlayer(r.Player)
	fmt.Fprintf(o.w, "Win rate: %.0f%%\n", r.WinRate*100)
	fmt.Fprintf(o.w, "Average buy-in: %s\n", money(r.AverageBuyIn))
	fmt.Fprintf(o.w, "Biggest win: %s\n", signed(r.BiggestWin))
	fmt.Fprintf(o.w, "Biggest loss: %s\n", signed(r.BiggestLoss))

	if len(r.Sessions) == 0 {
		return
	}
	fmt.Fprintln(o.w, "\nHistory:")
	tw := o.table()
	for _, s := range r.Sessions {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			s.Date.Format("2006-01-02"), s.Location, money(s.BuyIn),
			optional(s.CashOut, money), optional(s.Profit, signed))
	}
	_ = tw.Flush()
}

func (o *Output) printOverview(v response.Overview) {
	fmt.Fprintf(o.w, "Players: %d\n", v.TotalPlayers)
	fmt.Fprintf(o.w, "Sessions: %d (%d active, %d completed)\n",
		v.TotalSessions, v.ActiveSessions, v.CompletedSessions)
	fmt.Fprintf(o.w, "Money played: %s\n", money(v.MoneyPlayed))
	if v.TopWinner != nil {
		fmt.Fprintf(o.w, "Top winner: %s (%s)\n", v.TopWinner.Name, signed(v.TopWinner.Profit))
	}
	if v.TopLoser != nil {
		fmt.Fprintf(o.w, "Top loser: %s (%s)\n", v.TopLoser.Name, signed(v.TopLoser.Profit))
	}
}
