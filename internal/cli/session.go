package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/pokernight/internal/api/request"
	"github.com/mcoot/pokernight/internal/api/response"
	"github.com/mcoot/pokernight/internal/model"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionEditCmd())
	cmd.AddCommand(newSessionCashOutCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

// ParseSeat parses PLAYER_ID:BUY_IN[:CASH_OUT], e.g. "p1:100" or "p1:100:150.50"
func ParseSeat(s string) (request.Seat, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return request.Seat{}, fmt.Errorf("invalid seat %q: want PLAYER_ID:BUY_IN[:CASH_OUT]", s)
	}

	buyIn, err := model.ParseMoney(parts[1])
	if err != nil {
		return request.Seat{}, fmt.Errorf("invalid buy-in in seat %q: %w", s, err)
	}
	seat := request.Seat{PlayerID: strings.TrimSpace(parts[0]), BuyIn: buyIn.Units()}

	if len(parts) == 3 {
		cashOut, err := model.ParseMoney(parts[2])
		if err != nil {
			return request.Seat{}, fmt.Errorf("invalid cash-out in seat %q: %w", s, err)
		}
		units := cashOut.Units()
		seat.CashOut = &units
	}
	return seat, nil
}

func parseSeats(values []string) ([]request.Seat, error) {
	seats := make([]request.Seat, 0, len(values))
	for _, v := range values {
		seat, err := ParseSeat(v)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

func newSessionCreateCmd() *cobra.Command {
	var (
		date     string
		location string
		seats    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a session",
		Example: `  pokerctl session create --location Kitchen --date 2024-03-01 \
    --seat alice:100 --seat bob:100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := parseSeats(seats)
			if err != nil {
				return err
			}

			req := request.CreateSessionRequest{
				Date:     date,
				Location: location,
				Players:  players,
			}
			var result response.Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Session date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&location, "location", "", "Where the game was played (required)")
	cmd.Flags().StringArrayVar(&seats, "seat", nil, "Seat as PLAYER_ID:BUY_IN[:CASH_OUT], repeatable")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	var status, location string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if status != "" {
				query.Set("status", status)
			}
			if location != "" {
				query.Set("location", location)
			}
			path := "/api/v1/sessions"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result []response.Session
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active, completed")
	cmd.Flags().StringVar(&location, "location", "", "Only sessions whose location contains this text")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEditCmd() *cobra.Command {
	var (
		date     string
		location string
		seats    []string
	)

	cmd := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Edit a session; --seat replaces the whole player list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.EditSessionRequest
			if cmd.Flags().Changed("date") {
				req.Date = &date
			}
			if cmd.Flags().Changed("location") {
				req.Location = &location
			}
			if cmd.Flags().Changed("seat") {
				players, err := parseSeats(seats)
				if err != nil {
					return err
				}
				req.Players = players
			}

			var result response.Session
			if err := client.Patch(sessionPath(args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New session date, YYYY-MM-DD")
	cmd.Flags().StringVar(&location, "location", "", "New location")
	cmd.Flags().StringArrayVar(&seats, "seat", nil, "Seat as PLAYER_ID:BUY_IN[:CASH_OUT], repeatable")

	return cmd
}

func newSessionCashOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cashout <session-id> <player-id> <amount>",
		Short: "Record a player's cash-out",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := model.ParseMoney(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			amount := cents.Units()

			path := sessionPath(args[0]) + "/players/" + url.PathEscape(args[1]) + "/cash-out"
			var result response.Session

			if err := client.Post(path, request.CashOutRequest{Amount: &amount}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(sessionPath(args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Session deleted")
			return nil
		},
	}
}

func sessionPath(id string) string {
	return "/api/v1/sessions/" + url.PathEscape(id)
}
