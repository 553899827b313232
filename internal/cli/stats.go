package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pokernight/internal/api/response"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the biggest winners and losers",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/leaderboard"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result response.Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many players per side")

	return cmd
}

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show totals across all players and sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Overview

			if err := client.Get("/api/v1/stats/overview", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Player statistics maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "recompute",
		Short: "Rebuild every player's totals from the session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Status

			if err := client.Post("/api/v1/stats/recompute", nil, &result); err != nil {
				return err
			}
			if result.Status != "ok" {
				return fmt.Errorf("unexpected status %q", result.Status)
			}

			NewOutput(cfg.Output).PrintMessage("Player stats recomputed")
			return nil
		},
	})

	return cmd
}
