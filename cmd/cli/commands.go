package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mauv0809/pong-ladder/internal/match"
	"github.com/spf13/cobra"
)

var matchesPlayer string

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(postLeaderboardCmd)
	rootCmd.AddCommand(clearCmd)

	matchesCmd.Flags().StringVar(&matchesPlayer, "player", "", "Only list matches for this player id")
	for _, cmd := range []*cobra.Command{recordCmd, postLeaderboardCmd, clearCmd} {
		cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without side effects")
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all players, best rated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players", nil)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <player-id>",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/"+url.PathEscape(args[0]), nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if matchesPlayer != "" {
			query.Set("player", matchesPlayer)
		}
		return performGetRequest("/matches", query)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show a single match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/"+url.PathEscape(args[0]), nil)
	},
}

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List the rating tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tiers", nil)
	},
}

var postLeaderboardCmd = &cobra.Command{
	Use:   "post-leaderboard",
	Short: "Post the leaderboard to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/post-leaderboard", dryRunQuery(), nil)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every player and match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/clear", dryRunQuery(), nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard", nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <player1> <player2> <score1> <score2>",
	Short: "Record a match",
	Long: `Record a match between two players. A player is either an existing
player id or "new:<name>" to register a new player with the match.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := parseRecordArgs(args)
		if err != nil {
			return err
		}
		return performPostRequest("/matches", dryRunQuery(), input)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the lifetime counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats", nil)
	},
}

func dryRunQuery() url.Values {
	query := url.Values{}
	if dryRun {
		query.Set("dry_run", "true")
	}
	return query
}

func parseRecordArgs(args []string) (match.CreationInput, error) {
	s1, err := strconv.Atoi(args[2])
	if err != nil {
		return match.CreationInput{}, fmt.Errorf("invalid score %q: %w", args[2], err)
	}
	s2, err := strconv.Atoi(args[3])
	if err != nil {
		return match.CreationInput{}, fmt.Errorf("invalid score %q: %w", args[3], err)
	}
	return match.CreationInput{
		Player1:      parseSide(args[0]),
		Player2:      parseSide(args[1]),
		Player1Score: s1,
		Player2Score: s2,
	}, nil
}

func parseSide(arg string) match.Side {
	if name, ok := strings.CutPrefix(arg, "new:"); ok {
		return match.Side{Type: match.SideNew, Name: name}
	}
	return match.Side{Type: match.SideExisting, ID: arg}
}

func endpointURL(endpoint string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if verbose {
		query.Set("verbose", "true")
	}
	u := host + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func performGetRequest(endpoint string, query url.Values) error {
	u := endpointURL(endpoint, query)
	fmt.Printf("Making request to %s\n", u)

	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string, query url.Values, payload any) error {
	u := endpointURL(endpoint, query)
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}
	fmt.Printf("Making request to %s\n", u)

	resp, err := http.Post(u, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
