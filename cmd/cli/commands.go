package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(gameStatsCmd)
	rootCmd.AddCommand(gameStateCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(hashPasswordCmd)

	gamesCmd.Flags().Int("page", 1, "Page of past games")
	gamesCmd.Flags().String("result", "", "Only show Win, Loss or Draw")
	gamesCmd.Flags().Int64("opponent", 0, "Only show games against this opponent id")
	gamesCmd.Flags().Int64("location", 0, "Only show games at this location id")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange the staff password for a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/api/login", map[string]string{"password": password})
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List past games, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		result, _ := cmd.Flags().GetString("result")
		opponent, _ := cmd.Flags().GetInt64("opponent")
		location, _ := cmd.Flags().GetInt64("location")
		q := url.Values{"page": {strconv.Itoa(page)}}
		if result != "" {
			q.Set("result", result)
		}
		if opponent > 0 {
			q.Set("opponent", strconv.FormatInt(opponent, 10))
		}
		if location > 0 {
			q.Set("location", strconv.FormatInt(location, 10))
		}
		return performRequest(http.MethodGet, "/api/games?"+q.Encode(), nil)
	},
}

var gameStatsCmd = &cobra.Command{
	Use:   "game-stats [game id]",
	Short: "Show the statistics of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/games/"+url.PathEscape(args[0])+"/statistics", nil)
	},
}

var gameStateCmd = &cobra.Command{
	Use:   "game-state [game id]",
	Short: "Show who throws next in a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/games/"+url.PathEscape(args[0])+"/state", nil)
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "player-stats [player id]",
	Short: "Show the statistics of a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/players/"+url.PathEscape(args[0])+"/statistics", nil)
	},
}

var turnCmd = &cobra.Command{
	Use:   "turn [game id] [roll1] [roll2] [roll3]",
	Short: "Record a turn for the current player of a game",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		rolls := make(map[string]int, 3)
		for i, raw := range args[1:] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("roll %d is not a number: %w", i+1, err)
			}
			rolls[fmt.Sprintf("roll%d", i+1)] = n
		}
		return performRequest(http.MethodPost, "/api/games/"+url.PathEscape(args[0])+"/turns", rolls)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [roll1] [roll2] [roll3]",
	Short: "Check a turn against the rack rules without contacting the server",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := scoring.ParseTurn(args[0], args[1], args[2])
		if !res.OK {
			for _, field := range []string{scoring.FieldRoll1, scoring.FieldRoll2, scoring.FieldRoll3} {
				if msg, ok := res.Errors[field]; ok {
					fmt.Printf("%s: %s\n", field, msg)
				}
			}
			return fmt.Errorf("invalid turn")
		}
		fmt.Printf("Valid turn, total %d", res.Total)
		switch {
		case res.Strike():
			fmt.Print(" (strike)")
		case res.Spare():
			fmt.Print(" (spare)")
		}
		fmt.Println()
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for STAFF_PASSWORD_HASH",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			var err error
			if password, err = readPassword(); err != nil {
				return err
			}
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

func performRequest(method, endpoint string, payload any) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
