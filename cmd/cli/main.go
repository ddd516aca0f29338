package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host  string
	token string
)

var rootCmd = &cobra.Command{
	Use:   "skittles-cli",
	Short: "A CLI to interact with the skittles scoring server",
	Long: `A command-line interface for making requests to the various endpoints
of the skittles scoring application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("SKITTLES_TOKEN"), "Staff token from the login command")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
