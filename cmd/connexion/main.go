// Package main provides the connexion CLI: discover candidate profiles with
// search queries, then work through them with paced connection requests.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "connexion",
	Short: "Deduplicated profile discovery and paced outreach",
	Long: `ConneXion finds LinkedIn profiles matching position, location and experience
criteria through a search engine, queues every profile it has not seen before,
and later visits the queue one profile at a time to send personalized
connection requests.

Configuration is read from a JSON file (--config) and the environment
(GOOGLE_API_KEY, SEARCH_ENGINE_ID, LINKEDIN_USERNAME, LINKEDIN_PASSWORD,
DATABASE_URL, REDIS_URL). A .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
