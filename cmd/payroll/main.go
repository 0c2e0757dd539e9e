/*
main.go - Application entry point

PURPOSE:
  The payroll command. Runs the HTTP adapter or a one-off calculation.

COMMANDS:
  serve   Start the HTTP server (SQLite-backed holidays and replacement days)
  calc    Calculate one input bundle and print the result JSON

CONFIGURATION:
  Environment variables (optionally from .env, see config/config.go):
    APP_PORT, DB_PATH, LOG_LEVEL, CORS_ORIGINS, COMPANY_ID,
    BATCH_WORKERS, BATCH_MAX_SIZE
  Flags override the environment.

EXAMPLES:
  # Run the server on a file database
  payroll serve --db ./data/payroll.db

  # Run with an in-memory database
  payroll serve --db ":memory:"

  # Calculate a YAML bundle
  payroll calc -f april.yaml --pretty

SEE ALSO:
  - api/server.go: Router configuration
  - factory/request.go: Input bundle schema
*/
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
