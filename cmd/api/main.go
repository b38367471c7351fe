package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskhive/core/cmd/api/commands"
)

// @title TaskHive API
// @version 1.0
// @description Personal task management API with owner-scoped task records.

// @license.name MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskhive",
		Short: "TaskHive API Server",
		Long:  `TaskHive is a personal task management service: owner-scoped task records with filtered queries over a REST API.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
