/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/welcomedesk/userservice/internal/server"
	"github.com/welcomedesk/userservice/internal/services"
)

var errUserNotFound = errors.New("user not found")

// usersCmd groups administrative user commands.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users from the command line",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: withUserService(func(cmd *cobra.Command, args []string, users *services.UserService) error {
		list, err := users.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), list)
	}),
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single user",
	Args:  cobra.ExactArgs(1),
	RunE: withUserService(func(cmd *cobra.Command, args []string, users *services.UserService) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		user, found, err := users.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return errUserNotFound
		}
		return printJSON(cmd.OutOrStdout(), user)
	}),
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user and send the welcome email",
	Args:  cobra.ExactArgs(2),
	RunE: withUserService(func(cmd *cobra.Command, args []string, users *services.UserService) error {
		user, err := users.Create(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), user)
	}),
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id> <name> <email>",
	Short: "Replace a user's name and email",
	Args:  cobra.ExactArgs(3),
	RunE: withUserService(func(cmd *cobra.Command, args []string, users *services.UserService) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		user, found, err := users.Update(cmd.Context(), id, args[1], args[2])
		if err != nil {
			return err
		}
		if !found {
			return errUserNotFound
		}
		return printJSON(cmd.OutOrStdout(), user)
	}),
}

var usersWelcomeAllCmd = &cobra.Command{
	Use:   "welcome-all",
	Short: "Send the welcome email to every user",
	Args:  cobra.NoArgs,
	RunE: withUserService(func(cmd *cobra.Command, args []string, users *services.UserService) error {
		sent, err := users.SendBulkWelcomeEmails(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]bool{"sent": sent})
	}),
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersCreateCmd, usersUpdateCmd, usersWelcomeAllCmd)
}

type userRunFunc func(cmd *cobra.Command, args []string, users *services.UserService) error

func withUserService(run userRunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, _ := loadConfig()
		app, err := server.Bootstrap(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app.Users)
	}
}

func parseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
