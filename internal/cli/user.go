package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserLoginCmd())
	cmd.AddCommand(newUserMeCmd())
	cmd.AddCommand(newUserAvatarCmd())
	cmd.AddCommand(newUserLogoutCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create an identity, or resume a previously saved one",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if userID, err := cfg.LoadUserID(); err != nil {
				return err
			} else if userID != "" {
				req["user_id"] = userID
			}

			var result AuthResult
			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			if err := cfg.SaveUserID(result.User.ID); err != nil {
				return fmt.Errorf("failed to save user id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUserLoginCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Set a username, logging the current identity in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"username": name}
			var result User

			if err := client.Put("/api/v1/users/me/username", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Username, 2-10 characters (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current user info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/v1/users/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUserAvatarCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Set an avatar URL, or generate a default one",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if url != "" {
				req["url"] = url
			}

			var result User
			if err := client.Put("/api/v1/users/me/avatar", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Avatar URL (omit to generate a default)")

	return cmd
}

func newUserLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out, keeping the user id for a later return",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/users/me/logout", nil, nil); err != nil {
				return err
			}

			// The session token is dead now; drop it but keep the user id
			if err := cfg.SaveToken(""); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}
