package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionRestoreCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionLogoutCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func newSessionRestoreCmd() *cobra.Command {
	var character string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Resume the session saved by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/session/restore", map[string]string{"character": character}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&character, "character", "", "Character to use if the account has none")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/session", nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Signed out")
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Sign out and delete the local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/account", nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Account deleted")
			return nil
		},
	}
}

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Local account commands",
	}

	cmd.AddCommand(newLocalSignupCmd())
	cmd.AddCommand(newLocalSigninCmd())

	return cmd
}

func newLocalSignupCmd() *cobra.Command {
	var user, pass, character string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" || character == "" {
				return fmt.Errorf("--user, --pass, and --character are required")
			}

			req := map[string]string{
				"username":  user,
				"password":  pass,
				"character": character,
			}
			var result Account
			if err := client.Post("/api/v1/session/local/signup", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	cmd.Flags().StringVar(&character, "character", "", "Character (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func newLocalSigninCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to a local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result Account
			if err := client.Post("/api/v1/session/local/signin", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newGithubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github",
		Short: "GitHub sign-in commands",
	}

	cmd.AddCommand(newGithubClaimCmd())
	cmd.AddCommand(newGithubProfileCmd())

	return cmd
}

func newGithubClaimCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Start a GitHub session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/session/github/claim", map[string]string{"code": code}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code")

	return cmd
}

func newGithubProfileCmd() *cobra.Command {
	var user, avatar, character string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Choose a gameplay username and avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || avatar == "" {
				return fmt.Errorf("--user and --avatar are required")
			}

			req := map[string]string{
				"username":  user,
				"avatar":    avatar,
				"character": character,
			}
			var result Account
			if err := client.Post("/api/v1/session/github/profile", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Gameplay username (required)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar (required)")
	cmd.Flags().StringVar(&character, "character", "", "Character")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("avatar")

	return cmd
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test portal commands",
	}

	var pass string
	unlock := &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the test portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account
			if err := client.Post("/api/v1/session/test/unlock", map[string]string{"password": pass}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	unlock.Flags().StringVar(&pass, "pass", "", "Test portal password (required)")
	_ = unlock.MarkFlagRequired("pass")

	cmd.AddCommand(unlock)
	return cmd
}

func newPasswordCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account
			if err := client.Post("/api/v1/account/password", map[string]string{"password": pass}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "New password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newOfflineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offline",
		Short: "Toggle offline mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OfflineResult
			if err := client.Post("/api/v1/account/offline", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "plus on|off",
		Short:     "Turn the Plus subscription on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account
			var err error
			switch args[0] {
			case "on":
				err = client.Post("/api/v1/account/plus", nil, &result)
			case "off":
				err = client.Delete("/api/v1/account/plus", &result)
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func escape(s string) string {
	return url.PathEscape(s)
}
