package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save file commands",
	}

	cmd.AddCommand(newSaveExportCmd())
	cmd.AddCommand(newSaveLoadCmd())
	cmd.AddCommand(newSaveTransferCmd())

	return cmd
}

func newSaveExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the account as a save file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return download("/api/v1/save", file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output path (default: the server's filename)")

	return cmd
}

func newSaveLoadCmd() *cobra.Command {
	var character string

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the session with a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			path := "/api/v1/save"
			if character != "" {
				path += "?character=" + url.QueryEscape(character)
			}
			var result Session
			if err := client.PostRaw(path, data, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&character, "character", "", "Character to use if the save has none")

	return cmd
}

func newSaveTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <file>",
		Short: "Merge a data transfer file into the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var result Account
			if err := client.PostRaw("/api/v1/save/transfer", data, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newDownloadCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the game data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return download("/api/v1/download", file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output path (default: the server's filename)")

	return cmd
}

// download saves an attachment to path, or to the server's filename
func download(apiPath, path string) error {
	d, err := client.Download(apiPath)
	if err != nil {
		return err
	}
	if path == "" {
		path = d.Filename
	}
	if err := os.WriteFile(path, d.Data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	NewOutput(cfg.Output).PrintMessage("Saved " + path)
	return nil
}
