// Command tastematch scores taste profiles and builds them from listening
// data without running the server.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tastematch/backend/internal/usecase"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "tastematch",
		Short:        "Score and build music taste profiles",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(newScoreCmd(), newBuildCmd())
	return root
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <profile-a.json> <profile-b.json>",
		Short: "Print the match result for two profile files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readJSON(args[0])
			if err != nil {
				return err
			}
			b, err := readJSON(args[1])
			if err != nil {
				return err
			}

			result, err := usecase.NewScorer(nil).ScoreAny(a, b)
			if err != nil {
				return fmt.Errorf("scoring %s and %s: %w", args[0], args[1], err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newBuildCmd() *cobra.Command {
	var (
		userID string
		output string
	)

	cmd := &cobra.Command{
		Use:   "build <items.json>",
		Short: "Build a taste profile from a track list or top-items export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readJSON(args[0])
			if err != nil {
				return err
			}

			profile, err := usecase.BuildTasteProfile(items)
			if err != nil {
				return fmt.Errorf("building profile from %s: %w", args[0], err)
			}
			if id := strings.TrimSpace(userID); id != "" {
				profile["user_id"] = id
			}

			if output == "" {
				return writeJSON(cmd.OutOrStdout(), profile)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			if err := writeJSON(f, profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "override the user_id stored in the profile")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the profile to this file instead of stdout")
	return cmd
}

func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return v, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
