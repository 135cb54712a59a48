package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/trailer"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a commit message against the trailer conventions",
	Long: `Reads a commit message (from a file, or from stdin when no file is
given) and validates its header, body, and trailers against the
conventional-commit trailer format. Prints a diagnostic line per
finding and exits 1 if any error-severity diagnostic was found, 0
otherwise (§7).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read-message-failed: %w", err)
	}

	diags := trailer.Validate(string(raw))
	if len(diags) == 0 {
		fmt.Fprintln(os.Stderr, "✓ commit message is valid")
		return nil
	}

	hasError := false
	for _, d := range diags {
		glyph := "⚠"
		if d.Severity == trailer.SeverityError {
			glyph = "✗"
			hasError = true
		}
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n", glyph, d.Rule, d.Message)
	}

	if hasError {
		return errors.New("Error [validate]: commit message failed validation")
	}
	return nil
}
