package main

import (
	"fmt"
	"strconv"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/vibhusapra/phoenix/internal/bootstrap"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

var (
	tokenUserID   int64
	tokenEmail    string
	tokenReadOnly bool
)

// tokenCmd prints a bearer token for local testing against the API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return fmt.Errorf("--user must be a positive user id")
		}
		tokens, err := do.Invoke[*auth.Tokens](bootstrap.BuildContainer())
		if err != nil {
			return err
		}
		issue := tokens.Issue
		if tokenReadOnly {
			issue = tokens.IssueReadOnly
		}
		tok, err := issue(strconv.FormatInt(tokenUserID, 10), tokenEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Bearer "+tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "user id the token identifies")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "optional email claim")
	tokenCmd.Flags().BoolVar(&tokenReadOnly, "read-only", false, "issue a token that cannot modify views")
}
