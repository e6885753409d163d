package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftsolve/shiftsolve/pkg/auth"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <user-id>",
		Short: "Generate an HMAC-signed API key for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("API_MASTER_SECRET") == "" {
				return fmt.Errorf("API_MASTER_SECRET not set")
			}
			key := auth.GenerateHMACKey(args[0])
			fmt.Printf("Generated key for %s:\n%s\n", args[0], key)
			return nil
		},
	}
}
