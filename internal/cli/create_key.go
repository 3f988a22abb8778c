package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/galmuri/galmuri/internal/auth"
)

type CreateKeyCommand struct {
	UserID string
}

func NewCreateKeyCommand() *CreateKeyCommand {
	return &CreateKeyCommand{}
}

func (cmd *CreateKeyCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-key", flag.ExitOnError)

	fs.StringVar(&cmd.UserID, "user", "", "User UUID to mint a key for (generated when omitted)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-key [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Mint an API key in the user_id:token format for a capture client.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-key\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-key -user 2b3c16a4-8f68-4f3e-9bdc-6d2a2b0c7f10\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *CreateKeyCommand) Run() error {
	if cmd.UserID == "" {
		cmd.UserID = uuid.NewString()
		fmt.Printf("Generated user id: %s\n", cmd.UserID)
	}

	key, err := auth.GenerateAPIKey(cmd.UserID)
	if err != nil {
		return err
	}

	fmt.Printf("API key: %s\n", key)
	return nil
}
