package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/smartreach/agent/internal/credential"
	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the mailbox and AI credentials interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}

			var mailboxPassword, apiKey string

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Email address").
						Description("The mailbox campaigns are sent from").
						Placeholder("you@example.com").
						Value(&cfg.Mailbox.Username).
						Validate(validateRequired("Email address")),
					huh.NewInput().
						Title("Mailbox password").
						Description("An app password for Gmail accounts").
						EchoMode(huh.EchoModePassword).
						Value(&mailboxPassword).
						Validate(validateRequired("Password")),
					huh.NewInput().
						Title("IMAP host").
						Value(&cfg.Mailbox.IMAPHost).
						Validate(validateRequired("IMAP host")),
					huh.NewInput().
						Title("IMAP port").
						Value(&cfg.Mailbox.IMAPPort).
						Validate(validateRequired("IMAP port")),
					huh.NewInput().
						Title("SMTP host").
						Value(&cfg.Mailbox.SMTPHost).
						Validate(validateRequired("SMTP host")),
					huh.NewInput().
						Title("SMTP port").
						Value(&cfg.Mailbox.SMTPPort).
						Validate(validateRequired("SMTP port")),
					huh.NewInput().
						Title("Escalation address").
						Description("Where alerts go, leave empty to use the mailbox address").
						Value(&cfg.Mailbox.Owner),
				),
				huh.NewGroup(
					huh.NewInput().
						Title("AI base URL").
						Description("An OpenAI-compatible chat completions endpoint").
						Value(&cfg.AI.BaseURL).
						Validate(validateRequired("AI base URL")),
					huh.NewInput().
						Title("AI model").
						Value(&cfg.AI.Model).
						Validate(validateRequired("AI model")),
					huh.NewInput().
						Title("AI API key").
						EchoMode(huh.EchoModePassword).
						Value(&apiKey).
						Validate(validateRequired("API key")),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			if err := credential.Set(credential.KeyMailboxPassword, mailboxPassword); err != nil {
				return fmt.Errorf("storing mailbox password: %w", err)
			}
			if err := credential.Set(credential.KeyAIAPIKey, apiKey); err != nil {
				return fmt.Errorf("storing API key: %w", err)
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}

			fmt.Println("Checking mailbox connection...")
			transport := mail.NewTransport(cfg.Mailbox, cfg.OwnerAddress(), mailboxPassword)
			if err := transport.ValidateConnection(cmd.Context()); err != nil {
				fmt.Printf("Warning: the mailbox connection failed: %v\n", err)
				fmt.Println("The configuration was saved, fix the settings and run setup again.")
				return nil
			}

			fmt.Printf("Configuration saved to %s\n", path)
			return nil
		},
	}
}

func validateRequired(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
