package main

import (
	"errors"
	"fmt"
	"sort"

	"seaview-backend/internal/contactform"
	"seaview-backend/internal/dispatch"
	"seaview-backend/internal/domain"
	"seaview-backend/pkg/logger"
	"seaview-backend/pkg/validation"

	"github.com/spf13/cobra"
)

// errNotSent makes the process exit non-zero without printing twice.
var errNotSent = errors.New("inquiry was not sent")

type inquiryFlags struct {
	name, email, phone, subject, message string
}

func (f *inquiryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "sender's full name")
	cmd.Flags().StringVar(&f.email, "email", "", "sender's email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "sender's phone number (optional)")
	cmd.Flags().StringVar(&f.subject, "subject", "", "inquiry subject, e.g. admission")
	cmd.Flags().StringVar(&f.message, "message", "", "message body")
}

func (f *inquiryFlags) fields() map[string]string {
	return domain.Inquiry{
		Name:    f.name,
		Email:   f.email,
		Phone:   f.phone,
		Subject: f.subject,
		Message: f.message,
	}.Fields()
}

func printFieldErrors(cmd *cobra.Command, messages map[string]string) {
	fields := make([]string, 0, len(messages))
	for field := range messages {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", messages[field])
	}
}

func newSendCmd() *cobra.Command {
	var (
		flags  inquiryFlags
		noOpen bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Validate and deliver an inquiry through the dispatch chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opener dispatch.Opener = dispatch.SystemOpener{}
			if noOpen {
				opener = nil
			}
			dispatcher := dispatch.NewFromConfig(cfg, opener, logger.Log)
			form := contactform.New(validation.NewFormValidator(), dispatcher)

			outcome := form.Submit(cmd.Context(), flags.fields())
			out := cmd.OutOrStdout()

			switch outcome.Status {
			case contactform.StatusSent:
				fmt.Fprintln(out, outcome.Message)
				fmt.Fprintf(out, "Delivered via %s\n", outcome.Receipt.Tier)
				return nil
			case contactform.StatusInvalid:
				fmt.Fprintln(out, "Please correct the following:")
				printFieldErrors(cmd, outcome.FieldMessages)
			default:
				fmt.Fprintln(out, outcome.Message)
				if outcome.MailtoURI != "" {
					fmt.Fprintln(out, outcome.Instruction)
					fmt.Fprintln(out, outcome.MailtoURI)
				}
			}
			return errNotSent
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "print the mailto fallback instead of opening a mail client")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var flags inquiryFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check inquiry fields without sending anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := validation.NewFormValidator().ValidateInquiry(flags.fields())
			out := cmd.OutOrStdout()

			for _, field := range validation.FormFields {
				fmt.Fprintf(out, "%-8s %s\n", field, result.Fields[field])
			}
			if result.Valid() {
				return nil
			}
			printFieldErrors(cmd, result.Messages)
			return result.Err()
		},
	}

	flags.register(cmd)
	return cmd
}
