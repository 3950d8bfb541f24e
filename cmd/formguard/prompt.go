package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/prompt"
)

func promptCmd(flags *globalFlags) *cobra.Command {
	var (
		selector    string
		format      string
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "prompt PAGE",
		Short: "Fill a page's form interactively",
		Long: `prompt asks for every field of the form in PAGE, re-asking while a
field's rule rejects the answer, and prints the collected values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			markup, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read page: %w", err)
			}
			doc, err := dom.Parse(bytes.NewReader(markup))
			if err != nil {
				return err
			}
			if selector == "" {
				selector = a.guard.Selector()
			}
			form := doc.Query(selector)
			if form == nil {
				return fmt.Errorf("%w: %s", guard.ErrFormNotFound, selector)
			}
			fields := prompt.FieldsFromForm(form)

			filler := prompt.New(
				prompt.WithGuard(a.guard),
				prompt.WithLogger(a.logger),
				prompt.WithMaxAttempts(maxAttempts),
				prompt.WithPromptDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
			)
			values, err := filler.Fill(cmd.Context(), fields)
			if err != nil {
				return err
			}
			encoded, err := prompt.Encode(values, prompt.OutputFormat(format), prompt.SecretNames(fields)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(encoded); err != nil {
				return err
			}
			if len(encoded) > 0 && encoded[len(encoded)-1] != '\n' {
				_, err = fmt.Fprintln(out)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&selector, "selector", "", "form selector (default: guard.selector)")
	cmd.Flags().StringVarP(&format, "format", "f", string(prompt.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "attempts per field before giving up")
	return cmd
}
