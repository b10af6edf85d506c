package main

import (
	"fmt"
	"os"

	"prguard/internal/config"
	"prguard/internal/template"

	"github.com/spf13/cobra"
)

type templateOptions struct {
	bodyFile      string
	templateFile  string
	strict        []string
	optional      []string
	maxAdditional int
}

func newTemplateCmd() *cobra.Command {
	opts := &templateOptions{}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Validate a PR description file against a PR template file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.bodyFile, "body", "", "File holding the PR description")
	f.StringVar(&opts.templateFile, "template", "", "File holding the PR template")
	f.StringSliceVar(&opts.strict, "strict", nil, "Sections whose checkboxes must all be checked")
	f.StringSliceVar(&opts.optional, "optional", nil, "Sections that may be left out")
	f.IntVar(&opts.maxAdditional, "max-additional", 0, "Maximum sections not in the template (0 disables)")
	_ = cmd.MarkFlagRequired("body")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func runTemplate(cmd *cobra.Command, opts *templateOptions) error {
	body, err := os.ReadFile(opts.bodyFile)
	if err != nil {
		return err
	}
	tmpl, err := os.ReadFile(opts.templateFile)
	if err != nil {
		return err
	}

	v := template.Validate(string(body), string(tmpl), template.Policy{
		StrictSections:        config.Compact(opts.strict),
		OptionalSections:      config.Compact(opts.optional),
		MaxAdditionalSections: opts.maxAdditional,
	})

	out := cmd.OutOrStdout()
	failed := 0
	for _, o := range v.Outcomes {
		mark := "PASS"
		if !o.Passed {
			mark = "FAIL"
			failed++
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", mark, o.Name, o.Message)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d template check(s) failed", errChecksFailed, failed)
	}
	return nil
}
