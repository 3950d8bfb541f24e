package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/rules"
)

type checkOptions struct {
	valuesFile string
	sets       []string
	files      []string
	selector   string
	formID     string
	html       bool
	asJSON     bool
}

type checkReport struct {
	State  string              `json:"state"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func checkCmd(flags *globalFlags) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check PAGE",
		Short: "Validate a page's form against a set of values",
		Long: `check parses PAGE, binds the given values into its form and runs a full
validation pass. It exits with status 1 when the form is rejected.

Values come from a YAML file (--values) mapping field names to a string or a
list of strings, and from repeated --set name=value flags. Uploads are given
with --file name=path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()
			return runCheck(cmd, a, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.valuesFile, "values", "", "YAML file of field values")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.files, "file", nil, "upload as name=path (repeatable)")
	cmd.Flags().StringVar(&opts.selector, "selector", "", "form selector (default: guard.selector)")
	cmd.Flags().StringVar(&opts.formID, "form", "", "id of the form to check")
	cmd.Flags().BoolVar(&opts.html, "html", false, "print the annotated page instead of a report")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, page string, opts *checkOptions) error {
	markup, err := os.ReadFile(page)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}
	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		return err
	}
	values, err := loadValues(opts.valuesFile, opts.sets)
	if err != nil {
		return err
	}
	files, err := loadFiles(opts.files)
	if err != nil {
		return err
	}

	selector := opts.selector
	if selector == "" {
		selector = a.guard.Selector()
	}
	if opts.formID != "" {
		selector = "#" + dom.EscapeIdent(opts.formID)
	}
	form, err := a.guard.Attach(doc, selector, files)
	if err != nil {
		return err
	}
	defer form.Close()

	form.Bind(values)

	outcome, err := form.Submit(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.html:
		doc.Lock()
		dom.ScrubPasswords(form.Element())
		err = doc.Render(out)
		doc.Unlock()
	case opts.asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(checkReport{State: outcome.State.String(), Errors: outcome.Errors()})
	default:
		err = writeReport(out, outcome)
	}
	if err != nil {
		return err
	}
	if !outcome.Accepted() {
		return errRejected
	}
	return nil
}

func writeReport(w io.Writer, outcome guard.Outcome) error {
	if outcome.Accepted() {
		_, err := fmt.Fprintln(w, "accepted")
		return err
	}
	errs := outcome.Errors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	slices.Sort(names)
	if _, err := fmt.Fprintln(w, "rejected"); err != nil {
		return err
	}
	for _, name := range names {
		for _, msg := range errs[name] {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", name, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadValues merges a YAML values file with name=value pairs. A name given
// with --set replaces the file's values for that name.
func loadValues(path string, sets []string) (url.Values, error) {
	values := url.Values{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode values %s: %w", path, err)
		}
		for name, value := range doc {
			switch v := value.(type) {
			case nil:
				values[name] = []string{""}
			case []any:
				for _, item := range v {
					values.Add(name, fmt.Sprint(item))
				}
			default:
				values.Set(name, fmt.Sprint(v))
			}
		}
	}

	replaced := make(map[string]bool)
	for _, pair := range sets {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", pair)
		}
		if !replaced[name] {
			values.Del(name)
			replaced[name] = true
		}
		values.Add(name, value)
	}
	return values, nil
}

func loadFiles(pairs []string) (map[string]*rules.FileInfo, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]*rules.FileInfo, len(pairs))
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --file %q: want name=path", pair)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		contentType, err := detectContentType(path)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		out[name] = &rules.FileInfo{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Size:        info.Size(),
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		}
	}
	return out, nil
}

func detectContentType(path string) (string, error) {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return byExt, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
