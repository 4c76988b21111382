package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"procurement/internal/app/dto"
	"procurement/internal/intake/board"
	"procurement/internal/intake/draft"
	"procurement/internal/intake/notice"

	flag "github.com/spf13/pflag"
)

// backend is the client surface shared by the form and the board.
type backend interface {
	draft.API
	board.API
}

type command struct {
	api     backend
	notices *notice.Center
	stdout  io.Writer
	stderr  io.Writer
}

func (c *command) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *command) list(ctx context.Context, args []string) error {
	fs := c.flags("list")
	expand := fs.Int64("expand", 0, "show order lines of the request with this id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	b := board.New(c.api, c.notices)
	if err := b.FetchAll(ctx); err != nil {
		return err
	}
	if *expand != 0 {
		b.Toggle(*expand)
	}

	expandedID, hasExpanded := b.Expanded()

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tVENDOR\tDEPARTMENT\tTOTAL\tCREATED")
	for _, r := range b.Requests() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.ID, r.Status, r.Title, r.VendorName, r.Department, r.TotalCost, r.CreatedAt.Format("2006-01-02 15:04"))
		if hasExpanded && r.ID == expandedID {
			for _, line := range r.OrderLines {
				fmt.Fprintf(tw, "\t  %s\t%g %s\tx %.2f\t\t%.2f\t\n",
					line.Description, line.Amount, line.Unit, line.UnitPrice, line.TotalPrice)
			}
		}
	}
	return tw.Flush()
}

func (c *command) status(ctx context.Context, args []string) error {
	fs := c.flags("status")
	id := fs.Int64("id", 0, "request id")
	value := fs.String("status", "", "new status: Open, In Progress, Closed or Rejected")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id == 0 {
		fmt.Fprintln(c.stderr, "--id is required")
		return errUsage
	}

	st, err := dto.ParseStatus(*value)
	if err != nil {
		return err
	}

	b := board.New(c.api, c.notices)
	if err := b.FetchAll(ctx); err != nil {
		return err
	}
	if err := b.SetStatus(ctx, *id, st); err != nil {
		return err
	}

	r, ok := b.Request(*id)
	if !ok {
		return nil
	}
	fmt.Fprintf(c.stdout, "%d\t%s\n", r.ID, r.Status)
	return nil
}

func (c *command) extract(ctx context.Context, args []string) error {
	fs := c.flags("extract")
	document := fs.String("document", "", "path to a PDF or image")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *document == "" {
		fmt.Fprintln(c.stderr, "--document is required")
		return errUsage
	}

	form := draft.NewForm(c.api, c.notices)
	if err := loadDocument(ctx, form, *document); err != nil {
		return err
	}
	return c.printJSON(form.Draft())
}

func (c *command) submit(ctx context.Context, args []string) error {
	fs := c.flags("submit")
	document := fs.String("document", "", "pre-fill the draft from this document")
	sets := fs.StringArray("set", nil, "field=value, repeatable")
	lines := fs.StringArray("line", nil, "order line as description=..,unit_price=..,amount=..,unit=..,total_price=.., repeatable")
	drops := fs.IntSlice("drop-line", nil, "remove the order line at this position after loading")
	dryRun := fs.Bool("dry-run", false, "print the draft instead of submitting it")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	form := draft.NewForm(c.api, c.notices)
	if *document != "" {
		if err := loadDocument(ctx, form, *document); err != nil {
			return err
		}
	}

	for _, idx := range dropOrder(*drops) {
		if err := form.RemoveLine(idx); err != nil {
			return err
		}
	}

	for _, s := range *sets {
		field, value, err := splitAssignment(s)
		if err != nil {
			return err
		}
		if err := form.UpdateField(draft.Field(field), value); err != nil {
			return err
		}
	}

	for _, raw := range *lines {
		if err := addLine(form, raw); err != nil {
			return err
		}
	}

	if *dryRun {
		return c.printJSON(form.Draft())
	}

	created, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(created)
}

// dropOrder returns the distinct positions highest first, so each removal
// leaves the remaining positions where the operator saw them.
func dropOrder(positions []int) []int {
	out := slices.Clone(positions)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

func loadDocument(ctx context.Context, form *draft.Form, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	_, err = form.LoadFromDocument(ctx, filepath.Base(path), f)
	return err
}

func addLine(form *draft.Form, raw string) error {
	idx := form.AddLine()
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		field, value, err := splitAssignment(part)
		if err != nil {
			return err
		}
		if err := form.UpdateLine(idx, draft.LineField(field), value); err != nil {
			return err
		}
	}
	return nil
}

func splitAssignment(s string) (string, string, error) {
	field, value, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("expected field=value, got %q", s)
	}
	return field, value, nil
}

func (c *command) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
