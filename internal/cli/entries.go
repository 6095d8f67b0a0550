package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/matcher"
	"github.com/dmitrijs2005/gophvault/internal/models"
)

const undecryptable = "<undecryptable>"

const ungrouped = "Ungrouped"

// List prints the entries grouped by group, with passwords masked. Groups
// are sorted by name and ungrouped entries come last. Any args form a search
// term that filters the listing. Entries that could not be decrypted are
// flagged in their own section.
func (a *App) List(ctx context.Context, args []string) error {
	return a.list(ctx, strings.Join(args, " "))
}

// Search is List with a mandatory term.
func (a *App) Search(ctx context.Context, args []string) error {
	term := strings.Join(args, " ")
	if term == "" {
		var err error
		if term, err = a.text("Search"); err != nil {
			return err
		}
	}
	return a.list(ctx, term)
}

func (a *App) list(ctx context.Context, term string) error {
	listing, err := a.engine.ListEntries(ctx)
	if err != nil {
		return err
	}
	if len(listing.Entries) == 0 && len(listing.Failures) == 0 {
		a.println("The vault is empty.")
		return nil
	}

	entries := matcher.Search(listing.Entries, term)
	var failures []models.DecryptFailure
	for _, f := range listing.Failures {
		if matcher.SearchMatches(models.VaultEntry{Website: f.Website, Identifier: f.Identifier}, term) {
			failures = append(failures, f)
		}
	}
	if len(entries) == 0 && len(failures) == 0 {
		a.println(fmt.Sprintf("No entries match %q.", term))
		return nil
	}

	groups, names := groupEntries(entries)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "[%s]\n", name)
		fmt.Fprintln(tw, "ID\tWEBSITE\tIDENTIFIER\tPASSWORD")
		for _, e := range groups[name] {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Website, e.Identifier, "********")
		}
	}
	if len(failures) > 0 {
		fmt.Fprintln(tw, "[Undecryptable]")
		fmt.Fprintln(tw, "ID\tWEBSITE\tIDENTIFIER\tPASSWORD")
		for _, f := range failures {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Website, f.Identifier, undecryptable)
		}
	}
	return tw.Flush()
}

// groupEntries buckets entries by group, keeping their order inside a
// bucket, and returns the bucket names in display order.
func groupEntries(entries []models.VaultEntry) (map[string][]models.VaultEntry, []string) {
	groups := make(map[string][]models.VaultEntry)
	var names []string
	for _, e := range entries {
		name := e.Group
		if name == "" {
			name = ungrouped
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], e)
	}

	sort.Slice(names, func(i, j int) bool {
		if (names[i] == ungrouped) != (names[j] == ungrouped) {
			return names[j] == ungrouped
		}
		return names[i] < names[j]
	})
	return groups, names
}

func (a *App) Add(ctx context.Context) error {
	if !a.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}

	var d models.Draft
	var err error
	if d.Website, err = a.text("Website"); err != nil {
		return err
	}
	if d.Identifier, err = a.text("Identifier (username or email)"); err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	d.Password = string(password)
	if d.Group, err = a.text("Group (optional)"); err != nil {
		return err
	}
	if d.Note, err = a.text("Note (optional)"); err != nil {
		return err
	}

	e, err := a.engine.AddEntry(ctx, d)
	if err != nil {
		return err
	}
	a.println("Added entry", e.ID)
	return nil
}

// Edit shows each current value; an empty answer keeps it.
func (a *App) Edit(ctx context.Context, args []string) error {
	if !a.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}
	id, err := a.argOrPrompt(args, "Entry id to edit")
	if err != nil {
		return err
	}
	e, err := a.engine.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	fields := []struct {
		label string
		dst   *string
	}{
		{"Website", &e.Website},
		{"Identifier", &e.Identifier},
		{"Group", &e.Group},
		{"Note", &e.Note},
	}
	for _, f := range fields {
		v, err := a.text(fmt.Sprintf("%s [%s]", f.label, *f.dst))
		if err != nil {
			return err
		}
		*f.dst = withDefault(v, *f.dst)
	}

	password, err := GetPassword("Password (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	e.Password = withDefault(string(password), e.Password)

	if _, err := a.engine.UpdateEntry(ctx, e); err != nil {
		return err
	}
	a.println("Updated entry", e.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}
	id, err := a.argOrPrompt(args, "Entry id to delete")
	if err != nil {
		return err
	}
	if err := a.engine.RemoveEntry(ctx, id); err != nil {
		return err
	}
	a.println("Deleted entry", id)
	return nil
}

// Show prints one entry including its password.
func (a *App) Show(ctx context.Context, args []string) error {
	if !a.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}
	id, err := a.argOrPrompt(args, "Entry id to show")
	if err != nil {
		return err
	}
	e, err := a.engine.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	a.printEntry(e)
	return nil
}

func (a *App) printEntry(e models.VaultEntry) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", e.ID)
	fmt.Fprintf(tw, "Website:\t%s\n", e.Website)
	fmt.Fprintf(tw, "Identifier:\t%s\n", e.Identifier)
	fmt.Fprintf(tw, "Password:\t%s\n", e.Password)
	if e.Group != "" {
		fmt.Fprintf(tw, "Group:\t%s\n", e.Group)
	}
	if e.Note != "" {
		fmt.Fprintf(tw, "Note:\t%s\n", e.Note)
	}
	_ = tw.Flush()
}
