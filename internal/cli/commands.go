package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/models"
)

const dateLayout = "2006-01-02"

// Register creates a local account and logs it in.
func (a *App) Register(ctx context.Context) error {
	login, err := GetSimpleText(a.reader, "Login", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if _, err := a.auth.Register(ctx, login, string(pw)); err != nil {
		a.reportErr(err)
		return nil
	}
	a.userName = login
	fmt.Fprintln(a.out, "Registered.")
	return a.selectOrganization(ctx)
}

// Login authenticates against the local user table.
func (a *App) Login(ctx context.Context) error {
	login, err := GetSimpleText(a.reader, "Login", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if _, err := a.auth.Login(ctx, login, string(pw)); err != nil {
		a.reportErr(err)
		return nil
	}
	a.userName = login
	fmt.Fprintln(a.out, "Logged in.")
	return a.selectOrganization(ctx)
}

func (a *App) Logout(context.Context) error {
	a.userName = ""
	a.orgID = 0
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// List prints the current organization's events.
func (a *App) List(ctx context.Context) error {
	evts, err := a.events.ListEvents(ctx, a.orgID, nil)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	if len(evts) == 0 {
		fmt.Fprintln(a.out, "No events.")
		return nil
	}
	for _, e := range evts {
		fmt.Fprintf(a.out, "  %d: [%s] %s (v%d, starts %s)\n",
			e.ID, e.Status, e.Title, e.Version, e.StartDate.Format(dateLayout))
	}
	return nil
}

// AddEvent interactively creates an event.
func (a *App) AddEvent(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	startStr, err := GetSimpleText(a.reader, "Start date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		a.reportErr(fmt.Errorf("invalid date %q", startStr))
		return nil
	}
	description, err := GetOptionalText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	priority, err := GetSimpleText(a.reader, "Priority (low/normal/high)", a.out)
	if err != nil {
		return err
	}
	if priority == "" {
		priority = "normal"
	}

	e := &models.Event{
		Title:          title,
		StartDate:      start,
		Description:    description,
		OrganizationID: a.orgID,
		Priority:       priority,
	}
	if err := a.events.CreateEvent(ctx, e, a.userName); err != nil {
		a.reportErr(err)
		return nil
	}
	fmt.Fprintf(a.out, "Created event %d.\n", e.ID)
	return nil
}

// SetStatus transitions an event's status.
func (a *App) SetStatus(ctx context.Context) error {
	id, err := a.promptEventID()
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader,
		"New status (planned/in_progress/done/cancelled)", a.out)
	if err != nil {
		return err
	}
	if err := a.events.UpdateStatus(ctx, id, status, a.userName); err != nil {
		a.reportErr(err)
		return nil
	}
	fmt.Fprintln(a.out, "Status updated.")
	return nil
}

// Cancel marks an event cancelled.
func (a *App) Cancel(ctx context.Context) error {
	id, err := a.promptEventID()
	if err != nil {
		return err
	}
	if err := a.events.DeleteEvent(ctx, id, a.userName); err != nil {
		a.reportErr(err)
		return nil
	}
	fmt.Fprintln(a.out, "Event cancelled.")
	return nil
}

// Attach links a file to an event.
func (a *App) Attach(ctx context.Context) error {
	id, err := a.promptEventID()
	if err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "File path", a.out)
	if err != nil {
		return err
	}
	att, err := a.events.AttachFile(ctx, id, path, a.userName)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	fmt.Fprintf(a.out, "Attached %s (%d bytes, %s).\n", att.Filename, att.FileSize, att.Hash[:12])
	return nil
}

// History prints an event's audit trail.
func (a *App) History(ctx context.Context) error {
	id, err := a.promptEventID()
	if err != nil {
		return err
	}
	entries, err := a.events.History(ctx, id, 50)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	for _, l := range entries {
		line := fmt.Sprintf("  %s %s/%s", l.Timestamp.Format(time.RFC3339), l.Source, l.Action)
		if l.StatusOld != nil || l.StatusNew != nil {
			line += fmt.Sprintf(" %s -> %s", strOrDash(l.StatusOld), strOrDash(l.StatusNew))
		}
		if l.Comment != nil {
			line += " (" + *l.Comment + ")"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// Export writes a dump artifact for the current organization.
func (a *App) Export(ctx context.Context) error {
	res := a.sync.ExportDump(ctx, a.orgID, a.exportDir)
	if !res.Success {
		fmt.Fprintf(a.out, "Export failed: %s\n", res.ErrorMessage)
		return nil
	}
	fmt.Fprintf(a.out, "Dump written to %s\n", res.DumpPath)
	return nil
}

// Import merges a dump artifact. With no path given it offers the
// candidates found on configured media roots.
func (a *App) Import(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Dump path (empty to scan media)", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		candidates, err := a.sync.FindCandidateDumps(ctx)
		if err != nil {
			a.reportErr(err)
			return nil
		}
		if len(candidates) == 0 {
			fmt.Fprintln(a.out, "No dumps found on media roots.")
			return nil
		}
		for i, c := range candidates {
			fmt.Fprintf(a.out, "  %d: %s\n", i+1, c)
		}
		numStr, err := GetSimpleText(a.reader, "Which one", a.out)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(numStr)
		if err != nil || n < 1 || n > len(candidates) {
			a.reportErr(fmt.Errorf("invalid selection %q", numStr))
			return nil
		}
		path = candidates[n-1]
	}

	res := a.sync.ImportDump(ctx, path, a.orgID)
	if !res.Success {
		fmt.Fprintf(a.out, "Import failed: %s\n", res.ErrorMessage)
		return nil
	}
	fmt.Fprintf(a.out, "Imported: %s\n", res.Message)
	return nil
}

// Scan lists dump candidates on media roots.
func (a *App) Scan(ctx context.Context) error {
	candidates, err := a.sync.FindCandidateDumps(ctx)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	if len(candidates) == 0 {
		fmt.Fprintln(a.out, "No dumps found.")
		return nil
	}
	for _, c := range candidates {
		fmt.Fprintln(a.out, "  "+c)
	}
	return nil
}

// Orgs lists registered organizations.
func (a *App) Orgs(ctx context.Context) error {
	orgs, err := a.orgs.List(ctx)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	for _, o := range orgs {
		fmt.Fprintf(a.out, "  %d: %s (inn %s)\n", o.ID, o.Name, o.Inn)
	}
	return nil
}

// AddOrg registers an organization and prints its dump key once.
func (a *App) AddOrg(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	inn, err := GetSimpleText(a.reader, "INN", a.out)
	if err != nil {
		return err
	}
	org := &models.Organization{Name: name, Inn: inn}
	if err := a.orgs.CreateOrganization(ctx, org); err != nil {
		a.reportErr(err)
		return nil
	}
	fmt.Fprintf(a.out, "Created organization %d.\n", org.ID)
	fmt.Fprintf(a.out, "Dump key (hex, shown once): %x\n", org.EncryptionKey)
	if a.orgID == 0 {
		a.orgID = org.ID
	}
	return nil
}

func (a *App) promptEventID() (int64, error) {
	idStr, err := GetSimpleText(a.reader, "Event id", a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event id %q", idStr)
	}
	return id, nil
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
