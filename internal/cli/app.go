// Package cli implements the interactive console shared by the manager
// and field binaries. It is a plain REPL: both node types are operated on
// machines without a desktop environment.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eventsync/eventsync/internal/auth"
	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/services"
	syncsvc "github.com/eventsync/eventsync/internal/sync"
)

// App holds the interactive session state: the authenticated user and the
// organization the session operates on.
type App struct {
	auth      *auth.Service
	events    *services.EventService
	orgs      *services.OrganizationService
	sync      *syncsvc.Service
	logger    logging.Logger
	exportDir string

	reader   *bufio.Reader
	out      io.Writer
	userName string
	orgID    int64
}

func NewApp(authSvc *auth.Service, eventSvc *services.EventService,
	orgSvc *services.OrganizationService, syncSvc *syncsvc.Service,
	exportDir string, logger logging.Logger) *App {
	return &App{
		auth:      authSvc,
		events:    eventSvc,
		orgs:      orgSvc,
		sync:      syncSvc,
		logger:    logger,
		exportDir: exportDir,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run starts the REPL and blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "not logged in"
	}
	return fmt.Sprintf("%s @ org %d", a.userName, a.orgID)
}

// selectOrganization binds the session to an organization. With a single
// organization registered there is nothing to ask.
func (a *App) selectOrganization(ctx context.Context) error {
	orgs, err := a.orgs.List(ctx)
	if err != nil {
		return err
	}
	switch len(orgs) {
	case 0:
		fmt.Fprintln(a.out, "No organizations registered yet; use addorg first.")
		return nil
	case 1:
		a.orgID = orgs[0].ID
		return nil
	}

	for _, o := range orgs {
		fmt.Fprintf(a.out, "  %d: %s (inn %s)\n", o.ID, o.Name, o.Inn)
	}
	idStr, err := GetSimpleText(a.reader, "Organization id", a.out)
	if err != nil {
		return err
	}
	var id int64
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		return fmt.Errorf("invalid organization id %q", idStr)
	}
	if _, err := a.orgs.GetByID(ctx, id); err != nil {
		return err
	}
	a.orgID = id
	return nil
}

// reportErr prints the error for the user; unexpected ones also go to the
// log. Domain sentinels are user-facing conditions, not defects.
func (a *App) reportErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
	if !isDomainErr(err) {
		a.logger.Error(context.Background(), "command failed", "error", err)
	}
}

func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		common.ErrNotFound, common.ErrUnauthorized, common.ErrLoginTaken,
		common.ErrDecryption, common.ErrMalformedDump, common.ErrIntegrity,
		common.ErrNonceReused,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
