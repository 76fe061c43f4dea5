package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/me/loginhub/internal/api"
	"github.com/me/loginhub/internal/auth"
	"github.com/me/loginhub/internal/config"
	"github.com/me/loginhub/internal/guard"
	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

// console wires the CLI's session store, backend client and authenticator.
// Durable state lives in <state>/session.json, tab state in
// <state>/tabs/<tab>.json.
type console struct {
	sessions *session.Store
	api      *api.Client
	auth     *auth.Authenticator
	guard    *guard.Authorizer
}

func newConsole(cfg config.ClientConfig, tab string, logger *slog.Logger) *console {
	durable := session.NewFileScope(filepath.Join(cfg.StateDir, "session.json"))
	tabScope := session.NewFileScope(filepath.Join(cfg.StateDir, "tabs", tab+".json"))
	sessions := session.NewStore(durable, tabScope, logger)

	client := api.NewClient(cfg.APIURL, logger,
		api.WithSessions(sessions),
		api.WithMasterKey(cfg.MasterKey),
		api.WithTimeout(cfg.RequestTimeout),
	)
	return &console{
		sessions: sessions,
		api:      client,
		auth: auth.New(sessions, client, auth.Options{
			MasterKey:           cfg.MasterKey,
			ReservedIdentifiers: cfg.ReservedIdentifiers,
		}, logger, nil),
		guard: guard.New(sessions, logger, nil),
	}
}

var errNotSignedIn = errors.New("not signed in (run: loginhub login)")

// require admits the current session to a command needing req.
func (c *console) require(ctx context.Context, req guard.Requirement, command string) (model.Session, error) {
	return c.requireAny(ctx, command, req)
}

// requireAny admits the current session to a command open to any of reqs.
// The tiers are disjoint, so each requirement is evaluated in turn.
func (c *console) requireAny(ctx context.Context, command string, reqs ...guard.Requirement) (model.Session, error) {
	sess := model.AnonymousSession()
	tiers := make([]string, 0, len(reqs))
	for _, req := range reqs {
		nav, s, err := c.guard.Resolve(ctx, req, command)
		if err != nil {
			return s, err
		}
		if nav.IsRender() {
			return s, nil
		}
		sess = s
		tiers = append(tiers, req.String())
	}
	if !sess.IsAuthenticated() {
		return sess, errNotSignedIn
	}
	return sess, fmt.Errorf("%s requires a %s session", command, strings.Join(tiers, " or "))
}

// commandError reports a failed backend operation with its user-facing text.
type commandError struct {
	action string
	err    error
}

func (e *commandError) Error() string {
	return e.action + ": " + auth.UserMessage(e.err)
}

func (e *commandError) Unwrap() error {
	return e.err
}

func failed(action string, err error) error {
	return &commandError{action: action, err: err}
}
