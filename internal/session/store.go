package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/me/loginhub/pkg/model"
)

// Storage keys. Durable keys hold tenant credentials; the tab key holds the
// master flag.
const (
	KeyToken   = "awl_token"
	KeyUser    = "awl_user"
	KeyCompany = "awl_empresa"
	KeyMaster  = "is_super_admin"

	masterFlagValue = "true"
)

// ErrIncompleteSession is returned when asked to write a tenant session that
// lacks a token or a valid identity.
var ErrIncompleteSession = errors.New("incomplete tenant session")

// Reader reads the current session.
type Reader interface {
	Read(ctx context.Context) (model.Session, error)
}

// Repository is the full session lifecycle used by the Authenticator.
type Repository interface {
	Reader
	Write(ctx context.Context, sess model.Session) error
	Clear(ctx context.Context) error
}

// Store persists a model.Session over a durable and a tab-scoped Scope.
//
// At most one tier is resolvable at any time: Write clears the fields of the
// other tier before writing its own, and Read checks the tab flag first.
type Store struct {
	durable Scope
	tab     Scope
	logger  *slog.Logger
}

// NewStore creates a Store over the given scopes.
func NewStore(durable, tab Scope, logger *slog.Logger) *Store {
	return &Store{
		durable: durable,
		tab:     tab,
		logger:  logger.With("component", "session"),
	}
}

// Write persists sess. Writing an anonymous session clears the store.
func (s *Store) Write(ctx context.Context, sess model.Session) error {
	switch sess.Tier {
	case model.TierMaster:
		if err := s.clearDurable(ctx); err != nil {
			return err
		}
		if err := s.tab.Set(ctx, KeyMaster, masterFlagValue); err != nil {
			return fmt.Errorf("write master flag: %w", err)
		}
		return nil

	case model.TierTenantUser:
		if sess.Token == "" || !sess.Identity.Valid() {
			return ErrIncompleteSession
		}
		if err := s.tab.Delete(ctx, KeyMaster); err != nil {
			return fmt.Errorf("clear master flag: %w", err)
		}
		userJSON, err := json.Marshal(sess.Identity)
		if err != nil {
			return fmt.Errorf("marshal identity: %w", err)
		}

		// The token is dropped first and written last: an interrupted write
		// leaves no token, which reads back as anonymous.
		if err := s.durable.Delete(ctx, KeyToken); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		if err := s.durable.Set(ctx, KeyUser, string(userJSON)); err != nil {
			return fmt.Errorf("write identity: %w", err)
		}
		if sess.Company != nil {
			companyJSON, err := json.Marshal(sess.Company)
			if err != nil {
				return fmt.Errorf("marshal company: %w", err)
			}
			if err := s.durable.Set(ctx, KeyCompany, string(companyJSON)); err != nil {
				return fmt.Errorf("write company: %w", err)
			}
		} else if err := s.durable.Delete(ctx, KeyCompany); err != nil {
			return fmt.Errorf("clear company: %w", err)
		}
		if err := s.durable.Set(ctx, KeyToken, sess.Token); err != nil {
			return fmt.Errorf("write token: %w", err)
		}
		return nil

	default:
		return s.Clear(ctx)
	}
}

// Read reconstructs the session. Missing, partial or corrupt tenant data
// reads as anonymous; only storage failures are returned as errors.
func (s *Store) Read(ctx context.Context) (model.Session, error) {
	flag, ok, err := s.tab.Get(ctx, KeyMaster)
	if err != nil {
		return model.AnonymousSession(), fmt.Errorf("read master flag: %w", err)
	}
	if ok && flag == masterFlagValue {
		return model.NewMasterSession(), nil
	}

	token, ok, err := s.durable.Get(ctx, KeyToken)
	if err != nil {
		return model.AnonymousSession(), fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return model.AnonymousSession(), nil
	}

	raw, ok, err := s.durable.Get(ctx, KeyUser)
	if err != nil {
		return model.AnonymousSession(), fmt.Errorf("read identity: %w", err)
	}
	if !ok {
		return model.AnonymousSession(), nil
	}
	var identity model.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Debug("stored identity is corrupt, treating as anonymous", "error", err)
		return model.AnonymousSession(), nil
	}
	if !identity.Valid() {
		s.logger.Debug("stored identity violates tenant invariants, treating as anonymous", "user_id", identity.ID)
		return model.AnonymousSession(), nil
	}

	sess := model.Session{
		Tier:     model.TierTenantUser,
		Token:    token,
		Identity: identity,
	}
	if rawCompany, ok, err := s.durable.Get(ctx, KeyCompany); err != nil {
		return model.AnonymousSession(), fmt.Errorf("read company: %w", err)
	} else if ok {
		var company model.CompanySummary
		if err := json.Unmarshal([]byte(rawCompany), &company); err == nil {
			sess.Company = &company
		}
	}
	return sess, nil
}

// Clear removes every session key from both scopes. It is idempotent.
func (s *Store) Clear(ctx context.Context) error {
	errDurable := s.clearDurable(ctx)
	var errTab error
	if err := s.tab.Delete(ctx, KeyMaster); err != nil {
		errTab = fmt.Errorf("clear master flag: %w", err)
	}
	return errors.Join(errDurable, errTab)
}

func (s *Store) clearDurable(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUser, KeyCompany} {
		if err := s.durable.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
