// Package services – SessionService
//
// This file implements SessionService, which owns visitor/user resolution
// and the conversation lifecycle: opening and closing sessions, appending
// message turns, and ordered retrieval. It enforces the ledger's rules
// (role validity, rating bounds, session existence) and translates driver
// errors into the service taxonomy so callers never see storage-engine
// error types.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/repo"
)

// SessionService implements the use-cases of the session ledger.
type SessionService struct {
	DB *gorm.DB
}

// ResolveVisitorInput carries the optional fingerprint fields for visitor
// resolution. Every field may be empty.
type ResolveVisitorInput struct {
	VisitorID  string
	IPAddress  string
	UserAgent  string
	DeviceType string
	Browser    string
}

// ResolveVisitor is an upsert by natural key: when VisitorID names an
// existing visitor its last_visit is touched and its ID returned; otherwise
// a new visitor is created (generating a VisitorID when none was supplied).
// The read-or-create and the touch run in one transaction.
func (s *SessionService) ResolveVisitor(ctx context.Context, in ResolveVisitorInput) (uint, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "ResolveVisitor",
		trace.WithAttributes(attribute.String("visitor.token", in.VisitorID)),
	)
	defer span.End()

	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.VisitorID != "" {
			v, err := repo.GetVisitorByToken(ctx, tx, in.VisitorID)
			if err == nil {
				if err := repo.TouchVisitor(ctx, tx, v.ID, time.Now().UTC()); err != nil {
					return err
				}
				id = v.ID
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		token := in.VisitorID
		if token == "" {
			token = uuid.NewString()
		}
		v := &domain.Visitor{
			VisitorID:  token,
			IPAddress:  in.IPAddress,
			UserAgent:  in.UserAgent,
			DeviceType: in.DeviceType,
			Browser:    in.Browser,
		}
		if err := repo.CreateVisitor(ctx, tx, v); err != nil {
			return err
		}
		id = v.ID
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

// CreateUser registers a user. A taken username or email is ErrConflict.
// The username is checked up front for a cleaner message; the schema's
// unique indexes still backstop races and email collisions.
func (s *SessionService) CreateUser(ctx context.Context, username string, email, phone *string) (uint, error) {
	if strings.TrimSpace(username) == "" {
		return 0, fmt.Errorf("%w: username is empty", ErrValidation)
	}
	if _, err := repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return 0, fmt.Errorf("%w: username %q is taken", ErrConflict, username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, storageErr(err)
	}
	u := &domain.User{Username: username, Email: email, Phone: phone}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return 0, fmt.Errorf("%w: username or email", ErrConflict)
		}
		return 0, storageErr(err)
	}
	return u.ID, nil
}

// GetUser fetches a registered user by ID. Missing users are ErrNotFound.
func (s *SessionService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, storageErr(err)
	}
	return u, nil
}

// OpenSession creates an active session with a fresh unique token and
// returns (id, token). Both owner references are optional.
func (s *SessionService) OpenSession(ctx context.Context, visitorID, userID *uint, title, pageURL string) (uint, string, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "OpenSession")
	defer span.End()

	sess := &domain.Session{
		VisitorID: visitorID,
		UserID:    userID,
		Token:     uuid.NewString(),
		Title:     title,
		PageURL:   pageURL,
	}
	if err := repo.CreateSession(ctx, s.DB, sess); err != nil {
		return 0, "", storageErr(err)
	}
	return sess.ID, sess.Token, nil
}

// GetSessionByToken resolves a session from the opaque token handed out at
// open time, so a returning client can pick up its conversation without
// knowing the surrogate ID. Unknown tokens are ErrNotFound.
func (s *SessionService) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrValidation)
	}
	sess, err := repo.GetSessionByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session token", ErrNotFound)
		}
		return nil, storageErr(err)
	}
	return sess, nil
}

// CloseSession marks a session inactive and stamps ended_at, recording the
// satisfaction rating when given (1..5, else ErrValidation). Closing a
// missing or already-closed session is a silent no-op: double-close races
// under concurrent tab-close signals are expected, so idempotence beats an
// error here.
func (s *SessionService) CloseSession(ctx context.Context, id uint, rating *int) error {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "CloseSession",
		trace.WithAttributes(attribute.Int("session.id", int(id))),
	)
	defer span.End()

	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("%w: satisfaction rating must be 1..5", ErrValidation)
	}
	if _, err := repo.EndSession(ctx, s.DB, id, rating); err != nil {
		return storageErr(err)
	}
	return nil
}

// AppendMessage inserts one turn into a session and returns the message ID.
// The session must exist (ErrNotFound otherwise); role must be one of
// user/assistant/system and content non-empty. The existence check and the
// insert share a transaction so no row is created for a vanishing session.
func (s *SessionService) AppendMessage(ctx context.Context, sessionID uint, role, content string, tokensUsed *int) (uint, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "AppendMessage",
		trace.WithAttributes(
			attribute.Int("session.id", int(sessionID)),
			attribute.String("message.role", role),
		),
	)
	defer span.End()

	switch role {
	case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: content is empty", ErrValidation)
	}

	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repo.SessionExists(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		m, err := repo.CreateMessage(tx, sessionID, role, content, tokensUsed)
		if err != nil {
			return err
		}
		id = m.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, storageErr(err)
	}
	return id, nil
}

// ListMessages returns a session's messages ascending by timestamp (ID as
// the tie-break). The result is a finite, re-queryable snapshot, not a live
// stream. A missing session is ErrNotFound.
func (s *SessionService) ListMessages(ctx context.Context, sessionID uint) ([]domain.Message, error) {
	ok, err := repo.SessionExists(ctx, s.DB, sessionID)
	if err != nil {
		return nil, storageErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	out, err := repo.ListMessages(s.DB.WithContext(ctx), sessionID, 0)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// ListMessagesPage returns one page of a session's messages plus the total
// count, for the HTTP layer's pagination.
func (s *SessionService) ListMessagesPage(ctx context.Context, sessionID uint, offset, limit int) ([]domain.Message, int64, error) {
	ok, err := repo.SessionExists(ctx, s.DB, sessionID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	total, err := repo.CountMessages(s.DB.WithContext(ctx), sessionID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), sessionID, offset, limit)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return items, total, nil
}

// VisitorStats returns how many sessions a visitor owns and the newest
// UpdatedAt among them (nil when the visitor has none). The visitor itself
// must exist (ErrNotFound otherwise).
func (s *SessionService) VisitorStats(ctx context.Context, visitorID uint) (int64, *time.Time, error) {
	if _, err := repo.GetVisitor(ctx, s.DB, visitorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: visitor %d", ErrNotFound, visitorID)
		}
		return 0, nil, storageErr(err)
	}
	count, maxAt, err := repo.SessionStats(ctx, s.DB, visitorID)
	if err != nil {
		return 0, nil, storageErr(err)
	}
	return count, maxAt, nil
}

// DeleteSession removes a session and its messages (cascade in one
// transaction). Missing sessions are a no-op.
func (s *SessionService) DeleteSession(ctx context.Context, id uint) error {
	if err := repo.DeleteSession(ctx, s.DB, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
