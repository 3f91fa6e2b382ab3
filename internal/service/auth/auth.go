// Package auth gates every operation behind the 사용자관리 credential sheet.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"coop_crm/internal/apperr"
	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	tables   domain.TableSource
	audit    domain.AuditLog
	sessions *SessionStore
	logger   *zap.Logger
}

func New(tables domain.TableSource, audit domain.AuditLog, sessions *SessionStore, logger *zap.Logger) *Service {
	return &Service{tables: tables, audit: audit, sessions: sessions, logger: logger}
}

// Login checks the credential pair against the user table and mints a session
// token on success.
func (s *Service) Login(ctx context.Context, id, password string) (Session, error) {
	if id == "" || password == "" {
		return Session{}, apperr.New(apperr.ValidationFailed, "아이디와 비밀번호를 입력하세요")
	}

	t, err := s.tables.Table(ctx, model.WSUsers)
	if err != nil {
		return Session{}, err
	}

	for _, row := range t.Rows {
		u := model.UserFromRow(t, row)
		if u.ID != id {
			continue
		}
		if !credentialMatch(u.Password, password) {
			break
		}
		sess := Session{Token: uuid.NewString(), UserID: u.ID, Name: u.Name}
		s.sessions.Put(sess)
		s.audit.Record(ctx, u.Name, model.ActionLogin, "접속 성공")
		return sess, nil
	}

	s.logger.Info("login rejected", zap.String("id", id))
	return Session{}, apperr.New(apperr.Unauthorized, "정보 불일치")
}

// Logout drops the session and records the action. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return
	}
	s.audit.Record(ctx, sess.Name, model.ActionLogout, "종료")
	s.sessions.Delete(token)
}

// Resolve maps a token back to its session.
func (s *Service) Resolve(token string) (Session, bool) {
	return s.sessions.Get(token)
}

// credentialMatch compares a stored credential with the submitted password.
// A "$2..." value is treated as a bcrypt hash; anything else is legacy
// plaintext from existing sheets, compared in constant time.
func credentialMatch(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
