package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/splitty/internal/session"
)

const secret = "test-secret"

func issue(t *testing.T, repo *session.MockRepository, svc *session.Service, memberID uuid.UUID) (string, *session.Session) {
	t.Helper()

	repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)

	token, sess, err := svc.Issue(context.Background(), memberID)
	require.NoError(t, err)

	return token, sess
}

func TestService_IssueAndValidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := session.NewMockRepository(ctrl)
	svc := session.NewService(repo, secret, time.Hour)
	memberID := uuid.New()

	token, sess := issue(t, repo, svc, memberID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	repo.EXPECT().GetSession(gomock.Any(), sess.ID).Return(sess, nil)

	got, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, memberID, got.MemberID)
}

func TestService_Validate_Rejects(t *testing.T) {
	memberID := uuid.New()
	sessionID := uuid.New()

	sign := func(key string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
		var k any = []byte(key)
		if method == jwt.SigningMethodNone {
			k = jwt.UnsafeAllowNoneSignatureType
		}

		token, err := jwt.NewWithClaims(method, claims).SignedString(k)
		require.NoError(t, err)

		return token
	}

	valid := jwt.RegisteredClaims{
		ID:        sessionID.String(),
		Subject:   memberID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	badID := valid
	badID.ID = "not-a-uuid"

	tests := []struct {
		name      string
		token     string
		setupMock func(m *session.MockRepository)
		wantErr   error
	}{
		{name: "Garbage", token: "abc", wantErr: session.ErrInvalidSession},
		{name: "WrongKey", token: sign("other", jwt.SigningMethodHS256, valid), wantErr: session.ErrInvalidSession},
		{name: "NoneAlg", token: sign("", jwt.SigningMethodNone, valid), wantErr: session.ErrInvalidSession},
		{name: "Expired", token: sign(secret, jwt.SigningMethodHS256, expired), wantErr: session.ErrExpiredSession},
		{name: "BadSessionID", token: sign(secret, jwt.SigningMethodHS256, badID), wantErr: session.ErrInvalidSession},
		{
			name:  "Revoked",
			token: sign(secret, jwt.SigningMethodHS256, valid),
			setupMock: func(m *session.MockRepository) {
				m.EXPECT().GetSession(gomock.Any(), sessionID).Return(nil, session.ErrNotFound)
			},
			wantErr: session.ErrInvalidSession,
		},
		{
			name:  "OtherMember",
			token: sign(secret, jwt.SigningMethodHS256, valid),
			setupMock: func(m *session.MockRepository) {
				m.EXPECT().GetSession(gomock.Any(), sessionID).Return(&session.Session{
					ID:        sessionID,
					MemberID:  uuid.New(),
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil)
			},
			wantErr: session.ErrInvalidSession,
		},
		{
			name:  "RowExpired",
			token: sign(secret, jwt.SigningMethodHS256, valid),
			setupMock: func(m *session.MockRepository) {
				m.EXPECT().GetSession(gomock.Any(), sessionID).Return(&session.Session{
					ID:        sessionID,
					MemberID:  memberID,
					ExpiresAt: time.Now().Add(-time.Minute),
				}, nil)
			},
			wantErr: session.ErrExpiredSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := session.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			_, err := session.NewService(repo, secret, time.Hour).Validate(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Revoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := session.NewMockRepository(ctrl)
	svc := session.NewService(repo, secret, time.Hour)

	token, sess := issue(t, repo, svc, uuid.New())

	repo.EXPECT().DeleteSession(gomock.Any(), sess.ID).Return(nil)
	require.NoError(t, svc.Revoke(context.Background(), token))

	repo.EXPECT().GetSession(gomock.Any(), sess.ID).Return(nil, session.ErrNotFound)

	_, err := svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestService_Prune(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := session.NewMockRepository(ctrl)
	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(3), nil)

	n, err := session.NewService(repo, secret, 0).Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))

	_, err = session.NewService(repo, secret, 0).Prune(context.Background())
	assert.Error(t, err)
}
