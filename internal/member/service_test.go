package member_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/member"
)

func TestService_Register(t *testing.T) {
	valid := member.RegisterParams{
		HomeName:  " Flat 3B ",
		Name:      "Ana",
		LastName:  "Silva",
		ContactNo: " 912345678 ",
		Password:  "hunter22",
	}

	tests := []struct {
		name      string
		params    member.RegisterParams
		setupMock func(m *member.MockRepository)
		wantErr   error
	}{
		{
			name:   "Success",
			params: valid,
			setupMock: func(m *member.MockRepository) {
				m.EXPECT().GetByContact(gomock.Any(), "912345678").Return(nil, member.ErrNotFound)
				m.EXPECT().
					CreateHomeWithAdmin(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, h *member.Home, mem *member.Member) error {
						assert.Equal(t, "Flat 3B", h.Name)
						assert.Equal(t, auth.RoleAdmin, mem.Role)
						assert.Equal(t, "912345678", mem.ContactNo)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(mem.PasswordHash), []byte("hunter22")))

						h.ID = uuid.New()
						mem.ID = uuid.New()
						mem.HomeID = h.ID

						return nil
					})
			},
		},
		{
			name:   "ContactTaken",
			params: valid,
			setupMock: func(m *member.MockRepository) {
				m.EXPECT().GetByContact(gomock.Any(), "912345678").Return(&member.Member{ID: uuid.New()}, nil)
			},
			wantErr: member.ErrContactExists,
		},
		{
			name:    "NoHomeName",
			params:  member.RegisterParams{Name: "Ana", ContactNo: "1", Password: "x"},
			wantErr: member.ErrEmptyHomeName,
		},
		{
			name:    "BlankPassword",
			params:  member.RegisterParams{HomeName: "Flat", Name: "Ana", ContactNo: "1"},
			wantErr: member.ErrBlankPassword,
		},
		{
			name:    "EmptyName",
			params:  member.RegisterParams{HomeName: "Flat", Name: "  ", ContactNo: "1", Password: "x"},
			wantErr: member.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := member.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := member.NewService(repo).Register(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.HomeID)
		})
	}
}

func TestService_Add(t *testing.T) {
	admin := auth.Principal{MemberID: uuid.New(), HomeID: uuid.New(), Role: auth.RoleAdmin}
	user := auth.Principal{MemberID: uuid.New(), HomeID: admin.HomeID, Role: auth.RoleUser}
	params := member.AddParams{Name: "Rui", ContactNo: "934", Password: "pw"}

	t.Run("AdminAddsToOwnHome", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := member.NewMockRepository(ctrl)
		repo.EXPECT().GetByContact(gomock.Any(), "934").Return(nil, member.ErrNotFound)
		repo.EXPECT().
			CreateMember(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *member.Member) error {
				assert.Equal(t, admin.HomeID, m.HomeID)
				assert.Equal(t, auth.RoleUser, m.Role)
				require.NotNil(t, m.CreatedBy)
				assert.Equal(t, admin.MemberID, *m.CreatedBy)
				return nil
			})

		_, err := member.NewService(repo).Add(context.Background(), admin, params)
		require.NoError(t, err)
	})

	t.Run("UserRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := member.NewService(member.NewMockRepository(ctrl)).Add(context.Background(), user, params)
		assert.ErrorIs(t, err, member.ErrAdminRequired)
	})

	t.Run("LookupError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := member.NewMockRepository(ctrl)
		repo.EXPECT().GetByContact(gomock.Any(), "934").Return(nil, errors.New("db error"))

		_, err := member.NewService(repo).Add(context.Background(), admin, params)
		require.Error(t, err)
		assert.NotErrorIs(t, err, member.ErrContactExists)
	})
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &member.Member{ID: uuid.New(), ContactNo: "912", PasswordHash: string(hash)}

	tests := []struct {
		name      string
		contact   string
		password  string
		setupMock func(m *member.MockRepository)
		wantErr   error
	}{
		{
			name:     "Success",
			contact:  " 912 ",
			password: "hunter22",
			setupMock: func(m *member.MockRepository) {
				m.EXPECT().GetByContact(gomock.Any(), "912").Return(stored, nil)
			},
		},
		{
			name:     "WrongPassword",
			contact:  "912",
			password: "hunter23",
			setupMock: func(m *member.MockRepository) {
				m.EXPECT().GetByContact(gomock.Any(), "912").Return(stored, nil)
			},
			wantErr: member.ErrInvalidCredentials,
		},
		{
			name:     "UnknownContact",
			contact:  "000",
			password: "hunter22",
			setupMock: func(m *member.MockRepository) {
				m.EXPECT().GetByContact(gomock.Any(), "000").Return(nil, member.ErrNotFound)
			},
			wantErr: member.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := member.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := member.NewService(repo).Authenticate(context.Background(), tt.contact, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
		})
	}
}
