package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/splitty/internal/matching"
)

func TestService_Resolve(t *testing.T) {
	homeID := uuid.New()

	tests := []struct {
		name      string
		raw       string
		setupMock func(m *matching.MockRepository)
		want      string
		wantErr   bool
	}{
		{
			name: "Match",
			raw:  "PINGO DOCE LISBOA",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), homeID, "PINGO DOCE LISBOA").Return("Groceries", nil)
			},
			want: "Groceries",
		},
		{
			name: "NoMatchKeepsRaw",
			raw:  " Cinema ",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), homeID, "Cinema").Return("", nil)
			},
			want: " Cinema ",
		},
		{
			name: "BlankSkipsLookup",
			raw:  "   ",
			want: "   ",
		},
		{
			name: "RepoError",
			raw:  "EDP",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), homeID, "EDP").Return("", errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Resolve(context.Background(), homeID, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	homeID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := matching.NewMockRepository(ctrl)
		repo.EXPECT().
			CreateMapping(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *matching.Mapping) error {
				assert.Equal(t, homeID, m.HomeID)
				assert.Equal(t, "EDP", m.RawPattern)
				assert.Equal(t, "Electricity", m.PreferredPurpose)
				m.ID = uuid.New()
				return nil
			})

		got, err := matching.NewService(repo).Learn(context.Background(), homeID, " EDP ", "Electricity")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID)
	})

	t.Run("EmptyPattern", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := matching.NewService(matching.NewMockRepository(ctrl)).Learn(context.Background(), homeID, "", "Electricity")
		assert.ErrorIs(t, err, matching.ErrEmptyMapping)
	})
}
