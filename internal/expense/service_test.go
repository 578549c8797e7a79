package expense_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
)

func TestService_Create(t *testing.T) {
	actor := auth.Principal{MemberID: uuid.New(), HomeID: uuid.New(), Name: "Ana", Role: auth.RoleUser}

	tests := []struct {
		name      string
		params    expense.CreateParams
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}{
		{
			name:   "Success",
			params: expense.CreateParams{Date: "2024-03-02", Purpose: " Groceries ", Amount: 1250},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						assert.Equal(t, actor.HomeID, e.HomeID)
						assert.Equal(t, actor.MemberID, e.PayerID)
						assert.Equal(t, "Ana", e.PayerName)
						assert.Equal(t, "Groceries", e.Purpose)
						e.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "ZeroAmountAllowed",
			params: expense.CreateParams{Date: "2024-03-02", Purpose: "Free sample", Amount: 0},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "NegativeAmount",
			params:  expense.CreateParams{Date: "2024-03-02", Purpose: "Refund", Amount: -1},
			wantErr: expense.ErrInvalidAmount,
		},
		{
			name:    "BadDate",
			params:  expense.CreateParams{Date: "2024-3-2", Purpose: "Groceries", Amount: 1},
			wantErr: expense.ErrInvalidDate,
		},
		{
			name:    "EmptyPurpose",
			params:  expense.CreateParams{Date: "2024-03-02", Purpose: "  ", Amount: 1},
			wantErr: expense.ErrEmptyPurpose,
		},
		{
			name:   "RepoError",
			params: expense.CreateParams{Date: "2024-03-02", Purpose: "Groceries", Amount: 1},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			_, err := expense.NewService(repo, nil).Create(context.Background(), actor, tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_CreateBatch_ReportsRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := auth.Principal{MemberID: uuid.New(), HomeID: uuid.New()}

	_, err := expense.NewService(expense.NewMockRepository(ctrl), nil).CreateBatch(context.Background(), actor, []expense.CreateParams{
		{Date: "2024-03-02", Purpose: "Milk", Amount: 100},
		{Date: "2024-03-02", Purpose: "", Amount: 100},
	})

	require.ErrorIs(t, err, expense.ErrEmptyPurpose)
	assert.Contains(t, err.Error(), "expense 2")
}

func TestService_Update(t *testing.T) {
	homeID := uuid.New()
	payer := uuid.New()
	id := uuid.New()

	existing := func() *expense.Expense {
		return &expense.Expense{ID: id, HomeID: homeID, PayerID: payer, Date: "2024-03-02", Purpose: "Milk", Amount: 100}
	}

	tests := []struct {
		name      string
		actor     auth.Principal
		params    expense.UpdateParams
		setupMock func(m *expense.MockRepository)
		wantErr   error
		wantAmt   int64
	}{
		{
			name:   "PayerUpdates",
			actor:  auth.Principal{MemberID: payer, HomeID: homeID, Role: auth.RoleUser},
			params: expense.UpdateParams{Amount: new(int64(250))},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), id).Return(existing(), nil)
				m.EXPECT().UpdateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAmt: 250,
		},
		{
			name:   "AdminUpdatesOthers",
			actor:  auth.Principal{MemberID: uuid.New(), HomeID: homeID, Role: auth.RoleAdmin},
			params: expense.UpdateParams{Purpose: new("Oat milk")},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), id).Return(existing(), nil)
				m.EXPECT().UpdateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAmt: 100,
		},
		{
			name:   "OtherUserForbidden",
			actor:  auth.Principal{MemberID: uuid.New(), HomeID: homeID, Role: auth.RoleUser},
			params: expense.UpdateParams{Amount: new(int64(1))},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), id).Return(existing(), nil)
			},
			wantErr: expense.ErrForbidden,
		},
		{
			name:   "OtherHomeForbidden",
			actor:  auth.Principal{MemberID: payer, HomeID: uuid.New(), Role: auth.RoleAdmin},
			params: expense.UpdateParams{Amount: new(int64(1))},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), id).Return(existing(), nil)
			},
			wantErr: expense.ErrForbidden,
		},
		{
			name:   "InvalidResult",
			actor:  auth.Principal{MemberID: payer, HomeID: homeID, Role: auth.RoleUser},
			params: expense.UpdateParams{Date: new("yesterday")},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), id).Return(existing(), nil)
			},
			wantErr: expense.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := expense.NewService(repo, nil).Update(context.Background(), tt.actor, id, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmt, got.Amount)
			assert.Equal(t, homeID, got.HomeID)
		})
	}
}

func TestService_Delete_RemovesReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	homeID := uuid.New()
	id := uuid.New()
	receiptID := uuid.New()
	admin := auth.Principal{MemberID: uuid.New(), HomeID: homeID, Role: auth.RoleAdmin}

	repo := expense.NewMockRepository(ctrl)
	receipts := expense.NewMockReceipts(ctrl)

	repo.EXPECT().GetExpense(gomock.Any(), id).Return(&expense.Expense{ID: id, HomeID: homeID, ReceiptID: &receiptID}, nil)
	repo.EXPECT().DeleteExpense(gomock.Any(), id).Return(nil)
	receipts.EXPECT().Delete(gomock.Any(), homeID, receiptID).Return(errors.New("disk gone"))

	err := expense.NewService(repo, receipts).Delete(context.Background(), admin, id)
	assert.NoError(t, err)
}

func TestService_ListByHome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	homeID := uuid.New()
	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), expense.ListFilter{HomeID: homeID}).
		Return([]*expense.Expense{{Amount: 1}, {Amount: 2}}, nil)

	got, err := expense.NewService(repo, nil).ListByHome(context.Background(), homeID)
	require.NoError(t, err)
	assert.Equal(t, []expense.Expense{{Amount: 1}, {Amount: 2}}, got)
}
