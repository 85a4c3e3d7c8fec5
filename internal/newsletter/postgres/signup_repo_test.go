// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasland/saasland/internal/newsletter"
	"github.com/saasland/saasland/pkg/errutil"
)

func TestSignupRepository_Create(t *testing.T) {
	signup := &newsletter.Signup{
		ID:        ulid.Make(),
		Email:     "ada@example.com",
		CreatedAt: time.Now().UTC(),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantCode  string
		wantIs    error
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO newsletter_signups`).
					WithArgs(signup.ID.String(), signup.Email, signup.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate email maps to ErrAlreadySubscribed",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO newsletter_signups`).
					WithArgs(signup.ID.String(), signup.Email, signup.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantCode: "NEWSLETTER_ALREADY_SUBSCRIBED",
			wantIs:   newsletter.ErrAlreadySubscribed,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO newsletter_signups`).
					WithArgs(signup.ID.String(), signup.Email, signup.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "NEWSLETTER_CREATE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewSignupRepository(mock)
			err = repo.Create(context.Background(), signup)

			if tt.wantCode != "" {
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
