package repository_test

import (
	"context"
	"testing"

	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCompanyFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestClient(t, db, testutil.CompanyA, "Client A")
	testutil.CreateTestClient(t, db, testutil.CompanyA, "Client A2")
	testutil.CreateTestClient(t, db, testutil.CompanyB, "Client B")

	t.Run("scoped context sees only its company", func(t *testing.T) {
		ctx := testutil.ContextWithCompany(testutil.CompanyA)

		var clients []domain.Client
		err := repository.ApplyCompanyFilter(ctx, db.Model(&domain.Client{})).Find(&clients).Error
		require.NoError(t, err)
		require.Len(t, clients, 2)
		for _, c := range clients {
			assert.Equal(t, testutil.CompanyA, c.CompanyID)
		}
	})

	t.Run("unscoped context sees all companies", func(t *testing.T) {
		ctx := testutil.ContextUnscoped()

		var clients []domain.Client
		err := repository.ApplyCompanyFilter(ctx, db.Model(&domain.Client{})).Find(&clients).Error
		require.NoError(t, err)
		assert.Len(t, clients, 3)
	})

	t.Run("context without any filter sees all companies", func(t *testing.T) {
		var clients []domain.Client
		err := repository.ApplyCompanyFilter(context.Background(), db.Model(&domain.Client{})).Find(&clients).Error
		require.NoError(t, err)
		assert.Len(t, clients, 3)
	})
}

func TestMustHaveCompanyAccess(t *testing.T) {
	tests := []struct {
		name            string
		ctx             context.Context
		recordCompanyID domain.CompanyID
		expected        bool
	}{
		{
			name:            "matching company is allowed",
			ctx:             testutil.ContextWithCompany(testutil.CompanyA),
			recordCompanyID: testutil.CompanyA,
			expected:        true,
		},
		{
			name:            "other company is denied",
			ctx:             testutil.ContextWithCompany(testutil.CompanyA),
			recordCompanyID: testutil.CompanyB,
			expected:        false,
		},
		{
			name:            "unscoped context is allowed everywhere",
			ctx:             testutil.ContextUnscoped(),
			recordCompanyID: testutil.CompanyB,
			expected:        true,
		},
		{
			name:            "bare context is allowed everywhere",
			ctx:             context.Background(),
			recordCompanyID: testutil.CompanyA,
			expected:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, repository.MustHaveCompanyAccess(tc.ctx, tc.recordCompanyID))
		})
	}
}

func TestGetEffectiveCompanyFilterPrecedence(t *testing.T) {
	companyB := testutil.CompanyB
	user := &auth.UserContext{
		CompanyID: testutil.CompanyA,
		Roles:     []domain.UserRoleType{domain.RoleAdmin},
	}

	// The middleware-set filter wins over the user's home company.
	ctx := auth.WithUserContext(context.Background(), user)
	ctx = auth.WithCompanyFilter(ctx, &auth.CompanyFilter{CompanyID: &companyB})

	effective := auth.GetEffectiveCompanyFilter(ctx)
	require.NotNil(t, effective)
	assert.Equal(t, testutil.CompanyB, *effective)

	// Without a middleware filter the user's own company applies.
	ctx = auth.WithUserContext(context.Background(), user)
	effective = auth.GetEffectiveCompanyFilter(ctx)
	require.NotNil(t, effective)
	assert.Equal(t, testutil.CompanyA, *effective)
}
