package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/customer/domain"
	"github.com/cabinetworks/quoteflow/internal/customer/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func strPtr(s string) *string { return &s }

func TestCreateCustomer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:    "  Dana Alvarez  ",
		Email:   "dana@example.com",
		Phone:   "555-0114",
		Address: "19 Birch Lane",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Dana Alvarez", created.Name)

	fetched, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.Email, fetched.Email)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "", Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Dana", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Dana", Email: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdateCustomerPartial(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Morgan Reyes",
		Email: "morgan@example.com",
		Phone: "555-0100",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:    created.ID.String(),
		Phone: strPtr("555-0990"),
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0990", updated.Phone)
	assert.Equal(t, "Morgan Reyes", updated.Name)

	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:   created.ID.String(),
		Name: strPtr("   "),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: "123456789"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDeleteCustomer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Dana Alvarez",
		Email: "dana@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)
}

func TestListCustomersFilters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, c := range []domain.CreateCustomerRequest{
		{Name: "Dana Alvarez", Email: "dana@example.com"},
		{Name: "Morgan Reyes", Email: "morgan@example.com"},
		{Name: "Dana Whitfield", Email: "dw@example.com"},
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 3)

	byName, err := svc.List(ctx, domain.ListCustomerRequest{Name: "Dana"})
	require.NoError(t, err)
	assert.Len(t, byName.Customers, 2)

	byEmail, err := svc.List(ctx, domain.ListCustomerRequest{Email: "morgan@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail.Customers, 1)
	assert.Equal(t, "Morgan Reyes", byEmail.Customers[0].Name)
}
