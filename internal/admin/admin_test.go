package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

func validInput() CreateUserInput {
	return CreateUserInput{
		Email:       "kari@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Kari Hansen",
		Role:        auth.RoleGuardian,
		Extra:       map[string]any{"phone": "99887766"},
	}
}

func TestCreateUserGuardian(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := NewService(store)

	uid, err := svc.CreateUser(ctx, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	account, err := store.Get(ctx, auth.CollAccounts, uid)
	require.NoError(t, err)
	assert.Equal(t, "kari@example.com", account.Fields.Str("email"))
	assert.NotEmpty(t, account.Fields.Str("createdAt"))
	hash := account.Fields.Str("passwordHash")
	require.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2hunter2")))

	actor, err := auth.ResolveActor(ctx, store, uid)
	require.NoError(t, err)
	assert.Equal(t, auth.ActorGuardian, actor.Kind)
	assert.Equal(t, "Kari Hansen", actor.Guardian.Name)
	assert.Equal(t, "99887766", actor.Guardian.Phone)
}

func TestCreateUserStaffWithDepartment(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := NewService(store)

	in := validInput()
	in.Role = auth.RoleStaff
	in.Extra = map[string]any{"departmentId": "red"}

	uid, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)

	actor, err := auth.ResolveActor(ctx, store, uid)
	require.NoError(t, err)
	require.Equal(t, auth.ActorStaff, actor.Kind)
	assert.Equal(t, "red", actor.Staff.DepartmentID)
	assert.Equal(t, auth.RoleStaff, actor.Role())
}

func TestCreateUserAdminSetsFlag(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := NewService(store)

	in := validInput()
	in.Role = auth.RoleAdmin
	in.Extra = nil

	uid, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)

	actor, err := auth.ResolveActor(ctx, store, uid)
	require.NoError(t, err)
	require.Equal(t, auth.ActorStaff, actor.Kind)
	assert.True(t, actor.Staff.Admin)
	assert.Equal(t, auth.RoleAdmin, actor.Role())
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	cases := map[string]func(*CreateUserInput){
		"bad email":      func(in *CreateUserInput) { in.Email = "not-an-email" },
		"short password": func(in *CreateUserInput) { in.Password = "short" },
		"no name":        func(in *CreateUserInput) { in.DisplayName = "" },
		"bad role":       func(in *CreateUserInput) { in.Role = "owner" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.CreateUser(ctx, in)
			assert.Error(t, err)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemory())

	_, err := svc.CreateUser(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, validInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}
