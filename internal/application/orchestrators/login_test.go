package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoteladmin/internal/domain/account"
)

const testPassword = "correct-horse-battery"

func seededAccountStore(t *testing.T) *mockAccountStore {
	t.Helper()
	store := newMockAccountStore()
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email: "Recepce@Hotel.cz", Password: testPassword, Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return store
}

// TestExecuteCreateAccount_NormalizesAndRejectsDuplicates tests email normalisation and uniqueness.
func TestExecuteCreateAccount_NormalizesAndRejectsDuplicates(t *testing.T) {
	store := seededAccountStore(t)
	acct := store.byID["test-id-001"]
	if acct.Email != "recepce@hotel.cz" {
		t.Errorf("Email = %q, want lower-cased", acct.Email)
	}
	if acct.PasswordHash == "" || acct.PasswordHash == testPassword {
		t.Error("password must be stored hashed")
	}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email: "recepce@hotel.cz", Password: testPassword, Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store, GenerateID: func() string { return "other" }, Now: fixedNow})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

// TestExecuteCreateAccount_Validation tests domain validation is applied.
func TestExecuteCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateAccountInput
		want  error
	}{
		{"no email", CreateAccountInput{Password: testPassword, Role: account.RoleAdmin}, account.ErrEmptyEmail},
		{"bad role", CreateAccountInput{Email: "a@b.cz", Password: testPassword, Role: "owner"}, account.ErrInvalidRole},
		{"short password", CreateAccountInput{Email: "a@b.cz", Password: "short", Role: account.RoleAdmin}, account.ErrPasswordTooShort},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExecuteCreateAccount(context.Background(), tc.input,
				CreateAccountDeps{AccountStore: newMockAccountStore(), GenerateID: fixedID, Now: fixedNow})
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestExecuteSeedAdmin tests the admin is only seeded into an empty store.
func TestExecuteSeedAdmin(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store, GenerateID: sequentialIDs(), Now: fixedNow}

	if err := ExecuteSeedAdmin(context.Background(), deps, "", ""); err != nil {
		t.Fatalf("seed without credentials: %v", err)
	}
	if len(store.byID) != 0 {
		t.Fatal("no account expected without credentials")
	}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@hotel.cz", testPassword); err != nil {
		t.Fatalf("ExecuteSeedAdmin: %v", err)
	}
	if err := ExecuteSeedAdmin(context.Background(), deps, "second@hotel.cz", testPassword); err != nil {
		t.Fatalf("second ExecuteSeedAdmin: %v", err)
	}
	seeded := store.byID["id-1"]
	if len(store.byID) != 1 || !seeded.IsAdmin() {
		t.Errorf("accounts = %+v", store.byID)
	}
}

// TestExecuteLogin_SuccessAndFailure tests credential checks and failed-login counting.
func TestExecuteLogin_SuccessAndFailure(t *testing.T) {
	store := seededAccountStore(t)
	deps := LoginDeps{AccountStore: store, Now: fixedNow}
	ctx := context.Background()

	if _, err := ExecuteLogin(ctx, LoginInput{Email: "nobody@hotel.cz", Password: testPassword}, deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "recepce@hotel.cz", Password: "wrong-password-1"}, deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if store.byID["test-id-001"].FailedLogins != 1 {
		t.Errorf("FailedLogins = %d, want 1", store.byID["test-id-001"].FailedLogins)
	}

	res, err := ExecuteLogin(ctx, LoginInput{Email: "recepce@hotel.cz", Password: testPassword}, deps)
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if res.AccountID != "test-id-001" || res.Role != account.RoleStaff {
		t.Errorf("result = %+v", res)
	}
	if store.byID["test-id-001"].FailedLogins != 0 {
		t.Error("successful login should reset failed logins")
	}
}

// TestExecuteLogin_Lockout tests the account locks after repeated failures and unlocks later.
func TestExecuteLogin_Lockout(t *testing.T) {
	store := seededAccountStore(t)
	now := fixedTime
	deps := LoginDeps{AccountStore: store, Now: func() time.Time { return now }}
	ctx := context.Background()

	for i := 0; i < account.MaxFailedLogins; i++ {
		_, _ = ExecuteLogin(ctx, LoginInput{Email: "recepce@hotel.cz", Password: "wrong-password-1"}, deps)
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "recepce@hotel.cz", Password: testPassword}, deps); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}

	now = now.Add(account.LockoutDuration + time.Second)
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "recepce@hotel.cz", Password: testPassword}, deps); err != nil {
		t.Fatalf("login after lockout expiry: %v", err)
	}
}
