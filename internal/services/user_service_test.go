package services

import (
	"context"
	"testing"

	"finance/internal/models"
	"finance/internal/testutil"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, dec("10000.00"))

		user, err := svc.Register(ctx, "alice", "s3cret", "s3cret")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if !user.Cash.Equal(dec("10000")) {
			t.Errorf("expected starting cash 10000, got %s", user.Cash)
		}
		if user.Hash == "s3cret" || user.Hash == "" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, dec("10000"))

		_, err := svc.Register(ctx, "bob", "pw", "pw")
		testutil.AssertNoError(t, err)

		_, err = svc.Register(ctx, "bob", "other", "other")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")

		var count int64
		db.Model(&models.User{}).Where("username = ?", "bob").Count(&count)
		if count != 1 {
			t.Errorf("expected exactly one row for bob, got %d", count)
		}
	})

	t.Run("password_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, dec("10000"))

		_, err := svc.Register(ctx, "carol", "one", "two")
		testutil.AssertAppError(t, err, "PASSWORD_MISMATCH")
	})

	missing := map[string][3]string{
		"username":     {"", "pw", "pw"},
		"password":     {"dave", "", "pw"},
		"confirmation": {"dave", "pw", ""},
	}
	for field, args := range missing {
		t.Run("missing_"+field, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewUserService(db, dec("10000"))

			_, err := svc.Register(ctx, args[0], args[1], args[2])
			testutil.AssertAppError(t, err, "MISSING_FIELD")
			if err.Error() != "must provide "+field {
				t.Errorf("expected message %q, got %q", "must provide "+field, err.Error())
			}
		})
	}
}

func TestAttemptLogin(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, dec("10000"))
	user := testutil.CreateTestUser(t, db)

	t.Run("success", func(t *testing.T) {
		got, err := svc.AttemptLogin(ctx, user.Username, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, user.Username, "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, "nobody", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("missing_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, user.Username, "")
		testutil.AssertAppError(t, err, "MISSING_FIELD")
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, dec("10000"))
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Username != user.Username {
		t.Errorf("expected %s, got %s", user.Username, got.Username)
	}

	_, err = svc.GetUserByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
