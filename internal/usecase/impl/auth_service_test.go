package impl

import (
	"context"
	"testing"

	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceFixtures struct {
	service    usecase.AuthUsecase
	userRepo   *fakeUserRepo
	reviewRepo *fakeReviewRepo
	hasher     *fakeHasher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	t.Helper()

	userRepo := newFakeUserRepo()
	reviewRepo := newFakeReviewRepo()
	hasher := &fakeHasher{}
	txManager := &fakeTxManager{factory: &fakeFactory{userRepo: userRepo, reviewRepo: reviewRepo}}
	service := NewAuthService(userRepo, txManager, hasher, &fakeTokens{}, discardLogger())

	return authServiceFixtures{
		service:    service,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		hasher:     hasher,
	}
}

func (fx authServiceFixtures) seedUser(email, nickname, password string) *entity.User {
	salt, _ := fx.hasher.GenerateSalt()

	return fx.userRepo.seed(&entity.User{
		Email:          email,
		Nickname:       nickname,
		Salt:           salt,
		PasswordDigest: fx.hasher.Hash(password, salt),
	})
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Nickname: "reviewer",
		Email:    "new@example.com",
		Password: "pass1234",
	})

	require.NoError(t, err)

	user, err := fx.userRepo.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", user.Nickname)
	assert.NotEmpty(t, user.Salt)
	// The stored digest must verify against the registered password.
	assert.True(t, fx.hasher.Verify("pass1234", user.Salt, user.PasswordDigest))
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Nickname: "reviewer",
		Email:    "",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyFields)
}

func TestAuthService_Register_EmailConflictWinsOverNickname(t *testing.T) {
	fx := createTestAuthService(t)
	fx.seedUser("taken@example.com", "taken", "pass1234")

	// Both fields collide with the existing account; the email conflict
	// is the one reported.
	err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Nickname: "taken",
		Email:    "taken@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)

	err = fx.service.Register(context.Background(), usecase.RegisterInput{
		Nickname: "taken",
		Email:    "fresh@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNicknameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	seeded := fx.seedUser("user@example.com", "reviewer", "pass1234")

	output, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Email:    "user@example.com",
		Password: "pass1234",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, seeded.ID, output.User.ID)

	// The refresh token must be persisted on the user record.
	stored, err := fx.userRepo.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, output.RefreshToken, *stored.RefreshToken)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	fx.seedUser("user@example.com", "reviewer", "pass1234")

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Email:    "user@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domainerrors.ErrWrongPassword)
}

func TestAuthService_Logout_ClearsRefreshToken(t *testing.T) {
	fx := createTestAuthService(t)
	fx.seedUser("user@example.com", "reviewer", "pass1234")

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(context.Background(), "user@example.com"))

	stored, err := fx.userRepo.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)
}

func TestAuthService_ChangePassword_Validations(t *testing.T) {
	fx := createTestAuthService(t)
	fx.seedUser("user@example.com", "reviewer", "pass1234")

	base := usecase.ChangePasswordInput{
		Email:           "user@example.com",
		CurrentPassword: "pass1234",
		NewPassword:     "newpass",
		ConfirmPassword: "newpass",
	}

	empty := base
	empty.ConfirmPassword = ""
	assert.ErrorIs(t, fx.service.ChangePassword(context.Background(), empty), domainerrors.ErrEmptyFields)

	same := base
	same.NewPassword = "pass1234"
	same.ConfirmPassword = "pass1234"
	assert.ErrorIs(t, fx.service.ChangePassword(context.Background(), same), domainerrors.ErrSamePassword)

	mismatch := base
	mismatch.ConfirmPassword = "different"
	assert.ErrorIs(t, fx.service.ChangePassword(context.Background(), mismatch), domainerrors.ErrPasswordConfirmMismatch)

	wrongCurrent := base
	wrongCurrent.CurrentPassword = "bogus"
	assert.ErrorIs(t, fx.service.ChangePassword(context.Background(), wrongCurrent), domainerrors.ErrWrongPassword)
}

func TestAuthService_ChangePassword_ResaltsCredential(t *testing.T) {
	fx := createTestAuthService(t)
	seeded := fx.seedUser("user@example.com", "reviewer", "pass1234")
	oldSalt := seeded.Salt

	err := fx.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		Email:           "user@example.com",
		CurrentPassword: "pass1234",
		NewPassword:     "newpass",
		ConfirmPassword: "newpass",
	})
	require.NoError(t, err)

	stored, err := fx.userRepo.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, oldSalt, stored.Salt)
	assert.True(t, fx.hasher.Verify("newpass", stored.Salt, stored.PasswordDigest))
	assert.False(t, fx.hasher.Verify("pass1234", stored.Salt, stored.PasswordDigest))

	// The old password no longer logs in, the new one does.
	_, err = fx.service.Login(context.Background(), usecase.LoginInput{Email: "user@example.com", Password: "pass1234"})
	assert.ErrorIs(t, err, domainerrors.ErrWrongPassword)
	_, err = fx.service.Login(context.Background(), usecase.LoginInput{Email: "user@example.com", Password: "newpass"})
	assert.NoError(t, err)
}

func TestAuthService_DeleteAccount_RemovesUserAndReviews(t *testing.T) {
	fx := createTestAuthService(t)
	seeded := fx.seedUser("user@example.com", "reviewer", "pass1234")
	fx.reviewRepo.seed(&entity.Review{UserID: seeded.ID, PerformanceID: "PF1", PerformanceName: "Hamlet", Title: "t", Content: "c", Rating: 4})
	fx.reviewRepo.seed(&entity.Review{UserID: seeded.ID, PerformanceID: "PF2", PerformanceName: "Cats", Title: "t", Content: "c", Rating: 5})

	require.NoError(t, fx.service.DeleteAccount(context.Background(), "user@example.com"))

	_, err := fx.userRepo.FindByEmail(context.Background(), "user@example.com")
	assert.Error(t, err)

	remaining, err := fx.reviewRepo.FindByUserID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAuthService_DeleteAccount_UnknownUser(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.DeleteAccount(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}
