package service

import (
	"context"
	"testing"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	officials := &fakeOfficialRepo{users: users, officials: map[int]*domain.Official{}}
	return NewAuthService(users, officials, testSecret, time.Hour, zap.NewNop().Sugar()), users
}

func createOfficer(t *testing.T, svc *AuthService, typ domain.OfficialType) *domain.Official {
	t.Helper()
	o, err := svc.CreateAccount(context.Background(), domain.CreateAccountDTO{
		Email:      " Officer@DBKL.gov.my ",
		Password:   "s3cret!",
		Name:       "Aminah Yusof",
		OfficialID: "DBKL-0042",
		Type:       string(typ),
	})
	require.NoError(t, err)
	return o
}

func TestCreateAccountThenLogin(t *testing.T) {
	svc, users := newAuthFixture()
	official := createOfficer(t, svc, domain.OfficialEnforcement)

	stored, err := users.FindByEmail(context.Background(), "officer@dbkl.gov.my")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.Password, "password is stored hashed")

	resp, err := svc.Login(context.Background(), domain.LoginUserDTO{Email: "officer@dbkl.gov.my", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, official.UserID, resp.UserID)
	assert.Equal(t, domain.OfficialEnforcement, resp.Official.Type)

	_, claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, official.UserID, claims["sub"])
	assert.Equal(t, "enforcement", claims["role"])
	assert.Equal(t, float64(official.ID), claims["official_id"])
}

func TestCreateAccount_Rejections(t *testing.T) {
	svc, _ := newAuthFixture()
	createOfficer(t, svc, domain.OfficialCity)

	_, err := svc.CreateAccount(context.Background(), domain.CreateAccountDTO{
		Email: "officer@dbkl.gov.my", Password: "another", Name: "Other", OfficialID: "DBKL-1", Type: "city",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	_, err = svc.CreateAccount(context.Background(), domain.CreateAccountDTO{
		Email: "new@dbkl.gov.my", Password: "another", Name: "Other", OfficialID: "DBKL-2", Type: "mayor",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_Failures(t *testing.T) {
	svc, users := newAuthFixture()
	createOfficer(t, svc, domain.OfficialCity)
	ctx := context.Background()

	_, err := svc.Login(ctx, domain.LoginUserDTO{Email: "officer@dbkl.gov.my", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginUserDTO{Email: "nobody@dbkl.gov.my", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	orphan := &domain.User{Email: "orphan@dbkl.gov.my"}
	_, _ = users.Create(ctx, orphan)
	stored, _ := users.FindByEmail(ctx, "officer@dbkl.gov.my")
	orphan.Password = stored.Password
	_, err = svc.Login(ctx, domain.LoginUserDTO{Email: "orphan@dbkl.gov.my", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrNoOfficialProfile)
}

func TestValidateToken(t *testing.T) {
	svc, _ := newAuthFixture()

	sign := func(secret string, method jwt.SigningMethod, exp time.Time) string {
		tok := jwt.NewWithClaims(method, jwt.MapClaims{"sub": "user-1", "exp": exp.Unix()})
		s, err := tok.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	_, _, err := svc.ValidateToken(sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(time.Hour)))
	assert.NoError(t, err)

	_, _, err = svc.ValidateToken(sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = svc.ValidateToken(sign("other-secret", jwt.SigningMethodHS256, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccountAndChangePassword(t *testing.T) {
	svc, _ := newAuthFixture()
	official := createOfficer(t, svc, domain.OfficialCity)
	ctx := context.Background()

	account, err := svc.Account(ctx, official.UserID)
	require.NoError(t, err)
	assert.Empty(t, account.User.Password)
	assert.Equal(t, "DBKL-0042", account.Official.OfficialID)

	err = svc.ChangePassword(ctx, official.UserID, domain.ChangePasswordDTO{CurrentPassword: "wrong", NewPassword: "n3wpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, official.UserID, domain.ChangePasswordDTO{CurrentPassword: "s3cret!", NewPassword: "n3wpass"}))

	_, err = svc.Login(ctx, domain.LoginUserDTO{Email: "officer@dbkl.gov.my", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginUserDTO{Email: "officer@dbkl.gov.my", Password: "n3wpass"})
	assert.NoError(t, err)
}

func TestMenu_GatedByRole(t *testing.T) {
	keys := func(items []domain.MenuItem) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Key)
		}
		return out
	}

	city := keys(Menu(domain.OfficialCity))
	assert.Contains(t, city, "add-parking")
	assert.Contains(t, city, "officials")

	enforcement := keys(Menu(domain.OfficialEnforcement))
	assert.Equal(t, []string{"areas", "sessions", "reports", "compounds"}, enforcement)

	assert.Empty(t, Menu("visitor"))

	m := Menu(domain.OfficialEnforcement)
	m[0].Title = "changed"
	assert.Equal(t, "Parking Areas", Menu(domain.OfficialEnforcement)[0].Title)
}
