package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/okian/interviewcoach/internal/auth"
	"github.com/okian/interviewcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (m *memUsers) CreateUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return model.ErrConflict
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func TestPasswordHasher(t *testing.T) {
	Convey("Given a hasher", t, func() {
		h := auth.NewPasswordHasher(bcrypt.MinCost)

		Convey("When a password is hashed", func() {
			hash, err := h.Hash("correct horse")
			So(err, ShouldBeNil)
			So(hash, ShouldNotEqual, "correct horse")

			Convey("Then only the same password verifies", func() {
				So(h.Verify("correct horse", hash), ShouldBeTrue)
				So(h.Verify("wrong horse", hash), ShouldBeFalse)
			})
		})

		Convey("When the password is too short", func() {
			_, err := h.Hash("short")
			So(errors.Is(err, auth.ErrWeakPassword), ShouldBeTrue)
		})
	})
}

func TestTokenService(t *testing.T) {
	Convey("Given a token service", t, func() {
		_, err := auth.NewTokenService("", time.Hour)
		So(errors.Is(err, auth.ErrMissingSecret), ShouldBeTrue)

		svc, err := auth.NewTokenService("s3cret", time.Hour)
		So(err, ShouldBeNil)

		Convey("When a token is generated", func() {
			tok, err := svc.Generate("user-1", "a@b.io")
			So(err, ShouldBeNil)

			Convey("Then it validates to the same user", func() {
				claims, err := svc.Validate(tok)
				So(err, ShouldBeNil)
				So(claims.UserID, ShouldEqual, "user-1")
				So(claims.Email, ShouldEqual, "a@b.io")
			})

			Convey("Then another secret rejects it", func() {
				other, _ := auth.NewTokenService("other", time.Hour)
				_, err := other.Validate(tok)
				So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
			})
		})

		Convey("When the token is expired", func() {
			claims := &auth.Claims{
				UserID: "user-1",
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    "interviewcoach",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				},
			}
			tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
			So(err, ShouldBeNil)
			_, err = svc.Validate(tok)
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
		})

		Convey("When the token is garbage or empty", func() {
			_, err := svc.Validate("not.a.token")
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
			_, err = svc.Validate("")
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
		})
	})
}

func TestService(t *testing.T) {
	Convey("Given the auth service over an empty store", t, func() {
		tokens, err := auth.NewTokenService("s3cret", time.Hour)
		So(err, ShouldBeNil)
		svc := auth.NewService(&memUsers{users: map[string]model.User{}}, auth.NewPasswordHasher(bcrypt.MinCost), tokens)
		ctx := context.Background()

		Convey("When a user signs up", func() {
			u, tok, err := svc.Signup(ctx, " Ada ", " Ada@Example.com ", "password123")
			So(err, ShouldBeNil)

			Convey("Then the account is normalized and the token authenticates", func() {
				So(u.Name, ShouldEqual, "Ada")
				So(u.Email, ShouldEqual, "ada@example.com")
				So(u.ID, ShouldNotBeEmpty)
				id, err := svc.Authenticate(tok)
				So(err, ShouldBeNil)
				So(id, ShouldEqual, u.ID)
			})

			Convey("And signs up again with the same email", func() {
				_, _, err := svc.Signup(ctx, "Ada", "ada@example.com", "password123")
				So(errors.Is(err, model.ErrConflict), ShouldBeTrue)
			})

			Convey("And logs in", func() {
				got, tok, err := svc.Login(ctx, "ADA@example.com", "password123")
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, u.ID)
				So(tok, ShouldNotBeEmpty)
			})

			Convey("And logs in with a wrong password", func() {
				_, _, err := svc.Login(ctx, "ada@example.com", "nope-nope")
				So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
			})
		})

		Convey("When an unknown user logs in", func() {
			_, _, err := svc.Login(ctx, "ghost@example.com", "password123")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("When signup input is invalid", func() {
			_, _, err := svc.Signup(ctx, "Ada", "not-an-email", "password123")
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			_, _, err = svc.Signup(ctx, "", "ada@example.com", "password123")
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			_, _, err = svc.Signup(ctx, "Ada", "ada@example.com", "short")
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})
	})
}
