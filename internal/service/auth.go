package service

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/second-brain-labs/secondbrain-back/internal/models"
	"github.com/second-brain-labs/secondbrain-back/internal/store"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must never be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrTokenMalformed     = errors.New("malformed token claims")
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (string, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

type Auth struct {
	users  UserStore
	secret []byte
	logger *zap.SugaredLogger
}

func NewAuth(users UserStore, secret []byte, l *zap.SugaredLogger) *Auth {
	return &Auth{
		users:  users,
		secret: secret,
		logger: l,
	}
}

func (s *Auth) Signup(ctx context.Context, username, password string) error {
	hash, err := s.bcryptGen(password)
	if err != nil {
		return errors.Wrap(err, "bcryptGen")
	}
	if _, err := s.users.Create(ctx, username, hash); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (s *Auth) Signin(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.bcryptCheck(user.Password, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID.Hex())
	if err != nil {
		return "", errors.Wrap(err, "issue token")
	}
	return token, nil
}

// IssueToken signs a credential carrying the user's identity as its single
// claim. No expiry is set; a token stays valid until the secret rotates.
func (s *Auth) IssueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ParseToken verifies a raw token and resolves it to the embedded user
// identity. A signature, format, or expiry problem yields ErrTokenInvalid; a
// correctly signed token whose claims do not carry a well-formed identity
// yields ErrTokenMalformed.
func (s *Auth) ParseToken(raw string) (primitive.ObjectID, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrTokenInvalid
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrTokenMalformed
	}
	return userID, nil
}

func (s *Auth) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Auth) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}
