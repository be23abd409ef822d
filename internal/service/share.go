package service

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/second-brain-labs/secondbrain-back/internal/models"
)

const (
	shareCodeLength   = 10
	shareCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrBadShareCode = errors.New("share code has wrong format")

type LinkStore interface {
	Upsert(ctx context.Context, owner primitive.ObjectID, candidateHash string) (string, error)
	DeleteByOwner(ctx context.Context, owner primitive.ObjectID) error
	GetByHash(ctx context.Context, hash string) (*models.Link, error)
}

// SharedBrain is the public, read-only view of one user's collection.
type SharedBrain struct {
	Username string
	Content  []models.Content
}

type Share struct {
	links    LinkStore
	users    UserStore
	contents ContentStore
	logger   *zap.SugaredLogger
}

func NewShare(links LinkStore, users UserStore, contents ContentStore, l *zap.SugaredLogger) *Share {
	return &Share{
		links:    links,
		users:    users,
		contents: contents,
		logger:   l,
	}
}

// Enable turns on public sharing for the owner and returns the share code.
// Repeat calls return the code already issued; the store upsert guarantees
// at most one link per owner even under concurrent enables.
func (s *Share) Enable(ctx context.Context, owner primitive.ObjectID) (string, error) {
	candidate, err := generateShareCode()
	if err != nil {
		return "", errors.Wrap(err, "generate share code")
	}
	hash, err := s.links.Upsert(ctx, owner, candidate)
	if err != nil {
		return "", err
	}
	if hash != candidate {
		s.logger.Debugw("sharing already enabled", "user", owner.Hex())
	}
	return hash, nil
}

// Disable revokes sharing. Disabling when none exists succeeds silently.
func (s *Share) Disable(ctx context.Context, owner primitive.ObjectID) error {
	return s.links.DeleteByOwner(ctx, owner)
}

// Resolve maps a share code to the owner's username and full collection.
// The format check runs before any lookup so malformed input is rejected
// cheaply; store-level ErrNotFound passes through for unknown codes.
func (s *Share) Resolve(ctx context.Context, code string) (*SharedBrain, error) {
	if !validShareCode(code) {
		return nil, ErrBadShareCode
	}

	link, err := s.links.GetByHash(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, link.UserID)
	if err != nil {
		return nil, err
	}

	contents, err := s.contents.ListByOwner(ctx, link.UserID)
	if err != nil {
		return nil, err
	}

	return &SharedBrain{
		Username: user.Username,
		Content:  contents,
	}, nil
}

func generateShareCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(shareCodeAlphabet)))
	buf := make([]byte, shareCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func validShareCode(code string) bool {
	if len(code) != shareCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}
