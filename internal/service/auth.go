package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerified(ctx context.Context, id string) error
}

// Mailer delivers transactional email. Delivery failures during signup are
// surfaced to the caller so the user is not left waiting for a mail that
// will never arrive.
type Mailer interface {
	SendVerification(ctx context.Context, toEmail, toName, token string) error
}

// TokenConfig controls JWT issuance for login and email verification.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthService handles signup, email verification, and login.
type AuthService struct {
	userRepo UserRepositoryInterface
	chatRepo ChatRepositoryInterface
	msgRepo  MessageRepositoryInterface
	mailer   Mailer
	tokens   TokenConfig
	uuidGen  UUIDGenerator
}

func NewAuthService(
	userRepo UserRepositoryInterface,
	chatRepo ChatRepositoryInterface,
	msgRepo MessageRepositoryInterface,
	mailer Mailer,
	tokens TokenConfig,
) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		chatRepo: chatRepo,
		msgRepo:  msgRepo,
		mailer:   mailer,
		tokens:   tokens,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignUp registers a new unverified account and sends the verification email.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to hash password", err)
	}

	user := domain.NewUser(
		s.uuidGen.NewString(),
		strings.TrimSpace(input.Name),
		input.Email,
		string(hash),
		false,
		time.Now().UTC(),
	)

	if err := domain.ValidateUser(user); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid user", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerification(ctx, user.Email, user.Name, token); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to send verification email", err)
		}
	}

	return user, nil
}

// ChatWithMessages is a chat hydrated with its message history, returned as
// part of the login profile.
type ChatWithMessages struct {
	Chat     *domain.Chat
	Messages []*domain.Message
}

// LoginResult carries the issued token plus the user's profile.
type LoginResult struct {
	Token string
	User  *domain.User
	Chats []*ChatWithMessages
}

// Login authenticates a verified user and returns a bearer token along with
// the user's chats and their messages.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, domain.ErrEmailNotVerified
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	chats, err := s.chatRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	hydrated := make([]*ChatWithMessages, 0, len(chats))
	for _, chat := range chats {
		messages, err := s.msgRepo.ListByChat(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
		hydrated = append(hydrated, &ChatWithMessages{Chat: chat, Messages: messages})
	}

	return &LoginResult{Token: token, User: user, Chats: hydrated}, nil
}

// Verify marks the account referenced by the token as verified.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Verified {
		return nil, domain.ErrAlreadyVerified
	}

	if err := s.userRepo.SetVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	user.Verified = true
	return user, nil
}

// IssueToken creates a signed JWT carrying the user ID.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokens.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to sign token", err)
	}
	return signed, nil
}

// ParseToken validates a JWT and returns the user ID it carries.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.tokens.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", domain.ErrInvalidToken
	}

	return userID, nil
}
