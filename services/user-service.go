package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// How long an emailed password-reset code stays valid.
const resetCodeValidity = 15 * time.Minute

type UserService struct {
	users       repositories.UserRepository
	mailer      utils.Mailer
	mailBreaker *gobreaker.CircuitBreaker
}

func NewUserService(users repositories.UserRepository, mailer utils.Mailer, mailBreaker *gobreaker.CircuitBreaker) *UserService {
	return &UserService{
		users:       users,
		mailer:      mailer,
		mailBreaker: mailBreaker,
	}
}

// Register creates a new account. The username doubles as the address the
// welcome email goes to; the email itself is best-effort.
func (s *UserService) Register(ctx context.Context, name, username, password string) (*models.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("user with username already exists")
	}

	name = html.EscapeString(name)
	username = html.EscapeString(username)

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Username: username,
		Password: hashed,
	}
	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %v", err)
	}
	user.ID = id

	s.sendMail(func() error { return s.mailer.SendWelcomeEmail(user.Username, user.Name) }, "welcome", user.Username)

	return user, nil
}

// Login verifies credentials and issues a signed session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("invalid username or password")
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, "", fmt.Errorf("invalid username or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes the display name and login identifier, keeping the
// identifier unique.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, username string) (*models.User, error) {
	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing.ID != id {
		return nil, fmt.Errorf("user with username already exists")
	}

	name = html.EscapeString(name)
	username = html.EscapeString(username)

	if err := s.users.UpdateProfile(ctx, id, name, username); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// ForgotPassword stores a short-lived reset code and emails it to the user.
// Here the email is the point of the operation, so a relay failure surfaces.
func (s *UserService) ForgotPassword(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	code := utils.GenerateResetCode()
	expiry := time.Now().Add(resetCodeValidity)
	if err := s.users.SetResetCode(ctx, user.ID, code, expiry); err != nil {
		return err
	}

	send := func() error { return s.mailer.SendResetCodeEmail(user.Username, code) }
	if s.mailBreaker != nil {
		_, err = s.mailBreaker.Execute(func() (interface{}, error) { return nil, send() })
	} else {
		err = send()
	}
	if err != nil {
		return fmt.Errorf("failed to send reset email: %v", err)
	}
	return nil
}

// ResetPassword checks the emailed code and its expiry, then replaces the
// password hash and clears the code.
func (s *UserService) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.ResetCode == "" || user.ResetCode != code {
		return fmt.Errorf("invalid reset code")
	}
	if time.Now().After(user.ResetExpiry) {
		return fmt.Errorf("reset code has expired")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, hashed)
}

// sendMail delivers best-effort email through the breaker, logging failures
// instead of surfacing them.
func (s *UserService) sendMail(send func() error, kind, to string) {
	var err error
	if s.mailBreaker != nil {
		_, err = s.mailBreaker.Execute(func() (interface{}, error) { return nil, send() })
	} else {
		err = send()
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: EMAIL_SEND_FAILED, Description: Failed to send %s email to %s: %v", kind, to, err)
	}
}
