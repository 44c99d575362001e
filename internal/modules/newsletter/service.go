package newsletter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/jwt"
	"github.com/nitaidalal/blog-core/internal/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken  = errors.New("invalid unsubscribe token")
	ErrNotSubscribed = errors.New("not subscribed")
)

// SubscribeOutcome distinguishes a first subscription from a reactivation
// or an already-active resubscribe.
type SubscribeOutcome int

const (
	OutcomeSubscribed SubscribeOutcome = iota
	OutcomeWelcomeBack
)

// Service implements newsletter subscription state transitions. Subscriber
// rows are never hard-deleted: unsubscribing flips the flag so the history
// survives resubscribes.
type Service struct {
	db          *gorm.DB
	sender      *mail.Sender
	frontendURL string
	siteName    string
	log         *zap.Logger
}

func NewService(db *gorm.DB, sender *mail.Sender, frontendURL, siteName string, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		siteName:    siteName,
		log:         log,
	}
}

// Subscribe creates or reactivates the subscription for an authenticated
// user and sends the welcome email off the request path. An already-active
// subscription is treated the same as a reactivation: the state is
// untouched, a fresh token is issued, and the welcome email goes out again.
func (s *Service) Subscribe(userID, email, name string) (*models.SubscriberModel, SubscribeOutcome, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var sub models.SubscriberModel
	err := s.db.Where("user_id = ?", userID).First(&sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.SubscriberModel{
			UserID:       userID,
			Email:        email,
			Name:         strings.TrimSpace(name),
			IsSubscribed: true,
		}
		if createErr := s.db.Create(&sub).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent subscribe for the same
				// user or email; fall through to the reactivation path.
				if refetchErr := s.db.Where("user_id = ? OR email = ?", userID, email).First(&sub).Error; refetchErr != nil {
					return nil, 0, fmt.Errorf("refetch subscriber: %w", refetchErr)
				}
				return s.reactivate(&sub)
			}
			return nil, 0, fmt.Errorf("create subscriber: %w", createErr)
		}
		s.sendWelcome(&sub)
		return &sub, OutcomeSubscribed, nil

	case err != nil:
		return nil, 0, fmt.Errorf("find subscriber: %w", err)

	default:
		return s.reactivate(&sub)
	}
}

func (s *Service) reactivate(sub *models.SubscriberModel) (*models.SubscriberModel, SubscribeOutcome, error) {
	if !sub.IsSubscribed {
		sub.IsSubscribed = true
		sub.UnsubscribedAt = nil
		if err := s.db.Model(sub).Select("is_subscribed", "unsubscribed_at").
			Updates(map[string]interface{}{"is_subscribed": true, "unsubscribed_at": nil}).Error; err != nil {
			return nil, 0, fmt.Errorf("reactivate subscriber: %w", err)
		}
	}
	s.sendWelcome(sub)
	return sub, OutcomeWelcomeBack, nil
}

// Unsubscribe validates a capability token and flips the subscription off.
// Already-unsubscribed is not an error; the operation is idempotent and no
// email is sent either way.
func (s *Service) Unsubscribe(token string) error {
	claims, err := jwt.Parse(token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.Purpose != jwt.PurposeUnsubscribe {
		return ErrInvalidToken
	}

	var sub models.SubscriberModel
	if err := s.db.Where("email = ?", strings.ToLower(claims.Email)).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSubscribed
		}
		return fmt.Errorf("find subscriber: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&sub).Select("is_subscribed", "unsubscribed_at").
		Updates(map[string]interface{}{"is_subscribed": false, "unsubscribed_at": now}).Error; err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// ListSubscribed returns every active subscriber.
func (s *Service) ListSubscribed() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.db.Where("is_subscribed = ?", true).Find(&subs).Error
	return subs, err
}

// UnsubscribeURL builds the signed unsubscribe link for a subscriber.
func (s *Service) UnsubscribeURL(sub *models.SubscriberModel) (string, error) {
	token, err := jwt.SignUnsubscribe(sub.ID, sub.Email)
	if err != nil {
		return "", fmt.Errorf("sign unsubscribe token: %w", err)
	}
	return s.frontendURL + "/unsubscribe?token=" + token, nil
}

// sendWelcome dispatches the welcome email in a detached goroutine. The
// subscription state change never waits on, or fails with, mail delivery.
func (s *Service) sendWelcome(sub *models.SubscriberModel) {
	if !s.sender.Enabled() {
		return
	}
	snapshot := *sub
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("welcome email panicked", zap.Any("panic", r))
			}
		}()

		unsubURL, err := s.UnsubscribeURL(&snapshot)
		if err != nil {
			s.log.Warn("welcome email skipped", zap.Error(err))
			return
		}
		if err := s.sender.SendWelcome(snapshot.Email, mail.WelcomeData{
			Name:           snapshot.Name,
			SiteName:       s.siteName,
			SiteURL:        s.frontendURL,
			UnsubscribeURL: unsubURL,
		}); err != nil {
			s.log.Warn("welcome email failed",
				zap.String("email", snapshot.Email),
				zap.Error(err),
			)
		}
	}()
}
