package newsletter

import (
	"errors"
	"testing"

	"github.com/nitaidalal/blog-core/internal/config"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/jwt"
	"github.com/nitaidalal/blog-core/internal/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.SubscriberModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sender := mail.New(config.MailConfig{Enable: false})
	svc := NewService(db, sender, "https://blog.example.com", "Nitai's Blogs", zap.NewNop())
	return svc, db
}

func countSubscribers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.SubscriberModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSubscribeCreatesNewSubscriber(t *testing.T) {
	svc, db := newTestService(t)

	sub, outcome, err := svc.Subscribe("u1", "Reader@Example.com", "Reader")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if outcome != OutcomeSubscribed {
		t.Errorf("outcome = %v, want OutcomeSubscribed", outcome)
	}
	if !sub.IsSubscribed || sub.UnsubscribedAt != nil {
		t.Errorf("new subscriber state wrong: %+v", sub)
	}
	if sub.Email != "reader@example.com" {
		t.Errorf("email not lowercased: %q", sub.Email)
	}
	if n := countSubscribers(t, db); n != 1 {
		t.Errorf("subscriber count = %d, want 1", n)
	}
}

func TestSubscribeWhileActiveIsWelcomeBack(t *testing.T) {
	svc, db := newTestService(t)

	if _, _, err := svc.Subscribe("u1", "reader@example.com", "Reader"); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	sub, outcome, err := svc.Subscribe("u1", "reader@example.com", "Reader")
	if err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}
	if outcome != OutcomeWelcomeBack {
		t.Errorf("outcome = %v, want OutcomeWelcomeBack", outcome)
	}
	if !sub.IsSubscribed {
		t.Error("subscriber should stay subscribed")
	}
	if n := countSubscribers(t, db); n != 1 {
		t.Errorf("resubscribe created a second row: count = %d", n)
	}
}

func TestUnsubscribeThenResubscribe(t *testing.T) {
	svc, db := newTestService(t)

	sub, _, err := svc.Subscribe("u1", "reader@example.com", "Reader")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	url, err := svc.UnsubscribeURL(sub)
	if err != nil {
		t.Fatalf("UnsubscribeURL: %v", err)
	}
	token := tokenFromURL(t, url)

	if err := svc.Unsubscribe(token); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	var stored models.SubscriberModel
	if err := db.First(&stored, "user_id = ?", "u1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.IsSubscribed || stored.UnsubscribedAt == nil {
		t.Errorf("unsubscribe did not flip state: %+v", stored)
	}

	reactivated, outcome, err := svc.Subscribe("u1", "reader@example.com", "Reader")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if outcome != OutcomeWelcomeBack {
		t.Errorf("outcome = %v, want OutcomeWelcomeBack", outcome)
	}
	if !reactivated.IsSubscribed || reactivated.UnsubscribedAt != nil {
		t.Errorf("reactivation state wrong: %+v", reactivated)
	}
	if n := countSubscribers(t, db); n != 1 {
		t.Errorf("reactivation created a second row: count = %d", n)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	sub, _, err := svc.Subscribe("u1", "reader@example.com", "Reader")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	url, _ := svc.UnsubscribeURL(sub)
	token := tokenFromURL(t, url)

	if err := svc.Unsubscribe(token); err != nil {
		t.Fatalf("first Unsubscribe: %v", err)
	}
	if err := svc.Unsubscribe(token); err != nil {
		t.Fatalf("second Unsubscribe should succeed: %v", err)
	}
}

func TestUnsubscribeRejectsBadTokens(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Subscribe("u1", "reader@example.com", "Reader"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	sessionToken, err := jwt.SignSession("u1", "reader@example.com", "Reader", "user", false, jwt.UserSessionTTL)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "definitely-not-a-jwt"},
		{"wrong purpose", sessionToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Unsubscribe(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Unsubscribe(%s) = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := jwt.SignUnsubscribe("ghost", "ghost@example.com")
	if err != nil {
		t.Fatalf("SignUnsubscribe: %v", err)
	}
	if err := svc.Unsubscribe(token); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("Unsubscribe = %v, want ErrNotSubscribed", err)
	}
}

func TestUnsubscribeURLShape(t *testing.T) {
	svc, _ := newTestService(t)

	sub, _, err := svc.Subscribe("u1", "reader@example.com", "Reader")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	url, err := svc.UnsubscribeURL(sub)
	if err != nil {
		t.Fatalf("UnsubscribeURL: %v", err)
	}

	const prefix = "https://blog.example.com/unsubscribe?token="
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		t.Fatalf("unexpected url shape: %q", url)
	}

	claims, err := jwt.Parse(tokenFromURL(t, url))
	if err != nil {
		t.Fatalf("Parse embedded token: %v", err)
	}
	if claims.Purpose != jwt.PurposeUnsubscribe || claims.Email != "reader@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func tokenFromURL(t *testing.T, url string) string {
	t.Helper()
	const marker = "token="
	idx := len(url)
	for i := 0; i+len(marker) <= len(url); i++ {
		if url[i:i+len(marker)] == marker {
			idx = i + len(marker)
			break
		}
	}
	if idx >= len(url) {
		t.Fatalf("no token in url %q", url)
	}
	return url[idx:]
}
