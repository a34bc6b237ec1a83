package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/observability"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
	"github.com/noah-isme/lor-tracker-api/pkg/mailer"
)

// redisChannel is the pub/sub channel live dashboards subscribe to.
const redisChannel = "lor.notifications"

// natsSubjectPrefix prefixes the per-type subjects downstream consumers
// filter on.
const natsSubjectPrefix = "lor.notifications."

// publishTimeout bounds the broker handoff so a slow transport cannot stall
// the request path it was fired from.
const publishTimeout = 2 * time.Second

var notificationMessages = map[string]string{
	models.NotificationSubmissionReceived:    "A new LoR submission is waiting for your review",
	models.NotificationResubmissionRequested: "Your faculty has requested changes to your LoR draft",
	models.NotificationSubmissionRejected:    "Your LoR submission was rejected",
	models.NotificationDraftApproved:         "Your LoR draft was approved",
	models.NotificationLoRCompleted:          "Your final LoR has been uploaded",
}

var notificationSubjects = map[string]string{
	models.NotificationSubmissionReceived:    "New LoR submission received",
	models.NotificationResubmissionRequested: "Resubmission requested",
	models.NotificationSubmissionRejected:    "Submission rejected",
	models.NotificationDraftApproved:         "Draft approved",
	models.NotificationLoRCompleted:          "Final LoR uploaded",
}

// NotificationService exposes the in-app inbox and receives lifecycle
// events. The in-app row is the only write that matters; Redis, NATS and
// email fan-out are best-effort and never surface errors to the caller.
type NotificationService interface {
	LifecycleNotifier
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint, userID uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	directory     DirectoryService
	redis         *redis.Client
	nats          *nats.Conn
	mail          *mailer.Mailer
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewNotificationService constructs a NotificationService. redisClient,
// natsConn and mail may each be nil; the matching channel is then skipped.
func NewNotificationService(notifications repository.NotificationRepository, directory DirectoryService, redisClient *redis.Client, natsConn *nats.Conn, mail *mailer.Mailer, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		directory:     directory,
		redis:         redisClient,
		nats:          natsConn,
		mail:          mail,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *notificationService) NotifyLifecycle(ctx context.Context, event LifecycleEvent) {
	event.Remark = s.sanitizer.Sanitize(event.Remark)

	message, ok := notificationMessages[event.Type]
	if !ok {
		s.logger.Warn().Str("type", event.Type).Msg("dropping notification of unknown type")
		return
	}

	submissionID := event.SubmissionID
	row := models.Notification{
		UserID:       event.RecipientUserID,
		Type:         event.Type,
		Message:      message,
		SubmissionID: &submissionID,
	}
	if err := s.notifications.Create(ctx, &row); err != nil {
		s.logger.Error().Err(err).Str("type", event.Type).Msg("failed to persist notification")
	} else {
		observability.NotificationsSent().WithLabelValues(event.Type, "inapp").Inc()
	}

	s.publish(event)

	if s.mail != nil {
		go s.email(event)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	items, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewNotificationResponseSlice(items), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID uint) (dto.NotificationResponse, error) {
	item, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}
	return dto.NewNotificationResponse(item), nil
}

// publish fans the event out to Redis and NATS for live consumers. Both
// transports are optional and both failures are swallowed after logging.
func (s *notificationService) publish(event LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode notification event")
		return
	}

	if s.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := s.redis.Publish(ctx, redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("redis publish failed")
		} else {
			observability.NotificationsSent().WithLabelValues(event.Type, "redis").Inc()
		}
		cancel()
	}

	if s.nats != nil {
		if err := s.nats.Publish(natsSubjectPrefix+event.Type, payload); err != nil {
			s.logger.Warn().Err(err).Msg("nats publish failed")
		} else {
			observability.NotificationsSent().WithLabelValues(event.Type, "nats").Inc()
		}
	}
}

func (s *notificationService) email(event LifecycleEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	to, err := s.directory.UserEmail(ctx, event.RecipientUserID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", event.RecipientUserID).Msg("skipping email, recipient lookup failed")
		return
	}

	body, err := mailer.RenderBody(mailer.BodyData{
		Greeting:     "Hello",
		Line:         notificationMessages[event.Type],
		Remark:       event.Remark,
		SubmissionID: event.SubmissionID,
		Deadline:     event.Deadline.Format("2006-01-02"),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to render notification email")
		return
	}

	subject, ok := notificationSubjects[event.Type]
	if !ok {
		subject = fmt.Sprintf("LoR update: %s", event.Type)
	}

	if err := s.mail.Send(mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
		s.logger.Warn().Err(err).Str("to", to).Msg("notification email failed")
		return
	}
	observability.NotificationsSent().WithLabelValues(event.Type, "email").Inc()
}
