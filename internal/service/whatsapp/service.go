package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/config"
	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/service/inquiry"
	"github.com/grandresort/crm/internal/service/leads"
	client "github.com/grandresort/crm/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService ingests guest inquiries from the WhatsApp Cloud API
// webhook. Each inbound text is run through the inquiry parser and turned
// into a lead; the guest receives a short acknowledgement.
type MetaWhatsAppService struct {
	cfg     config.WhatsAppConfig
	client  client.Client
	parser  *inquiry.Parser
	leadSvc *leads.Service
	logger  *zap.Logger
	now     func() time.Time
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, parser *inquiry.Parser, leadSvc *leads.Service, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:     cfg,
		client:  client,
		parser:  parser,
		leadSvc: leadSvc,
		logger:  logger,
		now:     time.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	if len(payload.Entry) == 0 {
		return nil
	}

	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}

			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, change.Value, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, value models.WebhookValue, msg models.InboundMessage) error {
	if msg.Text == nil || msg.Text.Body == "" {
		s.logger.Debug("skipping non-text message", zap.String("type", msg.Type))
		return nil
	}

	parsed := s.parser.Parse(msg.Text.Body, s.now())

	lead, err := s.leadSvc.CreateFromInquiry(ctx, parsed, contactName(value, msg.From), msg.From)
	if err != nil {
		return err
	}

	s.logger.Info("inquiry ingested",
		zap.String("from", msg.From),
		zap.Int64("lead_id", lead.ID))

	ack := "Thank you! We have received your inquiry and our team will get back to you with a quote shortly."
	if lead.Name != "" {
		ack = fmt.Sprintf("Thank you %s! We have received your inquiry and our team will get back to you with a quote shortly.", lead.Name)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   msg.From,
		Body: ack,
	})
	return err
}

// SendOutbound lets the sales team push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

// contactName looks up the sender's WhatsApp profile name.
func contactName(value models.WebhookValue, waID string) string {
	for _, contact := range value.Contacts {
		if contact.WaID == waID {
			return contact.Profile.Name
		}
	}
	return ""
}
