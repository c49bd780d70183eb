package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/validation"
)

// Stream ids may only contain these characters.
var chatIDUnsafe = regexp.MustCompile(`[^a-zA-Z0-9@_\-]`)

const supportChannelType = "messaging"

type SupportConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string

	// AgentID is the chat user that answers support channels.
	AgentID  string
	Timeout  time.Duration
	TokenTTL time.Duration
}

// SupportService issues chat credentials for the support widget and makes
// sure the user's support channel exists with the agent as a member.
type SupportService struct {
	cfg    SupportConfig
	client *stream.Client
}

func NewSupportService(cfg SupportConfig) *SupportService {
	s := &SupportService{cfg: cfg}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return s
	}
	if s.cfg.TokenTTL <= 0 {
		s.cfg.TokenTTL = time.Hour
	}

	client, err := stream.NewClient(cfg.APIKey, cfg.APISecret)
	if err != nil {
		slog.Error("failed to create chat client, support chat disabled", "error", err)
		return s
	}
	if cfg.BaseURL != "" {
		client.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		client.HTTP.Timeout = cfg.Timeout
	}
	s.client = client
	return s
}

func (s *SupportService) Enabled() bool {
	return s.client != nil
}

// Credentials returns ErrEmailMismatch unless email is the caller's own address.
// The returned token expires after the configured TTL.
func (s *SupportService) Credentials(ctx context.Context, user *model.User, email string) (*model.ChatCredentials, error) {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, invalid("email", err)
	}
	if !strings.EqualFold(email, strings.TrimSpace(user.Email)) {
		return nil, ErrEmailMismatch
	}
	if !s.Enabled() {
		return nil, ErrSupportDisabled
	}

	chatUserID := chatIDUnsafe.ReplaceAllString(user.ID, "_")
	channelID := "support-" + chatUserID
	if len(channelID) > 64 {
		channelID = channelID[:64]
	}

	_, err := s.client.UpsertUsers(ctx,
		&stream.User{ID: chatUserID, Role: "user", ExtraData: map[string]interface{}{"email": user.Email}},
		&stream.User{ID: s.cfg.AgentID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert chat user: %w", err)
	}

	_, err = s.client.CreateChannel(ctx, supportChannelType, channelID, chatUserID, &stream.ChannelRequest{
		Members: []string{chatUserID, s.cfg.AgentID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create support channel: %w", err)
	}

	token, err := s.client.CreateToken(chatUserID, time.Now().Add(s.cfg.TokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign chat token: %w", err)
	}

	return &model.ChatCredentials{
		Token:     token,
		ChannelID: channelID,
		UserID:    chatUserID,
		APIKey:    s.cfg.APIKey,
	}, nil
}
