// Package telegram publishes share cards to a Telegram channel through the
// Bot API sendPhoto method.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/user/forecastbot/pkg/adapters/httpform"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// Credential keys.
const (
	EnvBotToken  = "TELEGRAM_BOT_TOKEN"
	EnvChannelID = "TELEGRAM_CHANNEL_ID"
)

// DefaultBaseURL is the Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

const defaultFilename = "daily-bazi-forecast.png"

// Publisher implements ports.Publisher for Telegram channels.
type Publisher struct {
	baseURL string
	client  *http.Client
	logger  ports.Logger
}

// New creates a publisher against the public Bot API.
func New(logger ports.Logger) *Publisher {
	return NewWithEndpoint(DefaultBaseURL, httpform.NewClient(), logger)
}

// NewWithEndpoint creates a publisher with a custom base URL and client.
func NewWithEndpoint(baseURL string, client *http.Client, logger ports.Logger) *Publisher {
	return &Publisher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.WithComponent("publisher"),
	}
}

func (p *Publisher) Platform() ports.Platform { return ports.PlatformTelegram }

func (p *Publisher) RequiredCredentials() []string {
	return []string{EnvBotToken, EnvChannelID}
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish sends the image with its caption in a single sendPhoto call.
func (p *Publisher) Publish(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error) {
	values, err := pipeline.ResolveCredentials(ports.PlatformTelegram, req.Credentials, p.RequiredCredentials())
	if err != nil {
		return nil, err
	}
	token, chatID := values[EnvBotToken], values[EnvChannelID]

	filename := req.Filename
	if filename == "" {
		filename = defaultFilename
	}
	form := (&httpform.Form{}).
		Field("chat_id", chatID).
		Field("caption", req.Caption).
		Field("parse_mode", "HTML").
		File(httpform.File{Field: "photo", Filename: filename, ContentType: "image/png", Data: req.Image})

	p.logger.Debug("Sending photo to %s (%d bytes)", chatID, len(req.Image))
	resp, err := httpform.PostForm(ctx, p.client, p.baseURL+"/bot"+token+"/sendPhoto", form)
	if err != nil {
		// The request URL carries the token; never surface it.
		return nil, fmt.Errorf("%w: sendPhoto: %v", pipeline.ErrPublish, redact(err, token))
	}

	var body apiResponse
	decodeErr := json.Unmarshal(resp.Body, &body)
	if !resp.OK() || decodeErr != nil || !body.OK {
		return nil, apiError(resp, body, decodeErr)
	}

	messageID := strconv.FormatInt(body.Result.MessageID, 10)
	p.logger.Debug("Message sent: %s", messageID)

	return &ports.PublishResult{
		Platform:  ports.PlatformTelegram,
		PostID:    messageID,
		Permalink: Permalink(chatID, body.Result.MessageID),
	}, nil
}

func apiError(resp *httpform.Response, body apiResponse, decodeErr error) *pipeline.APIError {
	apiErr := &pipeline.APIError{
		Platform:   string(ports.PlatformTelegram),
		StatusCode: resp.StatusCode,
		Payload:    resp.Body,
	}
	switch {
	case decodeErr == nil && body.Description != "":
		apiErr.Message = body.Description
		if body.ErrorCode != 0 {
			apiErr.Code = strconv.Itoa(body.ErrorCode)
		}
	case decodeErr != nil:
		apiErr.Message = "unreadable response: " + decodeErr.Error()
	default:
		apiErr.Message = "request not accepted"
	}
	return apiErr
}

// Permalink returns the public message link for a channel id. Public
// channels use their @username; private supergroups use the t.me/c form
// with the -100 prefix removed. Numeric ids without that prefix have no
// public link.
func Permalink(chatID string, messageID int64) string {
	switch {
	case strings.HasPrefix(chatID, "@"):
		return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(chatID, "@"), messageID)
	case strings.HasPrefix(chatID, "-100"):
		return fmt.Sprintf("https://t.me/c/%s/%d", strings.TrimPrefix(chatID, "-100"), messageID)
	case chatID != "" && !strings.HasPrefix(chatID, "-") && !isDigits(chatID):
		return fmt.Sprintf("https://t.me/%s/%d", chatID, messageID)
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func redact(err error, token string) string {
	msg := err.Error()
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<token>")
}

// Ensure Publisher implements ports.Publisher
var _ ports.Publisher = (*Publisher)(nil)
