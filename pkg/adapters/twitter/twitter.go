// Package twitter publishes share cards to X (Twitter) through gotwi.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/media/upload"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/resources"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// Credential keys.
const (
	EnvAPIKey       = "TWITTER_API_KEY"
	EnvAPISecret    = "TWITTER_API_SECRET"
	EnvAccessToken  = "TWITTER_ACCESS_TOKEN"
	EnvAccessSecret = "TWITTER_ACCESS_SECRET"
)

const permalinkFormat = "https://twitter.com/user/status/%s"

var httpTimeout = 30 * time.Second

// Credentials are the OAuth 1.0a user-context secrets.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// API is the subset of the X API the publisher needs.
type API interface {
	UploadPNG(ctx context.Context, data []byte) (mediaID string, err error)
	CreateTweet(ctx context.Context, text string, mediaIDs []string) (tweetID string, err error)
}

// Publisher implements ports.Publisher for X.
type Publisher struct {
	newAPI func(Credentials) (API, error)
	logger ports.Logger
}

// New creates a publisher backed by gotwi.
func New(logger ports.Logger) *Publisher {
	return NewWithAPI(NewGotwiAPI, logger)
}

// NewWithAPI creates a publisher with a custom API constructor.
func NewWithAPI(newAPI func(Credentials) (API, error), logger ports.Logger) *Publisher {
	return &Publisher{
		newAPI: newAPI,
		logger: logger.WithComponent("publisher"),
	}
}

func (p *Publisher) Platform() ports.Platform { return ports.PlatformTwitter }

func (p *Publisher) RequiredCredentials() []string {
	return []string{EnvAPIKey, EnvAPISecret, EnvAccessToken, EnvAccessSecret}
}

// Publish uploads the image, then posts a tweet with the caption and media.
func (p *Publisher) Publish(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error) {
	values, err := pipeline.ResolveCredentials(ports.PlatformTwitter, req.Credentials, p.RequiredCredentials())
	if err != nil {
		return nil, err
	}

	api, err := p.newAPI(Credentials{
		APIKey:       values[EnvAPIKey],
		APISecret:    values[EnvAPISecret],
		AccessToken:  values[EnvAccessToken],
		AccessSecret: values[EnvAccessSecret],
	})
	if err != nil {
		return nil, fmt.Errorf("create X client: %w", err)
	}

	p.logger.Debug("Uploading media (%d bytes)", len(req.Image))
	mediaID, err := api.UploadPNG(ctx, req.Image)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", asAPIError(err))
	}
	p.logger.Debug("Media uploaded: %s", mediaID)

	tweetID, err := api.CreateTweet(ctx, req.Caption, []string{mediaID})
	if err != nil {
		return nil, fmt.Errorf("post tweet: %w", asAPIError(err))
	}
	p.logger.Debug("Tweet posted: %s", tweetID)

	return &ports.PublishResult{
		Platform:  ports.PlatformTwitter,
		PostID:    tweetID,
		Permalink: fmt.Sprintf(permalinkFormat, tweetID),
	}, nil
}

// asAPIError converts gotwi API errors into *pipeline.APIError. Failures
// that never reached the API stay plain publish errors.
func asAPIError(err error) error {
	var apiErr *pipeline.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	var gwErr *gotwi.GotwiError
	if !errors.As(err, &gwErr) || gwErr == nil || !gwErr.OnAPI {
		return fmt.Errorf("%w: %v", pipeline.ErrPublish, err)
	}

	out := &pipeline.APIError{
		Platform:   string(ports.PlatformTwitter),
		StatusCode: gwErr.StatusCode,
		Message:    summarizeGotwiError(gwErr),
	}
	if len(gwErr.APIErrors) > 0 && gwErr.APIErrors[0].Code != 0 {
		out.Code = strconv.Itoa(int(gwErr.APIErrors[0].Code))
	}
	if payload, err := json.Marshal(gwErr.Non2XXError); err == nil {
		out.Payload = payload
	}
	return out
}

func summarizeGotwiError(err *gotwi.GotwiError) string {
	parts := make([]string, 0, 4)
	if err.Title != "" {
		parts = append(parts, err.Title)
	}
	if err.Detail != "" {
		parts = append(parts, err.Detail)
	}
	for _, apiErr := range err.APIErrors {
		if apiErr.Message != "" {
			parts = append(parts, apiErr.Message)
		}
	}
	if len(parts) == 0 {
		if msg := err.Error(); msg != "" {
			parts = append(parts, msg)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X API request failed")
	}
	return strings.Join(parts, "; ")
}

// gotwiAPI implements API with gotwi.
type gotwiAPI struct {
	client *gotwi.Client
}

// NewGotwiAPI creates an OAuth 1.0a user-context gotwi client.
func NewGotwiAPI(creds Credentials) (API, error) {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = httpTimeout

	client, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           httpClient,
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           creds.AccessToken,
		OAuthTokenSecret:     creds.AccessSecret,
		APIKey:               creds.APIKey,
		APIKeySecret:         creds.APISecret,
	})
	if err != nil {
		return nil, err
	}
	if !client.IsReady() {
		return nil, errors.New("twitter client not ready")
	}
	return &gotwiAPI{client: client}, nil
}

// UploadPNG runs the chunked initialize/append/finalize upload in one segment.
func (a *gotwiAPI) UploadPNG(ctx context.Context, data []byte) (string, error) {
	initRes, err := upload.Initialize(ctx, a.client, &uploadtypes.InitializeInput{
		MediaType:     uploadtypes.MediaTypePNG,
		TotalBytes:    len(data),
		MediaCategory: uploadtypes.MediaCategoryTweetImage,
	})
	if err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}
	if err := partialError(initRes.Errors); err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}
	mediaID := initRes.Data.MediaID

	appendIn := &uploadtypes.AppendInput{
		MediaID:      mediaID,
		Media:        bytes.NewReader(data),
		SegmentIndex: 0,
	}
	appendIn.GenerateBoundary()

	appendRes, err := upload.Append(ctx, a.client, appendIn)
	if err != nil {
		return "", fmt.Errorf("append upload: %w", err)
	}
	if err := partialError(appendRes.Errors); err != nil {
		return "", fmt.Errorf("append upload: %w", err)
	}

	finalizeRes, err := upload.Finalize(ctx, a.client, &uploadtypes.FinalizeInput{MediaID: mediaID})
	if err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	if err := partialError(finalizeRes.Errors); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	switch state := finalizeRes.Data.ProcessingInfo.State; state {
	case "", resources.ProcessingInfoStateSucceeded:
	case resources.ProcessingInfoStateInProgress, resources.ProcessingInfoStatePending:
		// Images finish quickly; wait the advertised interval once.
		wait := time.Duration(finalizeRes.Data.ProcessingInfo.CheckAfterSecs) * time.Second
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	default:
		return "", fmt.Errorf("media processing failed: state=%s", state)
	}

	return mediaID, nil
}

// CreateTweet posts text with the given media attached.
func (a *gotwiAPI) CreateTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	input := &managetweettypes.CreateInput{
		Text: gotwi.String(text),
	}
	if len(mediaIDs) > 0 {
		input.Media = &managetweettypes.CreateInputMedia{MediaIDs: mediaIDs}
	}

	res, err := managetweet.Create(ctx, a.client, input)
	if err != nil {
		return "", err
	}
	return gotwi.StringValue(res.Data.ID), nil
}

func partialError(partials []resources.PartialError) error {
	if len(partials) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(partials))
	for _, pe := range partials {
		switch {
		case pe.Detail != nil && *pe.Detail != "":
			msgs = append(msgs, *pe.Detail)
		case pe.Title != nil && *pe.Title != "":
			msgs = append(msgs, *pe.Title)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "unknown error")
	}
	return &pipeline.APIError{
		Platform: string(ports.PlatformTwitter),
		Message:  strings.Join(msgs, "; "),
	}
}

// Ensure Publisher implements ports.Publisher
var _ ports.Publisher = (*Publisher)(nil)
