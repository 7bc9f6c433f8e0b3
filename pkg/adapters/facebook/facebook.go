// Package facebook publishes share cards to a Facebook Page feed and to the
// Page's stories through the Graph API.
package facebook

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
	EnvPageAccessToken = "FACEBOOK_PAGE_ACCESS_TOKEN"
	EnvPageID          = "FACEBOOK_PAGE_ID"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"
	APIVersion     = "v23.0"
)

const (
	feedFilename  = "daily-bazi-forecast.png"
	storyFilename = "daily-bazi-story.png"
)

var requiredCredentials = []string{EnvPageAccessToken, EnvPageID}

// graphError is the Graph API error object.
type graphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"`
}

type graphResponse struct {
	ID      string      `json:"id"`
	PostID  string      `json:"post_id"`
	Success bool        `json:"success"`
	Error   *graphError `json:"error"`
}

// graph is a minimal Graph API client bound to one base URL.
type graph struct {
	baseURL string
	client  *http.Client
}

func newGraph(baseURL string, client *http.Client) graph {
	return graph{baseURL: strings.TrimRight(baseURL, "/") + "/" + APIVersion, client: client}
}

func (g graph) url(pageID, edge string) string {
	return g.baseURL + "/" + pageID + "/" + edge
}

// uploadPhoto posts to /{page}/photos. An empty message omits the field.
func (g graph) uploadPhoto(ctx context.Context, pageID, token string, image []byte, filename, message string, published bool) (*graphResponse, error) {
	form := &httpform.Form{}
	form.File(httpform.File{Field: "source", Filename: filename, ContentType: "image/png", Data: image})
	if message != "" {
		form.Field("message", message)
	}
	if !published {
		form.Field("published", "false")
	}
	form.Field("access_token", token)

	resp, err := httpform.PostForm(ctx, g.client, g.url(pageID, "photos"), form)
	if err != nil {
		return nil, fmt.Errorf("%w: upload photo: %v", pipeline.ErrPublish, redact(err, token))
	}
	return decode(resp)
}

// createStory posts to /{page}/photo_stories with an uploaded photo id.
func (g graph) createStory(ctx context.Context, pageID, token, photoID string) (*graphResponse, error) {
	payload := map[string]string{
		"photo_id":     photoID,
		"access_token": token,
	}
	resp, err := httpform.PostJSON(ctx, g.client, g.url(pageID, "photo_stories"), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: create story: %v", pipeline.ErrPublish, redact(err, token))
	}
	return decode(resp)
}

func decode(resp *httpform.Response) (*graphResponse, error) {
	var body graphResponse
	decodeErr := json.Unmarshal(resp.Body, &body)
	if resp.OK() && decodeErr == nil && body.Error == nil {
		return &body, nil
	}

	apiErr := &pipeline.APIError{
		Platform:   string(ports.PlatformFacebook),
		StatusCode: resp.StatusCode,
		Payload:    resp.Body,
	}
	switch {
	case decodeErr == nil && body.Error != nil:
		apiErr.Message = body.Error.Message
		if body.Error.Type != "" {
			apiErr.Message = body.Error.Type + ": " + apiErr.Message
		}
		if body.Error.Code != 0 {
			apiErr.Code = strconv.Itoa(body.Error.Code)
			if body.Error.ErrorSubcode != 0 {
				apiErr.Code += "/" + strconv.Itoa(body.Error.ErrorSubcode)
			}
		}
	case decodeErr != nil:
		apiErr.Message = "unreadable response: " + decodeErr.Error()
	default:
		apiErr.Message = "request not accepted"
	}
	return nil, apiErr
}

func redact(err error, token string) string {
	msg := err.Error()
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<token>")
}

func resolve(platform ports.Platform, src ports.CredentialSource) (pageID, token string, err error) {
	values, err := pipeline.ResolveCredentials(platform, src, requiredCredentials)
	if err != nil {
		return "", "", err
	}
	return values[EnvPageID], values[EnvPageAccessToken], nil
}

// FeedPublisher posts the image and caption to the Page feed in one call.
type FeedPublisher struct {
	graph  graph
	logger ports.Logger
}

// NewFeed creates a feed publisher against the public Graph API.
func NewFeed(logger ports.Logger) *FeedPublisher {
	return NewFeedWithEndpoint(DefaultBaseURL, httpform.NewClient(), logger)
}

// NewFeedWithEndpoint creates a feed publisher with a custom base URL and client.
func NewFeedWithEndpoint(baseURL string, client *http.Client, logger ports.Logger) *FeedPublisher {
	return &FeedPublisher{graph: newGraph(baseURL, client), logger: logger.WithComponent("publisher")}
}

func (p *FeedPublisher) Platform() ports.Platform { return ports.PlatformFacebook }

func (p *FeedPublisher) RequiredCredentials() []string { return requiredCredentials }

func (p *FeedPublisher) Publish(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error) {
	pageID, token, err := resolve(ports.PlatformFacebook, req.Credentials)
	if err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = feedFilename
	}
	p.logger.Debug("Uploading feed photo to page %s (%d bytes)", pageID, len(req.Image))
	res, err := p.graph.uploadPhoto(ctx, pageID, token, req.Image, filename, req.Caption, true)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Feed photo posted: %s", res.ID)

	return &ports.PublishResult{
		Platform:  ports.PlatformFacebook,
		PostID:    res.ID,
		Permalink: fmt.Sprintf("https://www.facebook.com/%s/posts/%s", pageID, res.ID),
	}, nil
}

// StoryPublisher uploads an unpublished photo and then creates a Page story
// from exactly that photo id. Stories take no caption.
type StoryPublisher struct {
	graph  graph
	logger ports.Logger
}

// NewStory creates a story publisher against the public Graph API.
func NewStory(logger ports.Logger) *StoryPublisher {
	return NewStoryWithEndpoint(DefaultBaseURL, httpform.NewClient(), logger)
}

// NewStoryWithEndpoint creates a story publisher with a custom base URL and client.
func NewStoryWithEndpoint(baseURL string, client *http.Client, logger ports.Logger) *StoryPublisher {
	return &StoryPublisher{graph: newGraph(baseURL, client), logger: logger.WithComponent("publisher")}
}

func (p *StoryPublisher) Platform() ports.Platform { return ports.PlatformFacebookStory }

func (p *StoryPublisher) RequiredCredentials() []string { return requiredCredentials }

func (p *StoryPublisher) Publish(ctx context.Context, req ports.PublishRequest) (*ports.PublishResult, error) {
	pageID, token, err := resolve(ports.PlatformFacebookStory, req.Credentials)
	if err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = storyFilename
	}
	p.logger.Debug("Uploading story photo to page %s (%d bytes)", pageID, len(req.Image))
	photo, err := p.graph.uploadPhoto(ctx, pageID, token, req.Image, filename, "", false)
	if err != nil {
		return nil, fmt.Errorf("story photo: %w", err)
	}
	if photo.ID == "" {
		return nil, &pipeline.APIError{
			Platform: string(ports.PlatformFacebookStory),
			Message:  "photo upload returned no id",
		}
	}
	p.logger.Debug("Story photo uploaded: %s", photo.ID)

	story, err := p.graph.createStory(ctx, pageID, token, photo.ID)
	if err != nil {
		return nil, fmt.Errorf("photo story: %w", err)
	}

	storyID := story.ID
	if storyID == "" {
		storyID = story.PostID
	}
	p.logger.Debug("Story created: %q (success=%t)", storyID, story.Success)

	return &ports.PublishResult{
		Platform: ports.PlatformFacebookStory,
		PostID:   storyID,
	}, nil
}

// Ensure publishers implement ports.Publisher
var (
	_ ports.Publisher = (*FeedPublisher)(nil)
	_ ports.Publisher = (*StoryPublisher)(nil)
)
