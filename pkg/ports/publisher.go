package ports

import "context"

// Platform identifies a publishing surface.
type Platform string

const (
	PlatformTwitter       Platform = "twitter"
	PlatformTelegram      Platform = "telegram"
	PlatformFacebook      Platform = "facebook"
	PlatformFacebookStory Platform = "facebook-story"
)

// CredentialSource resolves secrets by name at publish time.
type CredentialSource interface {
	Lookup(key string) (string, bool)
}

// PublishRequest is one image upload with its caption.
type PublishRequest struct {
	Platform    Platform
	Image       []byte // PNG
	Filename    string
	Caption     string
	Credentials CredentialSource
}

// PublishResult identifies the created post.
type PublishResult struct {
	Platform  Platform
	PostID    string
	Permalink string
}

// Publisher uploads an image with a caption to one platform surface.
// Publish is not idempotent: each call creates a new post.
type Publisher interface {
	Platform() Platform

	// RequiredCredentials lists the credential keys Publish reads.
	RequiredCredentials() []string

	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}
