package services

import "context"

// Engager is the social-engagement port. Implementations wrap a concrete
// platform client; each call returns platform response data and may fail
// with a platform-specific error.
type Engager interface {
	Comment(ctx context.Context, mediaID, text string) (map[string]any, error)
	Like(ctx context.Context, mediaID string) (map[string]any, error)
	Follow(ctx context.Context, userID string) (map[string]any, error)
	Unfollow(ctx context.Context, userID string) (map[string]any, error)
	SendDM(ctx context.Context, threadID, text string) (map[string]any, error)
}

// Publisher is the posting port used by the story action type.
type Publisher interface {
	PostStory(ctx context.Context, contentID, caption string) (map[string]any, error)
}

// TextGenerator is the best-effort persona text port (OpenAI client subset).
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// BucketService uploads media/avatar bytes and returns a public URL.
type BucketService interface {
	UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error)
}
