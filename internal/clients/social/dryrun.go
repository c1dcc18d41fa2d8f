package social

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// DryRunClient satisfies the engagement and publishing ports without
// touching any real platform. Every call succeeds and returns a fabricated
// platform response, so schedulers and simulators can run end to end in
// development and tests.
type DryRunClient struct {
	log      *logger.Logger
	platform string
}

func NewDryRunClient(log *logger.Logger, platform string) *DryRunClient {
	return &DryRunClient{
		log:      log.With("service", "DryRunSocialClient", "platform", platform),
		platform: platform,
	}
}

func (c *DryRunClient) respond(action string, fields map[string]any) map[string]any {
	out := map[string]any{
		"dry_run":   true,
		"action":    action,
		"platform":  c.platform,
		"id":        uuid.NewString(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (c *DryRunClient) Comment(ctx context.Context, mediaID, text string) (map[string]any, error) {
	c.log.Info("Dry-run comment", "media_id", mediaID, "text_len", len(text))
	return c.respond("comment", map[string]any{"media_id": mediaID, "text": text}), nil
}

func (c *DryRunClient) Like(ctx context.Context, mediaID string) (map[string]any, error) {
	c.log.Info("Dry-run like", "media_id", mediaID)
	return c.respond("like", map[string]any{"media_id": mediaID}), nil
}

func (c *DryRunClient) Follow(ctx context.Context, userID string) (map[string]any, error) {
	c.log.Info("Dry-run follow", "user_id", userID)
	return c.respond("follow", map[string]any{"user_id": userID}), nil
}

func (c *DryRunClient) Unfollow(ctx context.Context, userID string) (map[string]any, error) {
	c.log.Info("Dry-run unfollow", "user_id", userID)
	return c.respond("unfollow", map[string]any{"user_id": userID}), nil
}

func (c *DryRunClient) SendDM(ctx context.Context, threadID, text string) (map[string]any, error) {
	c.log.Info("Dry-run DM", "thread_id", threadID, "text_len", len(text))
	return c.respond("dm", map[string]any{"thread_id": threadID, "text": text}), nil
}

func (c *DryRunClient) PostStory(ctx context.Context, contentID, caption string) (map[string]any, error) {
	c.log.Info("Dry-run story", "content_id", contentID)
	return c.respond("story", map[string]any{"content_id": contentID, "caption": caption}), nil
}
