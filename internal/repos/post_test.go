package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/repos/testutil"
	"github.com/novaluma/novaluma-backend/internal/types"
)

func seedCharacter(t *testing.T, tx *gorm.DB) *types.Character {
	t.Helper()
	ctx := context.Background()
	log := testutil.Logger(t)

	user, err := NewUserRepo(tx, log).Create(ctx, tx, &types.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	character, err := NewCharacterRepo(tx, log).Create(ctx, tx, &types.Character{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   "Luna",
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	return character
}

func seedPost(t *testing.T, tx *gorm.DB, characterID uuid.UUID, status string, publishedAt *time.Time) *types.Post {
	t.Helper()
	post, err := NewPostRepo(tx, testutil.Logger(t)).Create(context.Background(), tx, &types.Post{
		ID:          uuid.New(),
		CharacterID: characterID,
		Platform:    types.PlatformInstagram,
		PostType:    "image",
		Status:      status,
		PublishedAt: publishedAt,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestPostIncrementCounters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPostRepo(tx, testutil.Logger(t))

	character := seedCharacter(t, tx)
	publishedAt := time.Now().UTC()
	post := seedPost(t, tx, character.ID, types.PostStatusPublished, &publishedAt)

	syncedAt := time.Now().UTC().Truncate(time.Millisecond)
	if err := repo.IncrementCounters(ctx, tx, post.ID, 5, 2, 1, 60, syncedAt); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := repo.IncrementCounters(ctx, tx, post.ID, 3, 0, 0, 36, syncedAt.Add(time.Minute)); err != nil {
		t.Fatalf("second increment: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, post.ID)
	if err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if got.LikesCount != 8 || got.CommentsCount != 2 || got.SharesCount != 1 || got.ViewsCount != 96 {
		t.Fatalf("counters likes=%d comments=%d shares=%d views=%d, want 8/2/1/96",
			got.LikesCount, got.CommentsCount, got.SharesCount, got.ViewsCount)
	}
	if got.LastEngagementSyncAt == nil {
		t.Fatal("LastEngagementSyncAt not set")
	}
}

func TestPostListPublishedFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPostRepo(tx, testutil.Logger(t))

	character := seedCharacter(t, tx)
	other := seedCharacter(t, tx)

	now := time.Now().UTC()
	recent := now.Add(-time.Hour)
	old := now.Add(-100 * time.Hour)

	published := seedPost(t, tx, character.ID, types.PostStatusPublished, &recent)
	seedPost(t, tx, character.ID, types.PostStatusDraft, nil)
	stale := seedPost(t, tx, character.ID, types.PostStatusPublished, &old)
	foreign := seedPost(t, tx, other.ID, types.PostStatusPublished, &recent)

	since := now.Add(-48 * time.Hour)
	posts, err := repo.ListPublished(ctx, tx, PublishedPostFilter{CharacterID: character.ID, Since: &since}, 100, 0)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != published.ID {
		ids := make([]uuid.UUID, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		t.Fatalf("listed %v, want only %s (not draft %s, stale %s or foreign %s)",
			ids, published.ID, types.PostStatusDraft, stale.ID, foreign.ID)
	}
}

func TestPostUpdateFieldsPublish(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPostRepo(tx, testutil.Logger(t))

	character := seedCharacter(t, tx)
	post := seedPost(t, tx, character.ID, types.PostStatusDraft, nil)

	publishedAt := time.Now().UTC().Truncate(time.Millisecond)
	err := repo.UpdateFields(ctx, tx, post.ID, map[string]interface{}{
		"status":       types.PostStatusPublished,
		"published_at": publishedAt,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, post.ID)
	if err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if got.Status != types.PostStatusPublished || got.PublishedAt == nil {
		t.Fatalf("status=%q published_at=%v after publish", got.Status, got.PublishedAt)
	}
}
