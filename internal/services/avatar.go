package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// AvatarService renders placeholder initials avatars for characters that
// have no generated imagery yet, and processes uploaded portraits.
type AvatarService interface {
	GenerateCharacterAvatar(character *types.Character) (bytes.Buffer, error)
	CreateAndUploadCharacterAvatar(ctx context.Context, tx *gorm.DB, character *types.Character) error
	UploadCharacterAvatarFromImage(ctx context.Context, tx *gorm.DB, character *types.Character, raw []byte) error
}

type avatarService struct {
	db       *gorm.DB
	log      *logger.Logger
	chars    repos.CharacterRepo
	bucket   BucketService
	bgColors []color.NRGBA
	fontFace font.Face
	rng      *rand.Rand
}

var defaultAvatarPalette = []color.NRGBA{
	{R: 0xE5, G: 0x4D, B: 0x6B, A: 0xFF},
	{R: 0x7C, G: 0x5C, B: 0xE0, A: 0xFF},
	{R: 0x2E, G: 0x9E, B: 0x8F, A: 0xFF},
	{R: 0xE8, G: 0x9C, B: 0x31, A: 0xFF},
	{R: 0x38, G: 0x7D, B: 0xD5, A: 0xFF},
	{R: 0xC2, G: 0x4F, B: 0xB0, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, baseLog *logger.Logger, chars repos.CharacterRepo, bucket BucketService) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:       db,
		log:      serviceLog,
		chars:    chars,
		bucket:   bucket,
		bgColors: defaultAvatarPalette,
		fontFace: face,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (as *avatarService) GenerateCharacterAvatar(character *types.Character) (bytes.Buffer, error) {
	const size = 512
	var buf bytes.Buffer
	if character == nil {
		return buf, fmt.Errorf("character required")
	}

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	base := as.bgColors[as.rng.Intn(len(as.bgColors))]
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(character.Name)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode png: %w", err)
	}
	return buf, nil
}

func (as *avatarService) CreateAndUploadCharacterAvatar(ctx context.Context, tx *gorm.DB, character *types.Character) error {
	if character == nil || character.ID == uuid.Nil {
		return fmt.Errorf("character required")
	}
	buf, err := as.GenerateCharacterAvatar(character)
	if err != nil {
		return err
	}
	return as.uploadAvatar(ctx, tx, character, buf.Bytes())
}

func (as *avatarService) UploadCharacterAvatarFromImage(ctx context.Context, tx *gorm.DB, character *types.Character, raw []byte) error {
	if character == nil || character.ID == uuid.Nil {
		return fmt.Errorf("character required")
	}
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.uploadAvatar(ctx, tx, character, processed.Bytes())
}

func (as *avatarService) uploadAvatar(ctx context.Context, tx *gorm.DB, character *types.Character, data []byte) error {
	// Versioned key so CDNs never serve a stale avatar.
	key := fmt.Sprintf("character_avatar/%s/%d.png", character.ID.String(), time.Now().UnixNano())
	url, err := as.bucket.UploadObject(ctx, key, "image/png", data)
	if err != nil {
		return fmt.Errorf("upload character avatar: %w", err)
	}
	character.AvatarURL = url
	if err := as.chars.UpdateFields(ctx, tx, character.ID, map[string]interface{}{"avatar_url": url}); err != nil {
		return fmt.Errorf("persist avatar url: %w", err)
	}
	return nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square.
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func computeInitials(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(string([]rune(fields[0])[0]))
	default:
		first := []rune(fields[0])[0]
		last := []rune(fields[len(fields)-1])[0]
		return strings.ToUpper(string(first) + string(last))
	}
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
