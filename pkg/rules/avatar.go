package rules

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"slices"
	"strings"

	_ "golang.org/x/image/webp"
)

// Avatar upload limits.
const (
	MaxAvatarSize   = 5 * 1024 * 1024
	MinAvatarWidth  = 50
	MinAvatarHeight = 50
	MaxAvatarWidth  = 2000
	MaxAvatarHeight = 2000
)

var (
	AllowedAvatarExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AllowedAvatarTypes      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// Avatar validates an uploaded image: extension, declared type, size and
// decoded dimensions, in that order. No file means no error.
func Avatar(ctx context.Context, field Context) string {
	file := field.File()
	if file == nil {
		return ""
	}

	if !slices.Contains(AllowedAvatarExtensions, fileExtension(file.Name)) {
		return msgAvatarExtension()
	}
	if !slices.Contains(AllowedAvatarTypes, mediaType(file.ContentType)) {
		return MsgAvatarType
	}
	if file.Size > MaxAvatarSize {
		return msgAvatarSize()
	}
	return checkDimensions(ctx, file)
}

type decodeResult struct {
	config image.Config
	err    error
}

// checkDimensions decodes the image header on a separate goroutine so a
// cancelled context returns promptly. The reader is closed on every path.
func checkDimensions(ctx context.Context, file *FileInfo) string {
	if file.Open == nil {
		return MsgAvatarUnreadable
	}
	if ctx.Err() != nil {
		return MsgAvatarUnreadable
	}

	rc, err := file.Open()
	if err != nil {
		return MsgAvatarUnreadable
	}
	defer func() { _ = rc.Close() }()

	done := make(chan decodeResult, 1)
	go func() {
		cfg, _, err := image.DecodeConfig(rc)
		done <- decodeResult{config: cfg, err: err}
	}()

	var res decodeResult
	select {
	case <-ctx.Done():
		return MsgAvatarUnreadable
	case res = <-done:
	}
	if res.err != nil {
		return MsgAvatarUnreadable
	}

	width, height := res.config.Width, res.config.Height
	if width < MinAvatarWidth || height < MinAvatarHeight {
		return msgAvatarTooSmall()
	}
	if width > MaxAvatarWidth || height > MaxAvatarHeight {
		return msgAvatarTooLarge()
	}
	return ""
}

// fileExtension returns the lower-cased text after the last dot, or the whole
// name when it has no dot.
func fileExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ToLower(name)
}

func mediaType(contentType string) string {
	trimmed := strings.TrimSpace(contentType)
	if trimmed == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return trimmed
	}
	return parsed
}
