package dispatch

import (
	"context"
	"strings"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Sink stores a rendered report at target.
type Sink interface {
	Put(ctx context.Context, target string, body []byte, contentType string) error
}

func IsS3(target string) bool {
	return strings.HasPrefix(target, "s3://")
}
