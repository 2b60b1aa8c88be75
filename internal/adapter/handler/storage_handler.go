package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/errors"
)

const objectURLExpiry = time.Hour

// allowed listing prefixes
var storagePrefixes = []string{"runs/", "plans/"}

// StoredObject is one stored cut list or export plan
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// Storage lists the documents kept in object storage
type Storage struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewStorage creates the storage handler; store must not be nil
func NewStorage(store ObjectStore, logger *zap.Logger) *Storage {
	return &Storage{store: store, logger: logger}
}

// ListObjects lists stored documents under ?prefix= (runs/ or plans/), each
// with a short-lived download URL
func (h *Storage) ListObjects(c echo.Context) error {
	prefix := c.QueryParam("prefix")
	if prefix != "" && !allowedPrefix(prefix) {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("prefix must start with runs/ or plans/"))
	}

	ctx := c.Request().Context()
	keys, err := h.store.ListObjects(ctx, prefix)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("list objects", err))
	}

	out := make([]StoredObject, 0, len(keys))
	for _, key := range keys {
		obj := StoredObject{Key: key}
		u, err := h.store.GetFileURL(ctx, key, objectURLExpiry)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("failed to presign object", zap.String("key", key), zap.Error(err))
			}
		} else {
			obj.URL = u
		}
		out = append(out, obj)
	}
	return HandleSuccess(h.logger, c, out)
}

func allowedPrefix(prefix string) bool {
	for _, p := range storagePrefixes {
		if strings.HasPrefix(prefix, p) {
			return true
		}
	}
	return false
}
