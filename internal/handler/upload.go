package handler

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/storage"
)

// maxUploadBytes caps accepted images at 10 MiB, matching what phone
// cameras produce after client-side downscaling.
const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// UploadHandler receives multipart image uploads and stores them in the
// object store under dictation-images/.
type UploadHandler struct {
	Store storage.ObjectStore
}

func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload accepts a single "file" part and returns the public URL of the
// stored object.
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	contentType := fh.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		// Fall back to the filename extension for clients that send
		// application/octet-stream.
		ext = strings.ToLower(path.Ext(fh.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType, ext = "image/jpeg", ".jpg"
		case ".png":
			contentType = "image/png"
		case ".webp":
			contentType = "image/webp"
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
		}
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	if len(data) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	key := "dictation-images/" + storage.RandomSuffix(16) + ext
	url, err := h.Store.Put(c.Request().Context(), key, data, contentType)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "store upload failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
