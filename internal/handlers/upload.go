package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadSize = 5 << 20 // 5MB

type UploadHandler struct {
	Dir string
}

// UploadImage handles POST /api/upload/image. The file lands under the
// configured upload dir with a uuid name; resizing is left to the client.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "No image file provided")
	}

	if file.Size > maxUploadSize {
		return respondError(c, http.StatusBadRequest, "Image must be smaller than 5MB")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return respondError(c, http.StatusBadRequest, "Only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}
	defer src.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(h.Dir, filename))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Image uploaded successfully",
		Data: map[string]any{
			"url":           "/uploads/" + filename,
			"filename":      filename,
			"original_name": file.Filename,
			"size":          written,
		},
	})
}
