package file

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fileshare/internal/middleware"
	"fileshare/internal/pkg/response"
)

// Handler manages all HTTP interactions for files. Every route is
// protected; the requester identity comes from the auth middleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	files := protected.Group("/files")
	{
		files.POST("/upload", h.Upload)
		files.GET("", h.ListMy)
		files.GET("/:fileId", h.GetDetail)
		files.GET("/download/:fileId", h.Download)
		files.DELETE("/:fileId", h.Delete)
	}
}

func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.UserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "no file provided, send a file under the 'file' form field")
		return
	}

	f, err := h.service.Upload(c.Request.Context(), userID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			response.ErrorWithDetails(c, http.StatusBadRequest, "UNSUPPORTED_TYPE",
				fmt.Sprintf("allowed extensions: %s", strings.Join(AllowedExtensionList(), ", ")),
				gin.H{"allowed_extensions": AllowedExtensionList()})
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				fmt.Sprintf("maximum allowed size is %.0fMB, your file is %.2fMB",
					float64(h.service.MaxSize())/1024/1024,
					float64(fileHeader.Size)/1024/1024))
		case errors.Is(err, ErrStorageFailure):
			response.Error(c, http.StatusInternalServerError, "STORAGE_FAILURE", "failed to store file")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to upload file")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"file": summaryOf(f)})
}

func (h *Handler) ListMy(c *gin.Context) {
	userID := middleware.UserID(c)

	files, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list files")
		return
	}

	out := make([]FileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, summaryOf(f))
	}

	response.Success(c, http.StatusOK, gin.H{
		"count": len(out),
		"files": out,
	})
}

func (h *Handler) GetDetail(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), fileID, userID)
	if err != nil {
		h.writeFileError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"file": detailOf(f)})
}

func (h *Handler) Download(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	f, path, err := h.service.Download(c.Request.Context(), fileID, userID)
	if err != nil {
		h.writeFileError(c, err)
		return
	}

	c.FileAttachment(path, f.OriginalName)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), fileID, userID); err != nil {
		h.writeFileError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted_file_id": fileID})
}

func (h *Handler) writeFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrFileNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "you do not have access to this file")
	case errors.Is(err, ErrMissingOnDisk):
		response.Error(c, http.StatusNotFound, "NOT_FOUND_ON_DISK", "file is registered but missing from storage")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "file operation failed")
	}
}

func fileIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("fileId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid file id")
		return 0, false
	}
	return id, true
}
