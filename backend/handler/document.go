package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type DocumentHandler struct {
	workspaces WorkspaceProvider
}

func NewDocumentHandler(workspaces WorkspaceProvider) *DocumentHandler {
	return &DocumentHandler{workspaces: workspaces}
}

// DocumentsPage is the document management screen.
type DocumentsPage struct {
	Header    service.Header           `json:"header"`
	Progress  service.Progress         `json:"progress"`
	Required  []model.RequiredDocument `json:"requiredDocuments"`
	Documents []model.Document         `json:"documents"`
	Stats     service.DocumentStats    `json:"stats"`
	CanSubmit bool                     `json:"canSubmit"`
}

func documentsPage(ws *service.Workspace) DocumentsPage {
	d := ws.Documents
	return DocumentsPage{
		Header:    d.Header(),
		Progress:  d.Progress(),
		Required:  d.Required(),
		Documents: d.List(),
		Stats:     d.Stats(),
		CanSubmit: d.Unlocked(),
	}
}

var documentContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// List returns the documents screen
func (h *DocumentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, documentsPage(currentWorkspace(c, h.workspaces)))
}

// Upload handles a multipart upload with fields "name" and "file"
func (h *DocumentHandler) Upload(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document name is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = documentContentTypes[strings.ToLower(filepath.Ext(header.Filename))]
	}

	doc, err := currentWorkspace(c, h.workspaces).Documents.Upload(c.Request.Context(), service.UploadInput{
		Name:        name,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete removes a document. Unknown ids answer 200 with deleted=false.
func (h *DocumentHandler) Delete(c *gin.Context) {
	deleted := currentWorkspace(c, h.workspaces).Documents.Delete(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// DownloadURL answers a link to the uploaded file
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	url, err := currentWorkspace(c, h.workspaces).Documents.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Submit sends the documents for finance approval
func (h *DocumentHandler) Submit(c *gin.Context) {
	if err := currentWorkspace(c, h.workspaces).Documents.SubmitForApproval(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submitted": true})
}
