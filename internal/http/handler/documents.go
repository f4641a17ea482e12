package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"xdapi/internal/service"
)

func parseID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments returns stored containers, newest first.
//
// @Summary  List containers
// @Tags     documents
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "offset"    default(0)
// @Param    manifest query string false "manifest name filter"
// @Success  200 {object} service.DocumentListResult
// @Failure  400 {object} errorPayload
// @Router   /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset, c.Query("manifest"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument validates and stores an XD container (multipart/form-data, field name: file).
//
// @Summary  Upload container
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "XD container"
// @Success  201 {object} model.Document
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns a stored container's metadata.
//
// @Summary  Get container
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} model.Document
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a container and its metadata.
//
// @Summary  Delete container
// @Tags     documents
// @Param    id path string true "document id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListArtboards returns every artboard of a container with its nodes in pre-order.
//
// @Summary  Artboard trees
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {array}  service.ArtboardView
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/artboards [get]
func ListArtboards(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		views, err := docSvc.Artboards(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// GetResource streams the raw bytes of resources/{uid}.
//
// @Summary  Resource bytes
// @Tags     documents
// @Produce  octet-stream
// @Param    id  path string true "document id"
// @Param    uid path string true "resource uid"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/resources/{uid} [get]
func GetResource(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		data, err := docSvc.Resource(c.UserContext(), id, c.Params("uid"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		return c.Send(data)
	}
}

// DownloadDocument redirects to a presigned URL for the raw container.
//
// @Summary  Download container
// @Tags     documents
// @Param    id path string true "document id"
// @Success  302
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService, expiry time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := docSvc.DownloadURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
