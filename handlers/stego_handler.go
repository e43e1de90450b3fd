// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wiseaidev/stegano/crypto"
	"github.com/wiseaidev/stegano/models"
	"github.com/wiseaidev/stegano/payload"
	"github.com/wiseaidev/stegano/pngparser"
	"github.com/wiseaidev/stegano/report"
	"github.com/wiseaidev/stegano/stego"
)

const mimeOctetStream = "application/octet-stream"

type StegoHandler struct {
	maxUpload int64
	chunkType [4]byte
	logger    *logrus.Logger
}

func NewStegoHandler(maxUpload int64, chunkType [4]byte, logger *logrus.Logger) *StegoHandler {
	if chunkType == ([4]byte{}) {
		chunkType = stego.DefaultChunkType
	}
	return &StegoHandler{
		maxUpload: maxUpload,
		chunkType: chunkType,
		logger:    logger,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Steganography API is running",
		"version": "1.0.0",
	})
}

func (h *StegoHandler) fail(c *gin.Context, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	h.log(c).WithField("status", status).Warn(msg)
	c.JSON(status, models.StegoResponse{
		Success:   false,
		Message:   msg,
		RequestID: c.GetString(requestIDKey),
	})
}

func (h *StegoHandler) log(c *gin.Context) *logrus.Entry {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

// readUpload returns the content and file name of a multipart file field.
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func statusFor(err error) int {
	if errors.Is(err, stego.ErrInvalidCarrier) || errors.Is(err, stego.ErrUnknownFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *StegoHandler) InjectPayload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(c, http.StatusBadRequest, "Failed to parse form: %v", err)
		return
	}

	var req models.StegoRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request: %v", err)
		return
	}
	if err := crypto.ValidateKey(req.Key); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid key: %v", err)
		return
	}

	off, err := stego.ParseOffset(req.Offset)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "%v", err)
		return
	}
	opts := stego.Options{ChunkType: h.chunkType}
	if opts.Format, err = stego.ParseFormat(req.Format); err != nil {
		h.fail(c, http.StatusBadRequest, "%v", err)
		return
	}
	if req.ChunkType != "" {
		if opts.ChunkType, err = pngparser.ParseChunkType(req.ChunkType); err != nil {
			h.fail(c, http.StatusBadRequest, "Invalid chunk type: %v", err)
			return
		}
	}

	carrier, carrierName, err := readUpload(c, "carrier_file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Carrier file is required")
		return
	}

	secret := []byte(req.Payload)
	if file, _, err := readUpload(c, "secret_file"); err == nil {
		secret = file
	}
	if len(secret) == 0 {
		h.fail(c, http.StatusBadRequest, "Either payload or secret_file is required")
		return
	}
	plainLength := len(secret)
	if req.Compress {
		if secret, err = payload.Compress(secret); err != nil {
			h.fail(c, http.StatusInternalServerError, "Failed to compress payload: %v", err)
			return
		}
	}

	res, err := stego.Inject(carrier, []byte(req.Key), secret, off, opts)
	if err != nil {
		h.fail(c, statusFor(err), "Failed to inject payload: %v", err)
		return
	}

	h.log(c).WithFields(logrus.Fields{
		"format":  res.Format.String(),
		"offset":  res.Offset,
		"payload": plainLength,
		"stored":  len(secret),
	}).Info("payload injected")

	baseFilename := strings.TrimSuffix(carrierName, filepath.Ext(carrierName))
	outputFilename := fmt.Sprintf("%s_stego%s", baseFilename, filepath.Ext(carrierName))

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("X-Stego-Offset", strconv.FormatUint(res.Offset, 10))
	c.Header("X-Stego-Format", res.Format.String())
	c.Header("X-Stego-Payload-Length", strconv.Itoa(len(secret)))

	c.Data(http.StatusOK, res.Format.ContentType(), res.Data)
}

// ExtractPayload answers with the raw secret, or with an ExtractResponse
// when the client prefers JSON.
func (h *StegoHandler) ExtractPayload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(c, http.StatusBadRequest, "Failed to parse form: %v", err)
		return
	}

	var req models.ExtractRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request: %v", err)
		return
	}
	if err := crypto.ValidateKey(req.Key); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid key: %v", err)
		return
	}

	off, err := stego.ParseOffset(req.Offset)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "%v", err)
		return
	}
	var opts stego.Options
	if opts.Format, err = stego.ParseFormat(req.Format); err != nil {
		h.fail(c, http.StatusBadRequest, "%v", err)
		return
	}

	stegoData, _, err := readUpload(c, "stego_file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Stego file is required")
		return
	}

	res, err := stego.Extract(stegoData, []byte(req.Key), off, opts)
	if err != nil {
		h.fail(c, statusFor(err), "Failed to extract payload: %v", err)
		return
	}

	if req.Compress {
		if res.Data, err = payload.Decompress(res.Data); err != nil {
			h.fail(c, http.StatusUnprocessableEntity, "Failed to decompress payload, check key and offset: %v", err)
			return
		}
	}

	h.log(c).WithFields(logrus.Fields{
		"format": res.Format.String(),
		"offset": res.Offset,
		"length": len(res.Data),
	}).Info("payload extracted")

	c.Header("X-Stego-Offset", strconv.FormatUint(res.Offset, 10))
	c.Header("X-Stego-Length", strconv.Itoa(len(res.Data)))

	if c.NegotiateFormat(mimeOctetStream, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, models.ExtractResponse{
			Success: true,
			Message: "Payload extracted",
			Offset:  res.Offset,
			Length:  len(res.Data),
			Text:    strings.ToValidUTF8(string(res.Data), "�"),
		})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", "attachment; filename=secret.bin")
	c.Data(http.StatusOK, mimeOctetStream, res.Data)
}

// DescribeImage returns the chunk or segment layout of an uploaded image.
func (h *StegoHandler) DescribeImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(c, http.StatusBadRequest, "Failed to parse form: %v", err)
		return
	}

	var req models.MetaRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request: %v", err)
		return
	}
	format, err := stego.ParseFormat(req.Format)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "%v", err)
		return
	}

	data, _, err := readUpload(c, "image_file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Image file is required")
		return
	}

	window := report.Window{Start: req.Start, End: req.End, Count: req.Count}
	meta, err := report.Describe(data, format, window)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Failed to parse image: %v", err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
