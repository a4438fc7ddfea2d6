package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"f2g/internal/converter"
	"f2g/internal/fit"
	"f2g/internal/models"
	"f2g/internal/providers"
	"f2g/internal/services"
	"f2g/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	multipartOverhead  = 64 << 10
	apiVersion         = "1.0.0"
)

type ApiController struct {
	logger      providers.Logger
	conversions services.ConversionServiceInterface
	usage       services.UsageServiceInterface
	conf        *structures.Config
}

func NewApiController(conf *structures.Config, logger providers.Logger, conversions services.ConversionServiceInterface, usage services.UsageServiceInterface) *ApiController {
	return &ApiController{
		logger:      logger,
		conversions: conversions,
		usage:       usage,
		conf:        conf,
	}
}

type infoResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, code, msg, details string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg, Details: details, ErrorCode: code})
}

// fail maps service and conversion errors onto HTTP responses.
func (ac *ApiController) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		uploadErr   *services.UploadError
		limitErr    *services.LimitExceededError
		formatErr   *converter.InvalidFormatError
		overflowErr *fit.EncodingOverflowError
	)
	logType := providers.GetLogTypeByRequestType(r.Method)
	switch {
	case errors.As(err, &uploadErr):
		writeError(w, http.StatusBadRequest, "UPLOAD_REJECTED", uploadErr.Message, "")
	case errors.As(err, &formatErr):
		writeError(w, http.StatusBadRequest, "INVALID_FORMAT", "Invalid file format", err.Error())
	case errors.As(err, &limitErr):
		ac.logger.Debugf(logType, "Limit reached for %s: %s", providers.ClientIP(r, ac.conf.RateLimit.TrustProxy), err)
		writeError(w, http.StatusTooManyRequests, "LIMIT_EXCEEDED",
			fmt.Sprintf("Daily limit exceeded. Used %d/%d conversions.", limitErr.Used, limitErr.Limit), "")
	case errors.Is(err, services.ErrSuspiciousActivity):
		writeError(w, http.StatusTooManyRequests, "SUSPICIOUS_ACTIVITY", "Suspicious activity detected. Please try again later.", "")
	case errors.Is(err, services.ErrUploadNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Upload ID not found", "")
	case errors.Is(err, services.ErrConversionNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Conversion ID not found", "")
	case errors.Is(err, services.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "File not found", "")
	case errors.As(err, &overflowErr):
		ac.logger.Errorf(logType, "%s %s: %s", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "ENCODING_OVERFLOW", "Conversion failed", err.Error())
	default:
		ac.logger.Errorf(logType, "%s %s: %s", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error", "")
	}
}

func (ac *ApiController) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Message: "Fitbit to Garmin Converter API",
		Status:  "running",
		Version: apiVersion,
	})
}

func (ac *ApiController) Usage(w http.ResponseWriter, r *http.Request) {
	fp := services.UsageFingerprint(r.PathValue("fingerprint"), r.UserAgent())
	if err := fp.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation error", err.Error())
		return
	}
	stats, err := ac.usage.GetUsageStats(fp, providers.ClientIP(r, ac.conf.RateLimit.TrustProxy))
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (ac *ApiController) Upload(w http.ResponseWriter, r *http.Request) {
	maxBody := int64(ac.conf.Upload.MaxFiles)*ac.conf.Upload.MaxFileSize + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxBody); err != nil {
		writeError(w, http.StatusBadRequest, "UPLOAD_REJECTED", "Invalid multipart upload", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	files := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			ac.fail(w, r, err)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			ac.fail(w, r, err)
			return
		}
		files = append(files, models.UploadedFile{Filename: fh.Filename, Data: data})
	}

	resp, err := ac.conversions.Upload(files)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) Validate(w http.ResponseWriter, r *http.Request) {
	uploadID := r.URL.Query().Get("upload_id")
	if uploadID == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation error", "upload_id is required")
		return
	}
	results, err := ac.conversions.Validate(uploadID)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (ac *ApiController) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Bad Request", err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation error", err.Error())
		return
	}

	resp, err := ac.conversions.Convert(payload.UploadID, payload.Fingerprint, providers.ClientIP(r, ac.conf.RateLimit.TrustProxy))
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) Download(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	data, err := ac.conversions.Download(r.PathValue("conversion"), filename)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
