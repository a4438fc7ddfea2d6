package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"f2g/internal/converter"
	"f2g/internal/fit"
	"f2g/internal/models"
	"f2g/internal/providers"
	"f2g/internal/storage"
	"f2g/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	uploadPrefix     = "upload:"
	conversionPrefix = "conversion:"
)

type ConversionServiceInterface interface {
	Upload(files []models.UploadedFile) (*models.UploadResponse, error)
	Validate(uploadID string) ([]models.FileValidationResult, error)
	Convert(uploadID string, fp models.FingerprintData, ip string) (*models.ConversionResponse, error)
	Download(conversionID, filename string) ([]byte, error)
}

type ConversionService struct {
	conf      *structures.Config
	store     storage.Store
	usage     UsageServiceInterface
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	converter *converter.Converter
	newID     func() string
	now       func() time.Time
}

// NewConverterFromConfig builds the pipeline with the configured timestamp
// strategy and file identity.
func NewConverterFromConfig(conf *structures.Config) (*converter.Converter, error) {
	strategy, err := converter.ParseStrategy(conf.Converter.Strategy)
	if err != nil {
		return nil, err
	}
	c := converter.NewConverter(strategy)
	if conf.Converter.ProductName != "" {
		c.Descriptor.ProductName = conf.Converter.ProductName
	}
	if conf.Converter.Manufacturer > 0 {
		c.Descriptor.Manufacturer = uint16(conf.Converter.Manufacturer)
	}
	if conf.Converter.Product > 0 {
		c.Descriptor.Product = uint16(conf.Converter.Product)
	}
	if conf.Converter.SerialNumber > 0 {
		c.Descriptor.SerialNumber = uint32(conf.Converter.SerialNumber)
	}
	return c, nil
}

func NewConversionService(conf *structures.Config, store storage.Store, usage UsageServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) (ConversionServiceInterface, error) {
	c, err := NewConverterFromConfig(conf)
	if err != nil {
		return nil, err
	}
	return &ConversionService{
		conf:      conf,
		store:     store,
		usage:     usage,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		converter: c,
		newID:     uuid.NewString,
		now:       time.Now,
	}, nil
}

func (cs *ConversionService) Upload(files []models.UploadedFile) (*models.UploadResponse, error) {
	if len(files) == 0 {
		return nil, &UploadError{Message: "No files provided"}
	}
	if len(files) > cs.conf.Upload.MaxFiles {
		return nil, &UploadError{Message: fmt.Sprintf("Maximum %d files allowed. Upgrade for bulk processing.", cs.conf.Upload.MaxFiles)}
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Filename, ".json") {
			return nil, &UploadError{Message: fmt.Sprintf("Invalid file type: %s. Only .json files are supported.", f.Filename)}
		}
		if int64(len(f.Data)) > cs.conf.Upload.MaxFileSize {
			return nil, &UploadError{Message: fmt.Sprintf("File too large: %s", f.Filename)}
		}
		if !json.Valid(f.Data) {
			return nil, &UploadError{Message: fmt.Sprintf("Invalid JSON in file: %s", f.Filename)}
		}
	}

	data, err := json.Marshal(files)
	if err != nil {
		return nil, err
	}
	uploadID := cs.newID()
	if err := cs.store.Set(uploadPrefix+uploadID, data, cs.conf.Upload.TTL); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	cs.logger.Infof(providers.TypePost, "Upload %s: %d files", uploadID, len(files))

	return &models.UploadResponse{
		UploadID:      uploadID,
		FilesReceived: len(files),
		Message:       fmt.Sprintf("Successfully uploaded %d files", len(files)),
	}, nil
}

func (cs *ConversionService) loadUpload(uploadID string) ([]models.UploadedFile, error) {
	data, ok, err := cs.store.Get(uploadPrefix + uploadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUploadNotFound
	}
	var files []models.UploadedFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("decode upload %s: %w", uploadID, err)
	}
	return files, nil
}

func parseInputs(files []models.UploadedFile) ([]converter.Input, error) {
	inputs := make([]converter.Input, 0, len(files))
	for _, f := range files {
		var data any
		if err := json.Unmarshal(f.Data, &data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Filename, err)
		}
		inputs = append(inputs, converter.Input{Name: f.Filename, Data: data})
	}
	return inputs, nil
}

func (cs *ConversionService) Validate(uploadID string) ([]models.FileValidationResult, error) {
	files, err := cs.loadUpload(uploadID)
	if err != nil {
		return nil, err
	}
	inputs, err := parseInputs(files)
	if err != nil {
		return nil, err
	}

	results := make([]models.FileValidationResult, 0, len(inputs))
	for _, in := range inputs {
		s := converter.Describe(in.Name, in.Data)
		res := models.FileValidationResult{Filename: in.Name, IsValid: s.Valid()}
		if s.Valid() {
			entries, dateRange := s.Entries, s.DateRange
			res.EntryCount, res.DateRange = &entries, &dateRange
		} else {
			msg := validationMessage(s.Err)
			res.ErrorMessage = &msg
		}
		results = append(results, res)
	}
	return results, nil
}

func validationMessage(err error) string {
	var ife *converter.InvalidFormatError
	if errors.As(err, &ife) {
		if len(ife.Missing) > 0 {
			return "Missing required fields: " + strings.Join(ife.Missing, ", ")
		}
		return "File must contain an array of weight entries"
	}
	return "Validation error: " + err.Error()
}

func (cs *ConversionService) Convert(uploadID string, fp models.FingerprintData, ip string) (*models.ConversionResponse, error) {
	files, err := cs.loadUpload(uploadID)
	if err != nil {
		return nil, err
	}

	ok, rec, err := cs.usage.CheckRateLimit(fp, ip)
	if err != nil {
		return nil, err
	}
	if !ok {
		cs.metrics.IncRejected("daily_limit")
		return nil, &LimitExceededError{Used: rec.ConversionsCount, Limit: cs.conf.Limits.DailyLimit}
	}
	suspicious, err := cs.usage.DetectSuspicious(ip)
	if err != nil {
		return nil, err
	}
	if suspicious {
		cs.metrics.IncRejected("suspicious")
		return nil, ErrSuspiciousActivity
	}

	inputs, err := parseInputs(files)
	if err != nil {
		return nil, err
	}
	outputs, err := cs.converter.Convert(inputs)
	if err != nil {
		cs.metrics.IncConversions(conversionResult(err))
		cs.logger.Warnf(providers.TypePost, "Conversion of upload %s failed: %s", uploadID, err)
		return nil, err
	}

	resp, err := cs.storeOutputs(uploadID, outputs)
	if err != nil {
		cs.metrics.IncConversions("error")
		return nil, err
	}
	if _, err := cs.usage.RecordConversion(fp, ip); err != nil {
		cs.logger.Errorf(providers.TypeApp, "Recording usage for %s failed: %s", ip, err)
	}
	cs.metrics.IncConversions("ok")
	cs.metrics.AddRecordsConverted(resp.TotalEntries, resp.SkippedEntries)
	cs.logger.Infof(providers.TypePost, "Conversion %s: %d files, %d records, %d skipped", resp.ConversionID, resp.FilesConverted, resp.TotalEntries, resp.SkippedEntries)
	return resp, nil
}

func conversionResult(err error) string {
	var overflow *fit.EncodingOverflowError
	switch {
	case errors.Is(err, converter.ErrInvalidFormat):
		return "invalid"
	case errors.As(err, &overflow):
		return "overflow"
	}
	return "error"
}

func fileKey(conversionID, name string) string {
	return conversionPrefix + conversionID + ":file:" + name
}

func (cs *ConversionService) storeOutputs(uploadID string, outputs []converter.Output) (*models.ConversionResponse, error) {
	conversionID := cs.newID()
	ttl := cs.conf.Storage.ConversionTTL
	manifest := models.StoredConversion{
		ConversionID: conversionID,
		UploadID:     uploadID,
		CreatedAt:    cs.now().UTC(),
	}
	resp := &models.ConversionResponse{ConversionID: conversionID, DownloadURLs: make([]string, 0, len(outputs))}

	taken := make(map[string]bool, len(outputs))
	for _, out := range outputs {
		name := converter.UniqueName(out.Name, taken)
		taken[name] = true
		if err := cs.store.Set(fileKey(conversionID, name), out.Bytes, ttl); err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}
		manifest.Files = append(manifest.Files, models.ConvertedFile{
			Name:    name,
			Size:    len(out.Bytes),
			Records: out.Records,
			Skipped: len(out.Skipped),
		})
		resp.DownloadURLs = append(resp.DownloadURLs, "/download/"+conversionID+"/"+url.PathEscape(name))
		resp.TotalEntries += out.Records
		resp.SkippedEntries += len(out.Skipped)
		for _, skip := range out.Skipped {
			cs.logger.Debugf(providers.TypePost, "Skipped %s", skip)
		}
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	if err := cs.store.Set(conversionPrefix+conversionID, data, ttl); err != nil {
		return nil, fmt.Errorf("store conversion: %w", err)
	}

	resp.FilesConverted = len(outputs)
	resp.Message = fmt.Sprintf("Successfully converted %d files", len(outputs))
	return resp, nil
}

func (cs *ConversionService) Download(conversionID, filename string) ([]byte, error) {
	cacheKey := conversionID + "/" + filename
	if data, ok := cs.cache.Get(cacheKey); ok {
		return data, nil
	}

	data, ok, err := cs.store.Get(conversionPrefix + conversionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConversionNotFound
	}
	var manifest models.StoredConversion
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode conversion %s: %w", conversionID, err)
	}
	if !manifest.HasFile(filename) {
		return nil, ErrFileNotFound
	}

	body, ok, err := cs.store.Get(fileKey(conversionID, filename))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrFileNotFound
	}
	cs.cache.Set(cacheKey, body)
	return body, nil
}
