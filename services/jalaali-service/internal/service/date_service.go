package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"metargb/jalaali/services/jalaali-service/internal/models"
	"metargb/jalaali/services/jalaali-service/internal/repository"
	"metargb/jalaali/shared/pkg/helpers"
	"metargb/jalaali/shared/pkg/jalaali"
	"metargb/jalaali/shared/pkg/logger"
)

// ErrTemplateNotFound is returned when a named format template does not exist
var ErrTemplateNotFound = repository.ErrTemplateNotFound

// Recorder receives parse and format outcomes
type Recorder interface {
	RecordParse(kind string, err error)
	RecordFormat(source string)
}

// Options holds the defaults applied when a request leaves them out
type Options struct {
	DefaultSeparator string
	HijriAdjustment  int
	TemplateCacheTTL time.Duration
}

// DateService parses, formats and converts Jalaali dates and manages the
// persisted format templates
type DateService struct {
	templates repository.TemplateRepository
	cache     repository.TemplateCache
	recorder  Recorder
	log       *logger.Logger
	opts      Options
	now       func() time.Time
}

func NewDateService(templates repository.TemplateRepository, cache repository.TemplateCache, recorder Recorder, log *logger.Logger, opts Options) *DateService {
	if opts.DefaultSeparator == "" {
		opts.DefaultSeparator = jalaali.DefaultSeparatorPattern
	}
	return &DateService{
		templates: templates,
		cache:     cache,
		recorder:  recorder,
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
}

// Parse reads free text with the given separator pattern, or the configured default
func (s *DateService) Parse(ctx context.Context, text, separator string) (jalaali.DateTime, error) {
	if separator == "" {
		separator = s.opts.DefaultSeparator
	}

	d, err := jalaali.Parse(text, separator)
	s.recorder.RecordParse("text", err)
	if err != nil {
		s.log.WithRequestID(logger.RequestIDFromContext(ctx)).WithFields(logrus.Fields{
			"input": text,
			"error": err.Error(),
		}).Debug("Failed to parse date")
		return jalaali.MinValue, err
	}
	return d, nil
}

// ResolveDate accepts an RFC 3339 instant or any text Parse understands
func (s *DateService) ResolveDate(ctx context.Context, value string) (jalaali.DateTime, error) {
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value)); err == nil {
		return jalaali.New(t), nil
	}
	return s.Parse(ctx, value, "")
}

// Format renders date with an explicit pattern, a stored template or the default layout.
// A pattern wins over a template name.
func (s *DateService) Format(ctx context.Context, date, pattern, templateName string) (string, error) {
	d, err := s.ResolveDate(ctx, date)
	if err != nil {
		return "", err
	}

	switch {
	case pattern != "":
		s.recorder.RecordFormat("pattern")
	case templateName != "":
		tpl, err := s.GetTemplate(ctx, templateName)
		if err != nil {
			return "", err
		}
		pattern = tpl.Pattern
		s.recorder.RecordFormat("template")
	default:
		s.recorder.RecordFormat("default")
	}
	return d.Format(pattern), nil
}

// FromCompact decodes YYYYMMDD or YYYYMMDDHHmmSSfff numbers. Persian digits are accepted.
func (s *DateService) FromCompact(value string) (jalaali.DateTime, error) {
	n, err := helpers.ParseInt(value)
	if err != nil {
		err = &jalaali.FormatError{Input: value, Reason: "not a number"}
		s.recorder.RecordParse("compact", err)
		return jalaali.MinValue, err
	}

	var d jalaali.DateTime
	if n <= 99999999 {
		d, err = jalaali.ParseInt(int(n))
	} else {
		d, err = jalaali.ParseInt64(n)
	}
	s.recorder.RecordParse("compact", err)
	return d, err
}

// Ramadan returns the Ramadan starts for the Jalaali year of date, or of today
// when date is empty. A nil adjustment uses the configured one.
func (s *DateService) Ramadan(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error) {
	d := jalaali.New(s.now())
	if date != "" {
		var err error
		if d, err = s.ResolveDate(ctx, date); err != nil {
			return nil, err
		}
	}

	adj := s.opts.HijriAdjustment
	if adjustment != nil {
		adj = *adjustment
	}
	return d.StartsOfRamadan(adj)
}

// Now returns the current time
func (s *DateService) Now() jalaali.DateTime {
	return jalaali.New(s.now())
}

// GetTemplate looks the template up in the cache first and fills the cache on a miss.
// Cache failures are logged and fall through to the repository.
func (s *DateService) GetTemplate(ctx context.Context, name string) (*models.FormatTemplate, error) {
	entry := s.log.WithRequestID(logger.RequestIDFromContext(ctx)).WithField("template", name)

	tpl, err := s.cache.Get(ctx, name)
	if err != nil {
		entry.WithError(err).Warn("Template cache read failed")
	}
	if tpl != nil {
		return tpl, nil
	}

	tpl, err = s.templates.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	if err := s.cache.Set(ctx, tpl, s.opts.TemplateCacheTTL); err != nil {
		entry.WithError(err).Warn("Template cache write failed")
	}
	return tpl, nil
}

func (s *DateService) ListTemplates(ctx context.Context) ([]*models.FormatTemplate, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// SaveTemplate creates or replaces the template called name
func (s *DateService) SaveTemplate(ctx context.Context, name, pattern, description string) (*models.FormatTemplate, error) {
	tpl, err := s.templates.Upsert(ctx, &models.FormatTemplate{
		Name:        name,
		Pattern:     pattern,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.invalidate(ctx, name)
	return tpl, nil
}

func (s *DateService) DeleteTemplate(ctx context.Context, name string) error {
	if err := s.templates.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	s.invalidate(ctx, name)
	return nil
}

func (s *DateService) invalidate(ctx context.Context, name string) {
	if err := s.cache.Invalidate(ctx, name); err != nil {
		s.log.WithRequestID(logger.RequestIDFromContext(ctx)).
			WithField("template", name).
			WithError(err).
			Error("Template cache invalidation failed")
	}
}
