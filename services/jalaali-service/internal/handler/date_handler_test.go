package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metargb/jalaali/services/jalaali-service/internal/models"
	"metargb/jalaali/services/jalaali-service/internal/service"
	"metargb/jalaali/shared/pkg/jalaali"
	"metargb/jalaali/shared/pkg/logger"
)

// Mock DateService
type mockDateService struct {
	parseFunc          func(ctx context.Context, text, separator string) (jalaali.DateTime, error)
	formatFunc         func(ctx context.Context, date, pattern, templateName string) (string, error)
	fromCompactFunc    func(value string) (jalaali.DateTime, error)
	ramadanFunc        func(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error)
	getTemplateFunc    func(ctx context.Context, name string) (*models.FormatTemplate, error)
	listTemplatesFunc  func(ctx context.Context) ([]*models.FormatTemplate, error)
	saveTemplateFunc   func(ctx context.Context, name, pattern, description string) (*models.FormatTemplate, error)
	deleteTemplateFunc func(ctx context.Context, name string) error
}

var errNotImplemented = errors.New("not implemented")

var azar14 = jalaali.MustDate(1393, 9, 14, 13, 50, 27, 0)

func (m *mockDateService) Parse(ctx context.Context, text, separator string) (jalaali.DateTime, error) {
	if m.parseFunc != nil {
		return m.parseFunc(ctx, text, separator)
	}
	return jalaali.MinValue, errNotImplemented
}

func (m *mockDateService) Format(ctx context.Context, date, pattern, templateName string) (string, error) {
	if m.formatFunc != nil {
		return m.formatFunc(ctx, date, pattern, templateName)
	}
	return "", errNotImplemented
}

func (m *mockDateService) FromCompact(value string) (jalaali.DateTime, error) {
	if m.fromCompactFunc != nil {
		return m.fromCompactFunc(value)
	}
	return jalaali.MinValue, errNotImplemented
}

func (m *mockDateService) Ramadan(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error) {
	if m.ramadanFunc != nil {
		return m.ramadanFunc(ctx, date, adjustment)
	}
	return nil, errNotImplemented
}

func (m *mockDateService) Now() jalaali.DateTime {
	return azar14
}

func (m *mockDateService) GetTemplate(ctx context.Context, name string) (*models.FormatTemplate, error) {
	if m.getTemplateFunc != nil {
		return m.getTemplateFunc(ctx, name)
	}
	return nil, errNotImplemented
}

func (m *mockDateService) ListTemplates(ctx context.Context) ([]*models.FormatTemplate, error) {
	if m.listTemplatesFunc != nil {
		return m.listTemplatesFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockDateService) SaveTemplate(ctx context.Context, name, pattern, description string) (*models.FormatTemplate, error) {
	if m.saveTemplateFunc != nil {
		return m.saveTemplateFunc(ctx, name, pattern, description)
	}
	return nil, errNotImplemented
}

func (m *mockDateService) DeleteTemplate(ctx context.Context, name string) error {
	if m.deleteTemplateFunc != nil {
		return m.deleteTemplateFunc(ctx, name)
	}
	return errNotImplemented
}

func serve(t *testing.T, svc DateService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	NewDateHandler(svc, logger.New("jalaali", "error", io.Discard)).Register(mux)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDateHandler_Parse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotText, gotSep string
		svc := &mockDateService{
			parseFunc: func(ctx context.Context, text, separator string) (jalaali.DateTime, error) {
				gotText, gotSep = text, separator
				return azar14, nil
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/parse", `{"text":"14 آذر 1393","separator":"\\."}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "14 آذر 1393", gotText)
		assert.Equal(t, `\.`, gotSep)

		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, float64(1393), data["year"])
		assert.Equal(t, float64(9), data["month"])
		assert.Equal(t, "آذر", data["month_name"])
		assert.Equal(t, "جمعه", data["weekday"])
		assert.Equal(t, float64(13930914), data["compact"])
		assert.Equal(t, "1393/09/14 13:50:27", data["formatted"])
	})

	t.Run("missing text", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodPost, "/api/jalaali/parse", `{}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "text")
	})

	t.Run("invalid separator", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodPost, "/api/jalaali/parse", `{"text":"1393/09/14","separator":"("}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "separator")
	})

	t.Run("unparseable text", func(t *testing.T) {
		svc := &mockDateService{
			parseFunc: func(ctx context.Context, text, separator string) (jalaali.DateTime, error) {
				return jalaali.MinValue, &jalaali.FormatError{Input: text, Reason: "month name not found"}
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/parse", `{"text":"hello"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["message"], "month name not found")
	})

	t.Run("out of range", func(t *testing.T) {
		svc := &mockDateService{
			parseFunc: func(ctx context.Context, text, separator string) (jalaali.DateTime, error) {
				return jalaali.Date(1393, 13, 1)
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/parse", `{"text":"1393/13/01"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodPost, "/api/jalaali/parse", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodGet, "/api/jalaali/parse", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestDateHandler_Format(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockDateService{
			formatFunc: func(ctx context.Context, date, pattern, templateName string) (string, error) {
				assert.Equal(t, "1393/09/14", date)
				assert.Equal(t, "", pattern)
				assert.Equal(t, "short", templateName)
				return "93/9/14", nil
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/format", `{"date":"1393/09/14","template":"short"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "93/9/14", decodeBody(t, rec)["formatted"])
	})

	t.Run("pattern without tokens", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodPost, "/api/jalaali/format", `{"date":"1393/09/14","pattern":"???"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "pattern")
	})

	t.Run("unknown template", func(t *testing.T) {
		svc := &mockDateService{
			formatFunc: func(ctx context.Context, date, pattern, templateName string) (string, error) {
				return "", service.ErrTemplateNotFound
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/format", `{"date":"1393/09/14","template":"missing"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		svc := &mockDateService{
			formatFunc: func(ctx context.Context, date, pattern, templateName string) (string, error) {
				return "", errors.New("failed to load template: connection refused")
			},
		}

		rec := serve(t, svc, http.MethodPost, "/api/jalaali/format", `{"date":"1393/09/14","template":"short"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
	})
}

func TestDateHandler_Compact(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockDateService{
			fromCompactFunc: func(value string) (jalaali.DateTime, error) {
				assert.Equal(t, "۱۳۹۲۰۳۰۵", value)
				return jalaali.MustDate(1392, 3, 5), nil
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/compact?value="+url.QueryEscape("۱۳۹۲۰۳۰۵"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, float64(13920305), data["compact"])
	})

	t.Run("not a number", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodGet, "/api/jalaali/compact?value=abc", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "value")
	})

	t.Run("wrong length", func(t *testing.T) {
		svc := &mockDateService{
			fromCompactFunc: func(value string) (jalaali.DateTime, error) {
				return jalaali.ParseInt(139205)
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/compact?value=139205", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDateHandler_Ramadan(t *testing.T) {
	t.Run("with adjustment", func(t *testing.T) {
		var got *int
		svc := &mockDateService{
			ramadanFunc: func(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error) {
				got = adjustment
				assert.Equal(t, "1369/03/11", date)
				return []jalaali.DateTime{jalaali.MustDate(1369, 1, 8), jalaali.MustDate(1369, 12, 26)}, nil
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/ramadan?date=1369/03/11&adjustment=-1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, -1, *got)

		data := decodeBody(t, rec)["data"].([]interface{})
		assert.Len(t, data, 2)
	})

	t.Run("default adjustment", func(t *testing.T) {
		svc := &mockDateService{
			ramadanFunc: func(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error) {
				assert.Nil(t, adjustment)
				return []jalaali.DateTime{jalaali.MustDate(1403, 12, 10)}, nil
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/ramadan", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad adjustment", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodGet, "/api/jalaali/ramadan?adjustment=x", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Equal(t, "The adjustment field is invalid", errs["adjustment"])
	})
}

func TestDateHandler_Now(t *testing.T) {
	rec := serve(t, &mockDateService{}, http.MethodGet, "/api/jalaali/now?pattern=yyyy-MM-dd", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1393-09-14", decodeBody(t, rec)["formatted"])
}

func TestDateHandler_Templates(t *testing.T) {
	short := &models.FormatTemplate{Name: "short", Pattern: "yy/M/d", UpdatedAt: azar14}

	t.Run("list", func(t *testing.T) {
		svc := &mockDateService{
			listTemplatesFunc: func(ctx context.Context) ([]*models.FormatTemplate, error) {
				return []*models.FormatTemplate{short}, nil
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/templates", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeBody(t, rec)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "93/9/14", data[0].(map[string]interface{})["example"])
	})

	t.Run("get", func(t *testing.T) {
		svc := &mockDateService{
			getTemplateFunc: func(ctx context.Context, name string) (*models.FormatTemplate, error) {
				assert.Equal(t, "short", name)
				return short, nil
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/templates/short", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		svc := &mockDateService{
			getTemplateFunc: func(ctx context.Context, name string) (*models.FormatTemplate, error) {
				return nil, service.ErrTemplateNotFound
			},
		}

		rec := serve(t, svc, http.MethodGet, "/api/jalaali/templates/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("save", func(t *testing.T) {
		svc := &mockDateService{
			saveTemplateFunc: func(ctx context.Context, name, pattern, description string) (*models.FormatTemplate, error) {
				assert.Equal(t, "short", name)
				assert.Equal(t, "yy/M/d", pattern)
				assert.Equal(t, "compact", description)
				return short, nil
			},
		}

		rec := serve(t, svc, http.MethodPut, "/api/jalaali/templates/short", `{"pattern":"yy/M/d","description":"compact"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "short", data["name"])
	})

	t.Run("save without pattern", func(t *testing.T) {
		rec := serve(t, &mockDateService{}, http.MethodPut, "/api/jalaali/templates/short", `{}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		errs := decodeBody(t, rec)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "pattern")
	})

	t.Run("delete", func(t *testing.T) {
		svc := &mockDateService{
			deleteTemplateFunc: func(ctx context.Context, name string) error { return nil },
		}

		rec := serve(t, svc, http.MethodDelete, "/api/jalaali/templates/short", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		svc := &mockDateService{
			deleteTemplateFunc: func(ctx context.Context, name string) error { return service.ErrTemplateNotFound },
		}

		rec := serve(t, svc, http.MethodDelete, "/api/jalaali/templates/short", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
