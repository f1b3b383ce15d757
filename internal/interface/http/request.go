package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gorilla/mux"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
)

// maxBodyBytes caps JSON request bodies. Frame data can be large.
const maxBodyBytes = 8 << 20

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DTOs
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Password    string         `json:"password" validate:"required,min=8"`
	Name        string         `json:"name" validate:"required,max=100"`
	Phone       *string        `json:"phone" validate:"omitempty,max=32"`
	BirthDate   *string        `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	SkillLevel  string         `json:"skill_level" validate:"omitempty,max=32"`
	Preferences map[string]any `json:"preferences"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name        *string        `json:"name" validate:"omitempty,max=100"`
	Phone       *string        `json:"phone" validate:"omitempty,max=32"`
	BirthDate   *string        `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	SkillLevel  *string        `json:"skill_level" validate:"omitempty,max=32"`
	About       *string        `json:"about" validate:"omitempty,max=2000"`
	Preferences map[string]any `json:"preferences"`

	// legacy /api/users/profile clients send camelCase
	LegacySkillLevel *string `json:"skillLevel" validate:"omitempty,max=32"`
}

func (r updateProfileRequest) toUpdate() (user.ProfileUpdate, error) {
	upd := user.ProfileUpdate{
		Name:        r.Name,
		Phone:       r.Phone,
		About:       r.About,
		Preferences: r.Preferences,
	}

	if r.BirthDate != nil {
		d, err := parseDate(*r.BirthDate)
		if err != nil {
			return upd, err
		}
		upd.BirthDate = &d
	}

	raw := r.SkillLevel
	if raw == nil {
		raw = r.LegacySkillLevel
	}
	if raw != nil {
		lvl, err := user.ParseSkillLevel(*raw)
		if err != nil {
			return upd, err
		}
		upd.SkillLevel = &lvl
	}
	return upd, nil
}

type recordProgressRequest struct {
	LessonID        int64           `json:"lessonId" validate:"required,gt=0"`
	Score           *float64        `json:"score" validate:"required,gte=0,lte=100"`
	Completed       bool            `json:"completed"`
	RecognitionData json.RawMessage `json:"recognitionData"`
}

type recognitionAttemptRequest struct {
	SignID        *int64          `json:"signId" validate:"omitempty,gt=0"`
	FrameData     json.RawMessage `json:"frameData" validate:"required"`
	PredictedSign *string         `json:"predictedSign" validate:"omitempty,max=100"`
	Confidence    *float64        `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

type recognitionFeedbackRequest struct {
	FrameData    []json.RawMessage `json:"frameData" validate:"required"`
	ExpectedSign string            `json:"expectedSign" validate:"max=100"`
}

type markReadRequest struct {
	NotificationIDs []int64 `json:"notificationIds" validate:"required,min=1"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DECODING & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// requestValidator validates DTOs and renders field errors in English.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	// report fields by their JSON name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{validate: validate, trans: trans}
}

// Struct validates v and converts field errors into a validation DomainError.
func (rv *requestValidator) Struct(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.WrapError("http", "Validate", shared.ErrValidation, "invalid request", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(rv.trans))
	}
	return shared.NewDomainError("http", "Validate", shared.ErrValidation, strings.Join(msgs, "; "))
}

// decodeJSON reads the body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewDomainError("http", "Decode", shared.ErrValidation, "request body is required")
		}
		return shared.WrapError("http", "Decode", shared.ErrInvalidFormat, "malformed JSON body", err)
	}
	return s.validator.Struct(dst)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARAMETERS
// ══════════════════════════════════════════════════════════════════════════════

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name, domain string) (int64, error) {
	return shared.ParseEntityID(domain, mux.Vars(r)[name])
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewDomainError("http", "Query", shared.ErrInvalidFormat, fmt.Sprintf("%s must be an integer", key))
	}
	return v, nil
}

// queryIntPtr parses an optional integer; nil when the parameter is absent.
func queryIntPtr(r *http.Request, key string) (*int, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	v, err := queryInt(r, key, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryInt64Ptr parses an optional positive id query parameter.
func queryInt64Ptr(r *http.Request, key, domain string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := shared.ParseEntityID(domain, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, shared.NewDomainError("user", "Validate", shared.ErrInvalidFormat, "birth_date must be YYYY-MM-DD")
	}
	return d, nil
}
