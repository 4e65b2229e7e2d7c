package api

import (
	"errors"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/i18n"
	"github.com/terraincognita07/pitlane/internal/metrics"
	"github.com/terraincognita07/pitlane/internal/services"
)

// Dependencies is everything the handler needs, built once in main.
type Dependencies struct {
	SecretKey     string
	TemplatesDir  string
	Location      *time.Location
	CookieSecure  bool
	MockBackend   bool
	I18n          *i18n.Manager
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Auth          services.AuthGateway
	Confirmations *services.AccountConfirmations
	Events        *services.EventService
	Gallery       *services.GalleryCatalog
	Blog          *services.BlogService
	Courses       *services.CourseCatalog
	Contact       *services.ContactService
	Now           func() time.Time
}

type Handler struct {
	secretKey     []byte
	location      *time.Location
	cookieSecure  bool
	mockBackend   bool
	i18n          *i18n.Manager
	templates     map[string]*template.Template
	cookies       *cookieSealer
	logger        *zap.Logger
	metrics       *metrics.Metrics
	validator     *services.InputValidator
	auth          services.AuthGateway
	confirmations *services.AccountConfirmations
	events        *services.EventService
	gallery       *services.GalleryCatalog
	blog          *services.BlogService
	courses       *services.CourseCatalog
	contact       *services.ContactService
	now           func() time.Time
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("auth gateway is required")
	}
	if deps.Confirmations == nil || deps.Events == nil || deps.Gallery == nil || deps.Blog == nil || deps.Courses == nil || deps.Contact == nil {
		return nil, errors.New("site services are required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	sealer, err := newCookieSealer([]byte(deps.SecretKey))
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		secretKey:     []byte(deps.SecretKey),
		location:      deps.Location,
		cookieSecure:  deps.CookieSecure,
		mockBackend:   deps.MockBackend,
		i18n:          deps.I18n,
		cookies:       sealer,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		validator:     services.NewInputValidator(),
		auth:          deps.Auth,
		confirmations: deps.Confirmations,
		events:        deps.Events,
		gallery:       deps.Gallery,
		blog:          deps.Blog,
		courses:       deps.Courses,
		contact:       deps.Contact,
		now:           deps.Now,
	}

	templates, err := parsePageTemplates(deps.TemplatesDir, handler.templateFuncMap(), pageTemplates)
	if err != nil {
		return nil, err
	}
	handler.templates = templates
	return handler, nil
}

func (handler *Handler) today() time.Time {
	return dateAtLocation(handler.now(), handler.location)
}

func dateAtLocation(value time.Time, location *time.Location) time.Time {
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
