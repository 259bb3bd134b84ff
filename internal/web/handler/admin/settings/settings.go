// Package settings provides the admin pages for managing the typed
// application settings.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/setting"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/db/store"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/forms"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/middleware/txn"
	"github.com/GoAdminBase/GoAdminBase/internal/web/navigation"
)

const (
	// Path is the base path for settings management.
	Path = handler.RootPath + "admin/settings"

	// TemplateList is the template for listing settings.
	TemplateList = "admin/settings/list"
	// TemplateForm is the template for creating a setting.
	TemplateForm = "admin/settings/form"
)

// settingForm is the validated shape of the create form.
type settingForm struct {
	Key         string `validate:"required,max=100"`
	Datatype    string `validate:"required,oneof=int float boolean string"`
	Value       string `validate:"required"`
	Description string `validate:"max=255"`
}

// Service provides CRUD operations for settings.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/new", s.New)
		router.Get("/export", s.Export)
		router.Post(handler.RouterRootPath, s.Create)
		router.Post("/update", s.Update)
		router.Post("/delete", s.Delete)
	})

	return nil
}

// List shows all settings ordered by key.
func (s *Service) List(c *fiber.Ctx) error {
	settings, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query settings failed")

		return fiber.ErrInternalServerError
	}

	return c.Render(TemplateList, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  navigation.Admin("Settings", "settings"),
		"CurrentUser": c.Locals(handler.LocalCurrentUser),
		"Flash":       flash.Get(c),
		"Settings":    settings,
	}, handler.BaseLayout)
}

// Export returns all settings as a JSON document built from entity
// snapshots.
func (s *Service) Export(c *fiber.Ctx) error {
	all, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query settings failed")

		return fiber.ErrInternalServerError
	}

	out := make([]map[string]any, 0, len(all))
	for i := range all {
		out = append(out, models.Snapshot(&all[i]))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	return c.JSON(out)
}

// New renders the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(TemplateForm, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  navigation.Admin("New Setting", "settings"),
		"CurrentUser": c.Locals(handler.LocalCurrentUser),
		"Datatypes":   []models.Datatype{models.DatatypeInt, models.DatatypeFloat, models.DatatypeBoolean, models.DatatypeString},
	}, handler.BaseLayout)
}

// Create stores a new setting from the submitted form.
func (s *Service) Create(c *fiber.Ctx) error {
	form, err := forms.PostForm(c)
	if err != nil {
		return fiber.ErrBadRequest
	}

	in := settingForm{
		Key:         forms.TrimmedValue(form, "key"),
		Datatype:    forms.TrimmedValue(form, "datatype"),
		Value:       form["value"],
		Description: forms.TrimmedValue(form, "description"),
	}

	if err = s.validator.Struct(in); err != nil {
		flash.Set(c, flash.CategoryError, "The submitted setting is invalid.")

		return c.Redirect(Path + "/new")
	}

	_, err = setting.Create(s.workDB(c), in.Key, in.Value, models.Datatype(in.Datatype), in.Description)

	switch {
	case errors.Is(err, setting.ErrSettingAlreadyExists):
		flash.Set(c, flash.CategoryError, "A setting with that key already exists.")

		return c.Redirect(Path + "/new")
	case errors.Is(err, setting.ErrCannotCast):
		flash.Set(c, flash.CategoryError, "The value does not match the selected datatype.")

		return c.Redirect(Path + "/new")
	case err != nil:
		return store.Unprocessable(err)
	}

	flash.Set(c, flash.CategoryInfo, "Setting created.")

	return c.Redirect(Path)
}

// Update changes the value of an existing setting, keeping its datatype.
func (s *Service) Update(c *fiber.Ctx) error {
	form, err := forms.PostForm(c)
	if err != nil {
		return fiber.ErrBadRequest
	}

	key := forms.TrimmedValue(form, "key")

	_, err = setting.Set(s.workDB(c), key, form["value"], forms.TrimmedValue(form, "description"))

	switch {
	case errors.Is(err, setting.ErrSettingNotFound) || errors.Is(err, setting.ErrDatatypeRequired):
		return fiber.ErrNotFound
	case errors.Is(err, setting.ErrCannotCast):
		flash.Set(c, flash.CategoryError, "The value does not match the setting's datatype.")

		return c.Redirect(Path)
	case err != nil:
		return store.Unprocessable(err)
	}

	flash.Set(c, flash.CategoryInfo, "Setting updated.")

	return c.Redirect(Path)
}

// Delete removes a setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	form, err := forms.PostForm(c)
	if err != nil {
		return fiber.ErrBadRequest
	}

	key := forms.TrimmedValue(form, "key")

	if err = setting.Delete(s.workDB(c), key); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return fiber.ErrNotFound
		}

		return store.Unprocessable(err)
	}

	flash.Set(c, flash.CategoryInfo, "Setting deleted.")

	return c.Redirect(Path)
}

// workDB returns the request's transaction when present, falling back
// to the shared connection.
func (s *Service) workDB(c *fiber.Ctx) *gorm.DB {
	if uow := txn.FromCtx(c); uow != nil {
		return uow.DB()
	}

	return s.db
}
