// Package users provides the admin pages for managing user accounts.
package users

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
	"github.com/GoAdminBase/GoAdminBase/internal/db/controller/user"
	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
	"github.com/GoAdminBase/GoAdminBase/internal/db/store"
	"github.com/GoAdminBase/GoAdminBase/internal/web/flash"
	"github.com/GoAdminBase/GoAdminBase/internal/web/forms"
	"github.com/GoAdminBase/GoAdminBase/internal/web/handler"
	"github.com/GoAdminBase/GoAdminBase/internal/web/middleware/txn"
	"github.com/GoAdminBase/GoAdminBase/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/users"

	// TemplateList is the template for listing users.
	TemplateList = "admin/users/list"
	// TemplateForm is the template for creating a user.
	TemplateForm = "admin/users/form"
)

// userForm is the validated shape of the create form.
type userForm struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"omitempty,min=8"`
}

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the users handler.
var Handler = Service{}

// Init initializes the users handler.
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
		router.Post(handler.RouterRootPath, s.Create)
		router.Post("/:id/delete", s.Delete)
	})

	return nil
}

// List shows all user accounts.
func (s *Service) List(c *fiber.Ctx) error {
	accounts, err := user.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query users failed")

		return fiber.ErrInternalServerError
	}

	return c.Render(TemplateList, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  navigation.Admin("Users", "users"),
		"CurrentUser": c.Locals(handler.LocalCurrentUser),
		"Flash":       flash.Get(c),
		"Users":       accounts,
	}, handler.BaseLayout)
}

// New renders the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(TemplateForm, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  navigation.Admin("New User", "users"),
		"CurrentUser": c.Locals(handler.LocalCurrentUser),
	}, handler.BaseLayout)
}

// Create stores a new local user account. An empty password creates an
// account that can only sign in through a federated provider.
func (s *Service) Create(c *fiber.Ctx) error {
	form, err := forms.PostForm(c)
	if err != nil {
		return fiber.ErrBadRequest
	}

	in := userForm{
		Email:    forms.TrimmedValue(form, "email"),
		Password: form["password"],
	}

	if err = s.validator.Struct(in); err != nil {
		flash.Set(c, flash.CategoryError, "The submitted account is invalid.")

		return c.Redirect(Path + "/new")
	}

	_, err = user.Create(s.workDB(c), in.Email, in.Password)

	switch {
	case errors.Is(err, user.ErrUserAlreadyExists):
		flash.Set(c, flash.CategoryError, "An account with that email address already exists.")

		return c.Redirect(Path + "/new")
	case err != nil:
		return store.Unprocessable(err)
	}

	flash.Set(c, flash.CategoryInfo, "User created.")

	return c.Redirect(Path)
}

// Delete removes a user account. The signed-in user cannot delete
// themselves.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if cur := currentUserID(c); cur != 0 && cur == id {
		flash.Set(c, flash.CategoryError, "You cannot delete your own account.")

		return c.Redirect(Path)
	}

	account, err := user.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return fiber.ErrNotFound
		}

		return err
	}

	if uow := txn.FromCtx(c); uow != nil {
		if err = uow.Delete(account); err != nil {
			return err
		}
	} else if err = s.db.Delete(account).Error; err != nil {
		return store.Unprocessable(err)
	}

	flash.Set(c, flash.CategoryInfo, "User deleted.")

	return c.Redirect(Path)
}

func currentUserID(c *fiber.Ctx) uint64 {
	current, ok := c.Locals(handler.LocalCurrentUser).(*models.User)
	if !ok {
		return 0
	}

	return current.ID
}

// workDB returns the request's transaction when present, falling back
// to the shared connection.
func (s *Service) workDB(c *fiber.Ctx) *gorm.DB {
	if uow := txn.FromCtx(c); uow != nil {
		return uow.DB()
	}

	return s.db
}
