package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/usercontext"
)

// AdminCategoryController handles the admin category management surface.
type AdminCategoryController struct {
	categories repository.CategoryRepository
}

// NewAdminCategoryController creates a new admin category controller
func NewAdminCategoryController(categories repository.CategoryRepository) *AdminCategoryController {
	return &AdminCategoryController{categories: categories}
}

var adminCategoryController *AdminCategoryController

// InitializeAdminCategoryController sets up the controller against the
// global repositories.
func InitializeAdminCategoryController() {
	adminCategoryController = NewAdminCategoryController(repository.GetGlobalRepositories().Category)
}

func HandleAdminCategories(c *fiber.Ctx) error { return adminCategoryController.HandleCategories(c) }
func HandleAdminCategoryCreate(c *fiber.Ctx) error {
	return adminCategoryController.HandleCategoryCreate(c)
}
func HandleAdminCategoryStore(c *fiber.Ctx) error {
	return adminCategoryController.HandleCategoryStore(c)
}
func HandleAdminCategoryEdit(c *fiber.Ctx) error {
	return adminCategoryController.HandleCategoryEdit(c)
}
func HandleAdminCategoryUpdate(c *fiber.Ctx) error {
	return adminCategoryController.HandleCategoryUpdate(c)
}
func HandleAdminCategoryDelete(c *fiber.Ctx) error {
	return adminCategoryController.HandleCategoryDelete(c)
}

func (acc *AdminCategoryController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/categories")
}

// HandleCategories renders the category list.
func (acc *AdminCategoryController) HandleCategories(c *fiber.Ctx) error {
	categories, err := acc.categories.GetAll()
	if err != nil {
		return acc.handleError(c, "Failed to load categories", err)
	}

	return c.Render("admin/categories", fiber.Map{
		"Title":      "Categories",
		"Categories": categories,
		"CSRFToken":  csrfToken(c),
		"Flash":      flash.Get(c),
		"User":       usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleCategoryCreate renders the category creation form.
func (acc *AdminCategoryController) HandleCategoryCreate(c *fiber.Ctx) error {
	return c.Render("admin/category_form", fiber.Map{
		"Title":     "New category",
		"Category":  &models.Category{},
		"Action":    "/admin/categories/store",
		"CSRFToken": csrfToken(c),
		"Flash":     flash.Get(c),
		"User":      usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleCategoryStore creates a new category. An empty slug is derived
// from the name on first save.
func (acc *AdminCategoryController) HandleCategoryStore(c *fiber.Ctx) error {
	category := &models.Category{
		Name:        c.FormValue("name"),
		Slug:        c.FormValue("slug"),
		Description: c.FormValue("description"),
	}

	if err := category.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Name is required",
		}
		return flash.WithError(c, fm).Redirect("/admin/categories/create")
	}

	if err := acc.categories.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fm := fiber.Map{
				"type":    "error",
				"message": "That slug is already in use, pick a different one",
			}
			return flash.WithError(c, fm).Redirect("/admin/categories/create")
		}
		return acc.handleError(c, "Failed to create category", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Category created",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/categories")
}

// HandleCategoryEdit renders the category edit form.
func (acc *AdminCategoryController) HandleCategoryEdit(c *fiber.Ctx) error {
	category, err := acc.categories.GetByID(parseID(c, "id"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Category not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/categories")
	}

	return c.Render("admin/category_form", fiber.Map{
		"Title":     "Edit category",
		"Category":  category,
		"Action":    fmt.Sprintf("/admin/categories/update/%d", category.ID),
		"CSRFToken": csrfToken(c),
		"Flash":     flash.Get(c),
		"User":      usercontext.GetUserContext(c),
	}, "layouts/admin")
}

// HandleCategoryUpdate saves an edited category.
func (acc *AdminCategoryController) HandleCategoryUpdate(c *fiber.Ctx) error {
	category, err := acc.categories.GetByID(parseID(c, "id"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Category not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/categories")
	}

	category.Name = c.FormValue("name")
	category.Description = c.FormValue("description")
	if slug := c.FormValue("slug"); slug != "" {
		category.Slug = slug
	}

	if err := category.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Name is required",
		}
		return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/categories/edit/%d", category.ID))
	}

	if err := acc.categories.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fm := fiber.Map{
				"type":    "error",
				"message": "That slug is already in use, pick a different one",
			}
			return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/categories/edit/%d", category.ID))
		}
		return acc.handleError(c, "Failed to update category", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Category updated",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/categories")
}

// HandleCategoryDelete removes a category. Entries keep existing, they
// just lose the association.
func (acc *AdminCategoryController) HandleCategoryDelete(c *fiber.Ctx) error {
	if err := acc.categories.Delete(parseID(c, "id")); err != nil {
		return acc.handleError(c, "Failed to delete category", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Category deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/categories")
}
