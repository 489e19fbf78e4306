// Package category exposes the HTTP endpoints for categories.
package category

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennywiseapp/pennywise/pkg/dto"
	categorysvc "github.com/pennywiseapp/pennywise/pkg/service/category"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=64"`
	Type  string `json:"type" validate:"required,oneof=income expense"`
	Color string `json:"color" validate:"omitempty,max=16"`
	Icon  string `json:"icon" validate:"omitempty,max=32"`
}

// UpdateCategoryRequest is the payload for a partial category update.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=64"`
	Color *string `json:"color" validate:"omitempty,max=16"`
	Icon  *string `json:"icon" validate:"omitempty,max=32"`
}

// Routes registers the category endpoints.
func Routes(app *fiber.App, svc *categorysvc.Service) {
	group := app.Group("/categories", common.RequireUserID())
	group.Post("/", Create(svc))
	group.Get("/", List(svc))
	group.Get("/:id", Get(svc))
	group.Patch("/:id", Update(svc))
	group.Delete("/:id", Delete(svc))
}

// Create handles POST /categories.
func Create(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateCategoryRequest](c)
		if err != nil {
			return nil
		}
		read, err := svc.CreateCategory(c.UserContext(), dto.CategoryCreate{
			UserID: common.UserID(c),
			Name:   input.Name,
			Type:   input.Type,
			Color:  input.Color,
			Icon:   input.Icon,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created", read)
	}
}

// List handles GET /categories. The listing includes the system
// defaults alongside the user's own categories.
func List(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reads, err := svc.ListCategories(c.UserContext(), common.UserID(c))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories retrieved", reads)
	}
}

// Get handles GET /categories/:id.
func Get(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		read, err := svc.GetCategory(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category retrieved", read)
	}
}

// Update handles PATCH /categories/:id.
func Update(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		input, err := common.BindAndValidate[UpdateCategoryRequest](c)
		if err != nil {
			return nil
		}
		read, err := svc.UpdateCategory(c.UserContext(), id, dto.CategoryUpdate{
			Name:  input.Name,
			Color: input.Color,
			Icon:  input.Icon,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category updated", read)
	}
}

// Delete handles DELETE /categories/:id. System categories refuse
// deletion.
func Delete(svc *categorysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		if err = svc.DeleteCategory(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category deleted", nil)
	}
}
