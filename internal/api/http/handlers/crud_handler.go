package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// CrudService is the service surface a CrudHandler drives.
type CrudService[D any] interface {
	FindAll(ctx context.Context) ([]D, error)
	FindByID(ctx context.Context, id int) (*D, error)
	Save(ctx context.Context, payload *D) (*D, error)
	Update(ctx context.Context, id int, payload *D) (*D, error)
	DeleteByID(ctx context.Context, id int) error
}

// CrudHandler exposes the five resource endpoints for one DTO type.
type CrudHandler[D any] struct {
	service CrudService[D]
	bodyID  func(*D) int
	present func(*D)
}

// NewCrudHandler constructs handler. bodyID reads the id carried in a payload;
// present, when set, scrubs a DTO before it is written to the response.
func NewCrudHandler[D any](service CrudService[D], bodyID func(*D) int, present func(*D)) *CrudHandler[D] {
	return &CrudHandler[D]{service: service, bodyID: bodyID, present: present}
}

// FindAll GET /.
func (h *CrudHandler[D]) FindAll(c *fiber.Ctx) error {
	items, err := h.service.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	for i := range items {
		h.scrub(&items[i])
	}
	return c.JSON(dto.NewCollection(items))
}

// FindByID GET /:id.
func (h *CrudHandler[D]) FindByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.respond(c, item)
}

// Save POST /.
func (h *CrudHandler[D]) Save(c *fiber.Ctx) error {
	payload, err := parseBody[D](c)
	if err != nil {
		return err
	}
	saved, err := h.service.Save(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return h.respond(c, saved)
}

// Update PUT /:id.
func (h *CrudHandler[D]) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payload, err := parseBody[D](c)
	if err != nil {
		return err
	}
	return h.update(c, id, payload)
}

// UpdateFromBody PUT / using the id carried in the payload.
func (h *CrudHandler[D]) UpdateFromBody(c *fiber.Ctx) error {
	payload, err := parseBody[D](c)
	if err != nil {
		return err
	}
	id := h.bodyID(payload)
	if id <= 0 {
		return apperrors.NewValidationError("id required", map[string]any{"id": "required"})
	}
	return h.update(c, id, payload)
}

// DeleteByID DELETE /:id. Responds with a bare true.
func (h *CrudHandler[D]) DeleteByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(true)
}

func (h *CrudHandler[D]) update(c *fiber.Ctx, id int, payload *D) error {
	updated, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return err
	}
	return h.respond(c, updated)
}

func (h *CrudHandler[D]) respond(c *fiber.Ctx, item *D) error {
	h.scrub(item)
	return c.JSON(item)
}

func (h *CrudHandler[D]) scrub(item *D) {
	if h.present != nil && item != nil {
		h.present(item)
	}
}

func pathID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseBody[D any](c *fiber.Ctx) (*D, error) {
	payload := new(D)
	if err := c.BodyParser(payload); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return payload, nil
}
