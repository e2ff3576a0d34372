package controller

import (
	"strconv"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IListingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	MarkSold(ctx *fiber.Ctx) error
}

type listingController struct {
	listingService service.IListingService
}

func NewListingController(listingService service.IListingService) IListingController {
	return &listingController{
		listingService: listingService,
	}
}

func (c *listingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/listing/v1")

	// Public browse endpoints
	h.Get("", c.List)
	h.Get("search", c.Search)

	// Owner endpoints
	auth := h.Group("")
	auth.Use(serverutils.JwtMiddleware)
	auth.Get("mine", c.ListMine)
	auth.Post("", c.Create)
	auth.Put(":id", c.Update)
	auth.Delete(":id", c.Delete)
	auth.Post(":id/submit", c.Submit)
	auth.Post(":id/sold", c.MarkSold)

	// Param route last so it doesn't shadow "mine"
	h.Get(":id", c.Show)
}

func listingId(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, serverutils.NewBadRequestError("invalid listing id")
	}
	return id, nil
}

func (c *listingController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateListingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.listingService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create listing", res))
}

func (c *listingController) Show(ctx *fiber.Ctx) error {
	id, err := listingId(ctx)
	if err != nil {
		return err
	}

	res, err := c.listingService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show listing", res))
}

func (c *listingController) List(ctx *fiber.Ctx) error {
	var query dto.ListListingsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}

	res, err := c.listingService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list listings", res))
}

// Search ranks published listings by semantic similarity to ?q.
func (c *listingController) Search(ctx *fiber.Ctx) error {
	q := ctx.Query("q")
	k := ctx.QueryInt("k", 10)

	res, err := c.listingService.Search(ctx.Context(), q, k)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search listings", res))
}

func (c *listingController) ListMine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.listingService.ListMine(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list own listings", res))
}

func (c *listingController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := listingId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateListingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.listingService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update listing", res))
}

func (c *listingController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := listingId(ctx)
	if err != nil {
		return err
	}

	if err := c.listingService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete listing", nil))
}

func (c *listingController) Submit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := listingId(ctx)
	if err != nil {
		return err
	}

	if err := c.listingService.Submit(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Listing submitted for review", nil))
}

func (c *listingController) MarkSold(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := listingId(ctx)
	if err != nil {
		return err
	}

	if err := c.listingService.MarkSold(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Listing marked sold", nil))
}
