package controller

import (
	"strconv"

	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFavoriteController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type favoriteController struct {
	favoriteService service.IFavoriteService
}

func NewFavoriteController(favoriteService service.IFavoriteService) IFavoriteController {
	return &favoriteController{
		favoriteService: favoriteService,
	}
}

func (c *favoriteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/favorite/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post(":listingId", c.Add)
	h.Delete(":listingId", c.Remove)
}

func (c *favoriteController) Add(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	listingId, err := strconv.ParseInt(ctx.Params("listingId"), 10, 64)
	if err != nil {
		return serverutils.NewBadRequestError("invalid listing id")
	}

	if err := c.favoriteService.Add(ctx.Context(), userId, listingId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Listing favourited", nil))
}

func (c *favoriteController) Remove(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	listingId, err := strconv.ParseInt(ctx.Params("listingId"), 10, 64)
	if err != nil {
		return serverutils.NewBadRequestError("invalid listing id")
	}

	if err := c.favoriteService.Remove(ctx.Context(), userId, listingId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Favourite removed", nil))
}

func (c *favoriteController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.favoriteService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list favourites", res))
}
