package controller

import (
	"strconv"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
	AllUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	PendingListings(ctx *fiber.Ctx) error
	ReviewListing(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	SystemLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService   service.IAdminService
	listingService service.IListingService
	reindexService service.IReindexService
}

func NewAdminController(adminService service.IAdminService, listingService service.IListingService, reindexService service.IReindexService) IAdminController {
	return &adminController{
		adminService:   adminService,
		listingService: listingService,
		reindexService: reindexService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminOnly)
	h.Get("dashboard", c.Dashboard)
	h.Get("users", c.AllUsers)
	h.Put("users/:id/status", c.UpdateUserStatus)
	h.Get("listings/pending", c.PendingListings)
	h.Post("listings/:id/review", c.ReviewListing)
	h.Post("reindex", c.Reindex)
	h.Get("logs", c.SystemLogs)
}

func (c *adminController) Dashboard(ctx *fiber.Ctx) error {
	stats, err := c.adminService.GetDashboardStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) AllUsers(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)
	search := ctx.Query("q")

	res, err := c.adminService.GetAllUsers(ctx.Context(), page, limit, search)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User list", res))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid user id")
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.UpdateUserStatus(ctx.Context(), userId, req.Status); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) SystemLogs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)
	level := ctx.Query("level")

	logs, err := c.adminService.GetSystemLogs(ctx.Context(), limit, level)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) PendingListings(ctx *fiber.Ctx) error {
	query := dto.ListListingsQuery{
		Status: string(entity.ListingStatusPending),
		Limit:  ctx.QueryInt("limit", 20),
		Offset: ctx.QueryInt("offset", 0),
	}

	res, err := c.listingService.ListPending(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list pending listings", res))
}

func (c *adminController) ReviewListing(ctx *fiber.Ctx) error {
	reviewerIdStr := ctx.Locals("user_id").(string)
	reviewerId, _ := uuid.Parse(reviewerIdStr)

	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return serverutils.NewBadRequestError("invalid listing id")
	}

	var req dto.ReviewListingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.listingService.Review(ctx.Context(), reviewerId, id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Listing reviewed", nil))
}

// Reindex rebuilds both vector indexes from the primary store. Long
// running; intended for operational use after model or schema changes.
func (c *adminController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.reindexService.ReindexAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Reindex complete", res))
}
