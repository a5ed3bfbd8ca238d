package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/ScholarLink/application_service/internal/api/rest/middleware"
	"github.com/ScholarLink/application_service/internal/dto"
	"github.com/ScholarLink/application_service/internal/helper"
	"github.com/ScholarLink/application_service/internal/helper/utils"
	"github.com/ScholarLink/application_service/internal/services"
	pkgutils "github.com/ScholarLink/application_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	svc  services.ApplicationService
	auth helper.Auth
}

func NewApplicationHandler(svc services.ApplicationService, auth helper.Auth) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, auth: auth}
}

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	appHandler *ApplicationHandler,
	auth helper.Auth,
	resolver *services.RoleResolver,
) {
	api := app.Group("/api")

	// =========================
	// AUTH
	// =========================
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", middleware.AuthMiddleware(auth, resolver), authHandler.Me)

	// =========================
	// APPLICATIONS
	// =========================
	apps := api.Group("/applications", middleware.AuthMiddleware(auth, resolver))
	apps.Post("/", appHandler.Submit)
	apps.Get("/me", appHandler.ListMine)

	// admin
	apps.Get("/", middleware.AdminOnly(), appHandler.ListAll)
	apps.Patch("/:appID/status", middleware.AdminOnly(), appHandler.SetStatus)
}

func (h *ApplicationHandler) Submit(ctx *fiber.Ctx) error {
	session, err := h.auth.GetSession(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	input := dto.SubmitApplicationRequest{
		Country:        ctx.FormValue("country"),
		Institution:    ctx.FormValue("institution"),
		EducationLevel: ctx.FormValue("education_level"),
		FieldOfStudy:   ctx.FormValue("field_of_study"),
	}

	input.Passport, err = readFormDocument(ctx, "passport")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	input.Transcripts, err = readFormDocument(ctx, "transcripts")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	input.MotivationLetter, err = readFormDocument(ctx, "motivation_letter")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Submit(ctx.Context(), session, session.UserID, input)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, res)
}

// readFormDocument pulls one named file out of the multipart form. A missing
// file is reported by the service's validation, not here.
func readFormDocument(ctx *fiber.Ctx, field string) (*dto.DocumentFile, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return openFormFile(file)
}

func openFormFile(file *multipart.FileHeader) (*dto.DocumentFile, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := pkgutils.ReadAllLimit(f, services.MaxDocumentSize)
	if err != nil {
		return nil, err
	}

	return &dto.DocumentFile{
		Filename: file.Filename,
		MimeType: file.Header.Get("Content-Type"),
		Bytes:    b,
	}, nil
}

func (h *ApplicationHandler) ListMine(ctx *fiber.Ctx) error {
	session, err := h.auth.GetSession(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.svc.ListForStudent(session, session.UserID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}

func (h *ApplicationHandler) ListAll(ctx *fiber.Ctx) error {
	session, err := h.auth.GetSession(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.svc.ListAll(session)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusForbidden, err.Error())
	}

	// optional in-memory narrowing for the dashboard
	search := ctx.Query("search")
	status := ctx.Query("status")
	if search != "" || status != "" {
		apps = services.FilterApplications(apps, search, status)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}

func (h *ApplicationHandler) SetStatus(ctx *fiber.Ctx) error {
	session, err := h.auth.GetSession(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	appID, err := strconv.ParseUint(ctx.Params("appID"), 10, 64)
	if err != nil || appID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	var requestBody dto.SetStatusRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Status == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "status is required")
	}

	if err := h.svc.UpdateStatus(session, uint(appID), requestBody.Status, requestBody.Note); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Status updated")
}
