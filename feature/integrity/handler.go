package integrity

import (
	"errors"

	"cogsaver/core/logger"
	"cogsaver/core/savefile"
	"cogsaver/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/saves", h.HandleSavesCheck)
	group.Get("/catalog", h.HandleCatalogCheck)
	group.Get("/vault", h.HandleVaultCheck)
}

func checkStatus(err error) int {
	switch {
	case errors.Is(err, savefile.ErrNoGame):
		return fiber.StatusConflict
	case errors.Is(err, checks.ErrVaultDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Saves, Catalog, Vault). The saves scan hashes every file and may take a while.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	// Structure
	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	// Saves (slow: hashes every file)
	if savesReport, err := h.service.CheckSaves(ctx); err != nil {
		report["saves"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["saves"] = savesReport
	}

	// Catalog
	if catReport, err := h.service.CheckCatalog(); err != nil {
		report["catalog"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["catalog"] = catReport
	}

	// Vault
	if exists, err := h.service.CheckVault(ctx); err != nil {
		if errors.Is(err, checks.ErrVaultDisabled) {
			report["vault"] = map[string]interface{}{"status": "disabled"}
		} else {
			report["vault"] = map[string]interface{}{"status": "error", "error": err.Error()}
		}
	} else {
		report["vault"] = map[string]interface{}{"status": "ok", "exists": exists}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the slot layout.
// @Summary Check Slot Layout
// @Description Checks that the folders and slots around the live save are in place. Optionally creates missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(checkStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing layout pieces detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to create missing folders")
			fixed, err := h.service.FixStructure(c.Context(), missing)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status":  "fixed",
				"fixed":   fixed,
				"missing": missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSavesCheck scans the saves folder.
// @Summary Check Save Files
// @Description Verifies every save still parses and matches its cataloged checksum.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SavesReport "Saves Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/saves [get]
func (h *Handler) HandleSavesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting saves scan")

	report, err := h.service.CheckSaves(c.Context())
	if err != nil {
		l.Error("Saves check failed", zap.Error(err))
		return c.Status(checkStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Saves scan completed",
		zap.Int("scanned", report.Scanned),
		zap.Int("unparsable", len(report.Unparsable)),
		zap.Int("drifted", len(report.Drifted)))

	return c.JSON(report)
}

// HandleCatalogCheck checks the catalog schema.
// @Summary Check Catalog Schema
// @Description Checks if the catalog database schema matches the save record model.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.CatalogReport "Catalog Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/catalog [get]
func (h *Handler) HandleCatalogCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting catalog schema check")

	report, err := h.service.CheckCatalog()
	if err != nil {
		l.Error("Catalog schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleVaultCheck checks and optionally creates the backup bucket.
// @Summary Check Backup Vault
// @Description Checks that the backup bucket is reachable and exists. Optionally creates it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} map[string]interface{} "Vault Report"
// @Failure 503 {object} map[string]string "Vault Disabled"
// @Router /integrity/vault [get]
func (h *Handler) HandleVaultCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	exists, err := h.service.CheckVault(c.Context())
	if err != nil {
		l.Error("Vault check failed", zap.Error(err))
		return c.Status(checkStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if !exists && fix {
		l.Info("Attempting to create missing bucket")
		if err := h.service.FixVault(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"bucket": h.service.bucket,
		})
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"bucket": h.service.bucket,
		"exists": exists,
	})
}
