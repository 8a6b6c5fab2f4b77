// Package handlers wires the engine registry to Fiber routes.
package handlers

import (
	"errors"
	"log"

	"fretloop-scheduler/internal/engine"
	"fretloop-scheduler/internal/models"
	"fretloop-scheduler/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler holds the per-process collaborators every route needs.
type Handler struct {
	registry *engine.Registry
}

// New builds a Handler over the given per-user engine registry.
func New(registry *engine.Registry) *Handler {
	return &Handler{registry: registry}
}

// getUserID extracts and validates the X-User-Id header.
func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr := c.Get("X-User-Id")
	if userIDStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "X-User-Id header required")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user ID format")
	}
	return userID, nil
}

// storeStatus maps a store.Error's Kind to an HTTP status; unrecognized
// errors fall back to 500.
func storeStatus(err error) int {
	var serr *store.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case store.InvalidInput:
			return fiber.StatusBadRequest
		case store.MissingPrecondition:
			return fiber.StatusConflict
		case store.PersistenceFault:
			return fiber.StatusInternalServerError
		}
	}
	return fiber.StatusInternalServerError
}

// writeErr logs err and writes a JSON error envelope, status derived from
// the error's Kind when it is a *store.Error.
func writeErr(c *fiber.Ctx, op string, userID uuid.UUID, err error) error {
	log.Printf("error %s for user %s: %v", op, userID, err)
	return c.Status(storeStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// Health reports liveness. GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "fretloop-scheduler",
	})
}

// withUserEngine extracts the caller's user id, runs fn against their
// locked Engine, and translates any error to a JSON response.
func (h *Handler) withUserEngine(c *fiber.Ctx, op string, fn func(*engine.Engine) error) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var callErr error
	regErr := h.registry.WithEngine(userID.String(), func(e *engine.Engine) error {
		callErr = fn(e)
		return callErr
	})
	if regErr != nil {
		return writeErr(c, op, userID, regErr)
	}
	return nil
}

// GetSuggestion generates and persists a new suggestion.
// GET /practice/suggestion
func (h *Handler) GetSuggestion(c *fiber.Ctx) error {
	var suggestion models.Suggestion
	err := h.withUserEngine(c, "generate suggestion", func(e *engine.Engine) error {
		s, err := e.GenerateSuggestion()
		if err != nil {
			return err
		}
		suggestion = s
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(suggestion)
}

// logPracticeRequest is the POST /practice/log request body. A
// zero-value Compound (no Scale set) means "log against the pending
// suggestion"; otherwise the body names a custom compound to log.
type logPracticeRequest struct {
	Scale         string `json:"scale"`
	Position      string `json:"position"`
	Rhythm        string `json:"rhythm"`
	RhythmPattern string `json:"rhythm_pattern"`
	NotePattern   string `json:"note_pattern"`
	Articulation  string `json:"articulation"`
	Key           string `json:"key"`
	BPM           int    `json:"bpm"`
}

// LogPractice logs practice, either against the pending suggestion or a
// caller-supplied compound. POST /practice/log
func (h *Handler) LogPractice(c *fiber.Ctx) error {
	var req logPracticeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var result interface{}
	err := h.withUserEngine(c, "log practice", func(e *engine.Engine) error {
		if req.Scale == "" {
			r, err := e.LogSuggestedPractice(req.BPM)
			if err != nil {
				return err
			}
			result = r
			return nil
		}

		compound := models.Compound{
			Scale:           req.Scale,
			Position:        req.Position,
			Rhythm:          req.Rhythm,
			RhythmPattern:   req.RhythmPattern,
			NotePattern:     req.NotePattern,
			Articulation:    req.Articulation,
			HasNotePattern:  req.NotePattern != "",
			HasArticulation: req.Articulation != "",
		}
		r, err := e.LogCustomPractice(compound, req.Key, req.BPM)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetHistory returns the most recent practice entries, newest first.
// GET /practice/history?limit=20
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	var entries []models.PracticeEntry
	err := h.withUserEngine(c, "get history", func(e *engine.Engine) error {
		es, err := e.Repo.GetRecentPractice(limit)
		if err != nil {
			return err
		}
		entries = es
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
}

// GetCompoundStats returns a single compound's progression state.
// GET /practice/stats/:compound_id
func (h *Handler) GetCompoundStats(c *fiber.Ctx) error {
	compoundID := c.Params("compound_id")

	var stats *models.CompoundStats
	err := h.withUserEngine(c, "get compound stats", func(e *engine.Engine) error {
		st, err := e.Repo.GetCompoundStats(compoundID)
		if err != nil {
			return err
		}
		stats = st
		return nil
	})
	if err != nil {
		return err
	}
	if stats == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "compound not found"})
	}
	return c.JSON(stats)
}

// GetSignatureStats returns the legacy per-signature display record.
// GET /practice/signatures/:sig_id
func (h *Handler) GetSignatureStats(c *fiber.Ctx) error {
	sigID := c.Params("sig_id")

	var stats *models.SignatureStats
	err := h.withUserEngine(c, "get signature stats", func(e *engine.Engine) error {
		st, err := e.Repo.GetStats(sigID)
		if err != nil {
			return err
		}
		stats = st
		return nil
	})
	if err != nil {
		return err
	}
	if stats == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "signature not found"})
	}
	return c.JSON(stats)
}

// GetStreak returns the caller's calendar-day streak state.
// GET /practice/streak
func (h *Handler) GetStreak(c *fiber.Ctx) error {
	var info models.StreakInfo
	err := h.withUserEngine(c, "get streak", func(e *engine.Engine) error {
		i, err := e.Repo.GetStreakInfo()
		if err != nil {
			return err
		}
		info = i
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(info)
}

// GetAchievements returns the caller's earned achievement ids.
// GET /practice/achievements
func (h *Handler) GetAchievements(c *fiber.Ctx) error {
	var ids []string
	err := h.withUserEngine(c, "get achievements", func(e *engine.Engine) error {
		earned, err := e.Repo.GetEarnedAchievementIDs()
		if err != nil {
			return err
		}
		ids = earned
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievements": ids, "count": len(ids)})
}

type proficiencyRequest struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// SetProficiency records a user-declared competence claim (advisory only,
// never consulted by the scheduler). POST /practice/proficiency
func (h *Handler) SetProficiency(c *fiber.Ctx) error {
	var req proficiencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.withUserEngine(c, "set proficiency", func(e *engine.Engine) error {
		return e.Repo.SetProficient(req.Dimension, req.Value)
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "proficiency recorded"})
}

// RemoveProficiency retracts a previously declared competence claim.
// DELETE /practice/proficiency
func (h *Handler) RemoveProficiency(c *fiber.Ctx) error {
	var req proficiencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.withUserEngine(c, "remove proficiency", func(e *engine.Engine) error {
		return e.Repo.RemoveProficient(req.Dimension, req.Value)
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "proficiency removed"})
}

// GetGraph returns the practiced-compound graph. GET /practice/graph
func (h *Handler) GetGraph(c *fiber.Ctx) error {
	var g interface{}
	err := h.withUserEngine(c, "get graph", func(e *engine.Engine) error {
		gr, err := e.Graph()
		if err != nil {
			return err
		}
		g = gr
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(g)
}

// GetExpandedGraph returns the graph plus potential unlocked-neighbor
// nodes. GET /practice/graph/expanded
func (h *Handler) GetExpandedGraph(c *fiber.Ctx) error {
	var g interface{}
	err := h.withUserEngine(c, "get expanded graph", func(e *engine.Engine) error {
		gr, err := e.ExpandedGraph()
		if err != nil {
			return err
		}
		g = gr
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(g)
}

// Recalculate rebuilds every derived stat from the practice log.
// POST /practice/recalculate
func (h *Handler) Recalculate(c *fiber.Ctx) error {
	err := h.withUserEngine(c, "recalculate", func(e *engine.Engine) error {
		return e.Recalculate()
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "recalculated"})
}

// RegisterRoutes mounts every /practice/* route plus /health onto app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)

	practice := app.Group("/practice")
	practice.Get("/suggestion", h.GetSuggestion)
	practice.Post("/log", h.LogPractice)
	practice.Get("/history", h.GetHistory)
	practice.Get("/stats/:compound_id", h.GetCompoundStats)
	practice.Get("/signatures/:sig_id", h.GetSignatureStats)
	practice.Get("/streak", h.GetStreak)
	practice.Get("/achievements", h.GetAchievements)
	practice.Post("/proficiency", h.SetProficiency)
	practice.Delete("/proficiency", h.RemoveProficiency)
	practice.Get("/graph", h.GetGraph)
	practice.Get("/graph/expanded", h.GetExpandedGraph)
	practice.Post("/recalculate", h.Recalculate)
}
