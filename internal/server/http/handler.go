package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"notation/internal/server/core"
	"notation/internal/server/processor"
	"notation/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	// Create handler
	h := NewHTTPHandler(proc, svc)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	// API v1 routes
	api := app.Group("/api/v1")

	// Auth routes with specific rate limiting
	auth := api.Group("/auth")

	// Register: 5 req/min per IP
	auth.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: "5 registrations per minute allowed",
			})
		},
	}), h.RegisterHandler)

	// Login: 10 req/min per IP
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: "10 login attempts per minute allowed",
			})
		},
	}), h.LoginHandler)

	// Create token validator closure
	validateToken := svc.ValidateToken

	// Current user (requires auth)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)

	// Remaining routes with standard rate limiting
	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	// Content-Type validation for POST and PUT requests
	api.Use(contentTypeValidator)

	// Middleware validation for sanitization
	api.Use(validationMiddleware)

	// Stateless parsing endpoints
	api.Post("/parse", h.ParseText)
	api.Post("/render", h.RenderActions)
	api.Post("/parse/batch", h.ParseBatch)

	// Record routes; optional auth associates records with their creator
	api.Post("/records", OptionalAuth(validateToken), h.CreateRecord)
	api.Get("/records", h.ListRecords)
	api.Get("/records/:recordId", h.GetRecord)
	api.Delete("/records/:recordId", OptionalAuth(validateToken), h.DeleteRecord)
	api.Post("/records/:recordId/turns", OptionalAuth(validateToken), h.AppendTurn)
	api.Post("/records/:recordId/undo", OptionalAuth(validateToken), h.UndoTurns)
	api.Post("/records/:recordId/finalize", OptionalAuth(validateToken), h.FinalizeRecord)

	return app
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		// Map HTTP status to error codes
		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrRecordNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// ParseText parses one turn of action text without touching any record
func (h *HTTPHandler) ParseText(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.ParseRequest
	req = *(validatedBody.(*core.ParseRequest))

	resp := h.proc.Execute(processor.NewParseTextCommand(req))

	if !resp.Success {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// RenderActions renders structured actions back to canonical text
func (h *HTTPHandler) RenderActions(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.RenderRequest
	req = *(validatedBody.(*core.RenderRequest))

	resp := h.proc.Execute(processor.NewRenderActionsCommand(req))

	if !resp.Success {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// ParseBatch parses many texts in one request
func (h *HTTPHandler) ParseBatch(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.BatchParseRequest
	req = *(validatedBody.(*core.BatchParseRequest))

	resp := h.proc.Execute(processor.NewParseBatchCommand(req))

	if !resp.Success {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// CreateRecord creates a new record
func (h *HTTPHandler) CreateRecord(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.CreateRecordRequest
	req = *(validatedBody.(*core.CreateRecordRequest))

	// Retrieve authenticated user ID if available
	userID, _ := c.Locals("userID").(string)

	cmd := processor.NewCreateRecordCommand(req)
	cmd.UserID = userID // Owner if authenticated

	resp := h.proc.Execute(cmd)

	if !resp.Success {
		statusCode := fiber.StatusBadRequest
		if resp.Error.Code == core.ErrResourceLimit {
			statusCode = fiber.StatusTooManyRequests
		}
		return c.Status(statusCode).JSON(resp.Error)
	}

	return c.Status(fiber.StatusCreated).JSON(resp.Data)
}

// ListRecords returns summaries of all loaded records. Query parameters
// game, status, and owner narrow the listing.
func (h *HTTPHandler) ListRecords(c *fiber.Ctx) error {
	filter := processor.ListFilter{
		Game:   c.Query("game"),
		Status: c.Query("status"),
		Owner:  c.Query("owner"),
	}

	resp := h.proc.Execute(processor.NewListRecordsCommand(filter))

	if !resp.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// GetRecord retrieves record state, optionally long-polling for changes
func (h *HTTPHandler) GetRecord(c *fiber.Ctx) error {
	recordID := c.Params("recordId")

	// Validate UUID format
	if !isValidUUID(recordID) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid record ID format",
			Code:    core.ErrInvalidRequest,
			Details: "record ID must be a valid UUID",
		})
	}

	// Check for long-polling parameters
	waitStr := c.Query("wait", "false")
	turnCountStr := c.Query("turnCount", "-1")

	// Non-wait path
	if waitStr != "true" {
		resp := h.proc.Execute(processor.NewGetRecordCommand(recordID))

		if !resp.Success {
			return c.Status(fiber.StatusNotFound).JSON(resp.Error)
		}

		return c.JSON(resp.Data)
	}

	// Long-polling path
	turnCount, err := strconv.Atoi(turnCountStr)
	if err != nil {
		turnCount = -1
	}

	// First check if record exists and get current state
	r, err := h.svc.GetRecord(recordID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "record not found",
			Code:  core.ErrRecordNotFound,
		})
	}

	currentTurnCount := r.TurnCount()

	// If turn count already different, return immediately
	if turnCount != currentTurnCount {
		resp := h.proc.Execute(processor.NewGetRecordCommand(recordID))
		if !resp.Success {
			return c.Status(fiber.StatusNotFound).JSON(resp.Error)
		}
		return c.JSON(resp.Data)
	}

	// Register wait with service
	ctx := c.Context()
	notify := h.svc.RegisterWait(recordID, turnCount, ctx)

	// Wait for notification, timeout, or client disconnect
	select {
	case <-notify:
		// State changed or timeout, get fresh record state
		resp := h.proc.Execute(processor.NewGetRecordCommand(recordID))

		// Record might have been deleted
		if !resp.Success {
			return c.Status(fiber.StatusNotFound).JSON(resp.Error)
		}

		return c.JSON(resp.Data)

	case <-ctx.Done():
		// Client disconnected
		return nil
	}
}

// AppendTurn parses and commits one turn to a record
func (h *HTTPHandler) AppendTurn(c *fiber.Ctx) error {
	recordID := c.Params("recordId")

	// Validate UUID format
	if !isValidUUID(recordID) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid record ID format",
			Code:    core.ErrInvalidRequest,
			Details: "record ID must be a valid UUID",
		})
	}

	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.AppendTurnRequest
	req = *(validatedBody.(*core.AppendTurnRequest))

	// Get authenticated user ID if present
	userID, _ := c.Locals("userID").(string)

	cmd := processor.NewAppendTurnCommand(recordID, req)
	cmd.UserID = userID // Pass user context for authorization

	resp := h.proc.Execute(cmd)

	if !resp.Success {
		statusCode := fiber.StatusBadRequest
		switch resp.Error.Code {
		case core.ErrRecordNotFound:
			statusCode = fiber.StatusNotFound
		case core.ErrUnauthorized:
			statusCode = fiber.StatusForbidden
		case core.ErrRecordFinal:
			statusCode = fiber.StatusConflict
		}
		return c.Status(statusCode).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// UndoTurns removes turns from the tail of a record
func (h *HTTPHandler) UndoTurns(c *fiber.Ctx) error {
	recordID := c.Params("recordId")

	// Validate UUID format
	if !isValidUUID(recordID) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid record ID format",
			Code:    core.ErrInvalidRequest,
			Details: "record ID must be a valid UUID",
		})
	}

	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.UndoRequest
	req = *(validatedBody.(*core.UndoRequest))

	userID, _ := c.Locals("userID").(string)

	cmd := processor.NewUndoTurnsCommand(recordID, req)
	cmd.UserID = userID

	resp := h.proc.Execute(cmd)

	if !resp.Success {
		statusCode := fiber.StatusBadRequest
		switch resp.Error.Code {
		case core.ErrRecordNotFound:
			statusCode = fiber.StatusNotFound
		case core.ErrUnauthorized:
			statusCode = fiber.StatusForbidden
		}
		return c.Status(statusCode).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// FinalizeRecord closes a record with an optional result
func (h *HTTPHandler) FinalizeRecord(c *fiber.Ctx) error {
	recordID := c.Params("recordId")

	// Validate UUID format
	if !isValidUUID(recordID) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid record ID format",
			Code:    core.ErrInvalidRequest,
			Details: "record ID must be a valid UUID",
		})
	}

	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	var req core.FinalizeRequest
	req = *(validatedBody.(*core.FinalizeRequest))

	userID, _ := c.Locals("userID").(string)

	cmd := processor.NewFinalizeRecordCommand(recordID, req)
	cmd.UserID = userID

	resp := h.proc.Execute(cmd)

	if !resp.Success {
		statusCode := fiber.StatusBadRequest
		switch resp.Error.Code {
		case core.ErrRecordNotFound:
			statusCode = fiber.StatusNotFound
		case core.ErrUnauthorized:
			statusCode = fiber.StatusForbidden
		case core.ErrRecordFinal:
			statusCode = fiber.StatusConflict
		}
		return c.Status(statusCode).JSON(resp.Error)
	}

	return c.JSON(resp.Data)
}

// DeleteRecord removes a record
func (h *HTTPHandler) DeleteRecord(c *fiber.Ctx) error {
	recordID := c.Params("recordId")

	// Validate UUID format
	if !isValidUUID(recordID) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid record ID format",
			Code:    core.ErrInvalidRequest,
			Details: "record ID must be a valid UUID",
		})
	}

	userID, _ := c.Locals("userID").(string)

	cmd := processor.NewDeleteRecordCommand(recordID)
	cmd.UserID = userID

	resp := h.proc.Execute(cmd)

	if !resp.Success {
		statusCode := fiber.StatusNotFound
		if resp.Error.Code == core.ErrUnauthorized {
			statusCode = fiber.StatusForbidden
		}
		return c.Status(statusCode).JSON(resp.Error)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
