package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/expiry-notifier/internal/auth"
	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"github.com/kursadbilgin/expiry-notifier/internal/service"
	"github.com/kursadbilgin/expiry-notifier/internal/transport"
)

const notificationBasePath = "/api-server/notification"

type NotificationService interface {
	Generate(ctx context.Context) (int64, error)
	Latest(ctx context.Context) ([]domain.Notification, error)
	GetByID(ctx context.Context, id uint64) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, id uint64, adminUserID uint64, actorUserID uint64) (*domain.Notification, error)
	Summary(ctx context.Context) (domain.Summary, error)
}

type WebhookPusher interface {
	Push(ctx context.Context) (*service.DispatchResult, error)
}

type NotificationHandler struct {
	service NotificationService
	pusher  WebhookPusher
}

func NewNotificationHandler(service NotificationService, pusher WebhookPusher) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	if pusher == nil {
		return nil, fmt.Errorf("webhook pusher is required")
	}
	return &NotificationHandler{service: service, pusher: pusher}, nil
}

// RegisterNotificationRoutes mounts the notification API. The trigger
// endpoints stay open for the external scheduler; reads and the read flag
// go through requireAuth.
func RegisterNotificationRoutes(
	router fiber.Router,
	service NotificationService,
	pusher WebhookPusher,
	requireAuth fiber.Handler,
) error {
	h, err := NewNotificationHandler(service, pusher)
	if err != nil {
		return err
	}
	if requireAuth == nil {
		return fmt.Errorf("auth middleware is required")
	}

	g := router.Group(notificationBasePath)
	g.Post("/create", h.Generate)
	g.Get("/summary-count", requireAuth, h.Summary)
	g.Get("/", requireAuth, h.ListLatest)
	g.Get("/push-to-webhook", h.PushToWebhook)
	g.Get("/:id", requireAuth, h.GetNotification)
	g.Put("/:id", requireAuth, h.MarkAsRead)

	return nil
}

type markAsReadRequest struct {
	AdminUserID *int64 `json:"admin_user_id"`
}

type notificationResponse struct {
	ID             uint64     `json:"notification_id"`
	EntityType     string     `json:"entity_type"`
	EntityID       uint64     `json:"entity_id"`
	LicenseID      *uint64    `json:"license_id"`
	ContractID     *uint64    `json:"contract_id"`
	Classification string     `json:"classification"`
	Message        string     `json:"notification_message"`
	ExpiryDate     string     `json:"expiry_date"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at"`
	AdminUserID    *uint64    `json:"admin_user_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

type generateResponse struct {
	Inserted int64 `json:"inserted"`
}

type pushResponse struct {
	Notifications int `json:"notifications"`
	Attempts      int `json:"attempts"`
	StatusCode    int `json:"status_code,omitempty"`
}

func (h *NotificationHandler) Generate(c *fiber.Ctx) error {
	inserted, err := h.service.Generate(c.UserContext())
	if err != nil {
		return err
	}

	return transport.OK(c, fiber.StatusOK, "Notifications generated successfully", generateResponse{Inserted: inserted})
}

func (h *NotificationHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}

	return transport.OK(c, fiber.StatusOK, "Summary counts retrieved successfully", summary)
}

// ListLatest returns the newest notification per entity. An optional
// classification query narrows the list to one state.
func (h *NotificationHandler) ListLatest(c *fiber.Ctx) error {
	var filter domain.Classification
	if raw := c.Query("classification"); strings.TrimSpace(raw) != "" {
		parsed, err := domain.ParseClassificationFromString(raw)
		if err != nil {
			return err
		}
		filter = parsed
	}

	notifications, err := h.service.Latest(c.UserContext())
	if err != nil {
		return err
	}
	if filter != "" {
		notifications = domain.FilterByClassification(notifications, filter)
	}

	return transport.OK(c, fiber.StatusOK, "Notifications retrieved successfully", toNotificationResponses(notifications))
}

func (h *NotificationHandler) PushToWebhook(c *fiber.Ctx) error {
	result, err := h.pusher.Push(c.UserContext())
	if err != nil {
		return err
	}

	if result.Notifications == 0 {
		return transport.OK(c, fiber.StatusOK, "No notifications to push", pushResponse{})
	}

	return transport.OK(c, fiber.StatusOK, "Notifications pushed to webhook successfully", pushResponse{
		Notifications: result.Notifications,
		Attempts:      result.Attempts,
		StatusCode:    result.StatusCode,
	})
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return transport.OK(c, fiber.StatusOK, "Notification retrieved successfully", toNotificationResponse(notification))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	var req markAsReadRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	if req.AdminUserID == nil || *req.AdminUserID <= 0 {
		return fmt.Errorf("%w: admin_user_id must be a positive integer", domain.ErrValidation)
	}

	actorUserID, _ := auth.UserID(c)
	notification, err := h.service.MarkAsRead(c.UserContext(), id, uint64(*req.AdminUserID), actorUserID)
	if err != nil {
		return err
	}

	return transport.OK(c, fiber.StatusOK, "Notification marked as read", toNotificationResponse(notification))
}

func parseNotificationID(c *fiber.Ctx) (uint64, error) {
	raw := strings.TrimSpace(c.Params("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: notification id must be a positive integer", domain.ErrValidation)
	}
	return id, nil
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}
	return responses
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
		ID:             n.ID,
		EntityType:     n.EntityType.String(),
		EntityID:       n.EntityID,
		LicenseID:      n.LicenseID,
		ContractID:     n.ContractID,
		Classification: n.Classification.String(),
		Message:        n.Message,
		ExpiryDate:     n.ExpiryDate.UTC().Format(time.DateOnly),
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		AdminUserID:    n.AdminUserID,
		CreatedAt:      n.CreatedAt,
	}
}
