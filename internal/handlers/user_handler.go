package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/services"
)

// UserHandler serves account, session and profile actions.
type UserHandler struct {
	Service *services.SocialGraph
}

func NewUserHandler(service *services.SocialGraph) *UserHandler {
	return &UserHandler{Service: service}
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func bindCredentials(req *models.Request) (credentials, error) {
	c := credentials{Username: strings.TrimSpace(req.Username), Password: req.Password}
	return c, bind(c, "username and password are required")
}

func (h *UserHandler) Register(ctx context.Context, call *Call) (models.Response, error) {
	c, err := bindCredentials(call.Req)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.Register(ctx, c.Username, c.Password); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("user '%s' registered successfully", c.Username), nil), nil
}

func (h *UserHandler) Login(ctx context.Context, call *Call) (models.Response, error) {
	c, err := bindCredentials(call.Req)
	if err != nil {
		return models.Response{}, err
	}
	pending, err := h.Service.Login(call.ConnID, c.Username, c.Password)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("welcome, %s!", c.Username), models.Payload{
		"username":         c.Username,
		"pending_requests": pending,
	}), nil
}

func (h *UserHandler) Logout(ctx context.Context, call *Call) (models.Response, error) {
	if err := h.Service.Logout(call.ConnID); err != nil {
		return models.Response{}, err
	}
	return models.Success("logged out", nil), nil
}

// DeleteAccount removes the caller's account and ends its session.
func (h *UserHandler) DeleteAccount(ctx context.Context, call *Call) (models.Response, error) {
	if err := h.Service.DeleteAccount(ctx, call.User); err != nil {
		return models.Response{}, err
	}
	return models.Success("account deleted", models.Payload{"logout": true}), nil
}

// GetProfile returns the profile named in the request, or the caller's own.
func (h *UserHandler) GetProfile(ctx context.Context, call *Call) (models.Response, error) {
	username := strings.TrimSpace(call.Req.Username)
	if username == "" {
		username = call.User
	}
	profile, err := h.Service.Profile(username)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"profile": profile}), nil
}

func (h *UserHandler) UpdateProfile(ctx context.Context, call *Call) (models.Response, error) {
	profile, err := h.Service.UpdateProfile(ctx, call.User, call.Req.Description, call.Req.PhotoURL)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("profile updated", models.Payload{"profile": profile}), nil
}

func (h *UserHandler) Search(ctx context.Context, call *Call) (models.Response, error) {
	return models.Success("", models.Payload{"users": h.Service.Search(call.Req.Query)}), nil
}

func (h *UserHandler) GetAllUsers(ctx context.Context, call *Call) (models.Response, error) {
	return models.Success("", models.Payload{"users": h.Service.AllUsernames()}), nil
}
