package handlers

import (
	"context"
	"strings"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/services"
)

// NetworkHandler serves read-only queries over the whole graph.
type NetworkHandler struct {
	Service *services.SocialGraph
}

func NewNetworkHandler(service *services.SocialGraph) *NetworkHandler {
	return &NetworkHandler{Service: service}
}

type endpoints struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

func (h *NetworkHandler) MutualFriends(ctx context.Context, call *Call) (models.Response, error) {
	other, err := bindTarget(call.Req.Other)
	if err != nil {
		return models.Response{}, err
	}
	mutual, err := h.Service.MutualFriends(call.User, other)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"mutual_friends": mutual}), nil
}

func (h *NetworkHandler) AreFriends(ctx context.Context, call *Call) (models.Response, error) {
	other, err := bindTarget(call.Req.Other)
	if err != nil {
		return models.Response{}, err
	}
	ok, err := h.Service.AreFriends(call.User, other)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"are_friends": ok}), nil
}

func (h *NetworkHandler) GetNetwork(ctx context.Context, call *Call) (models.Response, error) {
	return models.Success("", models.Payload{"network": h.Service.Network()}), nil
}

func (h *NetworkHandler) FindPath(ctx context.Context, call *Call) (models.Response, error) {
	e := endpoints{From: strings.TrimSpace(call.Req.FromUser), To: strings.TrimSpace(call.Req.ToUser)}
	if err := bind(e, "from_user and to_user are required"); err != nil {
		return models.Response{}, err
	}
	path, err := h.Service.FindPath(e.From, e.To)
	if err != nil {
		return models.Response{}, err
	}
	msg := ""
	if len(path) == 0 {
		msg = "no connection between '" + e.From + "' and '" + e.To + "'"
	}
	return models.Success(msg, models.Payload{"path": path}), nil
}

func (h *NetworkHandler) GetStatistics(ctx context.Context, call *Call) (models.Response, error) {
	stats, err := h.Service.Statistics()
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"statistics": stats}), nil
}
