package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/services"
)

// FriendHandler serves the friend-request workflow and friend lists.
type FriendHandler struct {
	Service *services.SocialGraph
}

func NewFriendHandler(service *services.SocialGraph) *FriendHandler {
	return &FriendHandler{Service: service}
}

type target struct {
	Name string `validate:"required"`
}

// bindTarget trims and validates the other party of a friend action.
func bindTarget(name string) (string, error) {
	t := target{Name: strings.TrimSpace(name)}
	return t.Name, bind(t, "you must specify a user")
}

func (h *FriendHandler) SendRequest(ctx context.Context, call *Call) (models.Response, error) {
	to, err := bindTarget(call.Req.ToUser)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.SendRequest(ctx, call.User, to); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("friend request sent to '%s'", to), nil), nil
}

func (h *FriendHandler) AcceptRequest(ctx context.Context, call *Call) (models.Response, error) {
	from, err := bindTarget(call.Req.FromUser)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.AcceptRequest(ctx, call.User, from); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("you are now friends with '%s'", from), nil), nil
}

func (h *FriendHandler) RejectRequest(ctx context.Context, call *Call) (models.Response, error) {
	from, err := bindTarget(call.Req.FromUser)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.RejectRequest(ctx, call.User, from); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("friend request from '%s' rejected", from), nil), nil
}

func (h *FriendHandler) CancelRequest(ctx context.Context, call *Call) (models.Response, error) {
	to, err := bindTarget(call.Req.ToUser)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.CancelRequest(ctx, call.User, to); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("friend request to '%s' cancelled", to), nil), nil
}

func (h *FriendHandler) RemoveFriend(ctx context.Context, call *Call) (models.Response, error) {
	friend, err := bindTarget(call.Req.Friend)
	if err != nil {
		return models.Response{}, err
	}
	if err := h.Service.RemoveFriend(ctx, call.User, friend); err != nil {
		return models.Response{}, err
	}
	return models.Success(fmt.Sprintf("you are no longer friends with '%s'", friend), nil), nil
}

func (h *FriendHandler) GetFriends(ctx context.Context, call *Call) (models.Response, error) {
	friends, err := h.Service.Friends(call.User)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"friends": friends}), nil
}

func (h *FriendHandler) GetPendingRequests(ctx context.Context, call *Call) (models.Response, error) {
	pending, err := h.Service.PendingRequests(call.User)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"pending_requests": pending}), nil
}

func (h *FriendHandler) GetSentRequests(ctx context.Context, call *Call) (models.Response, error) {
	sent, err := h.Service.SentRequests(call.User)
	if err != nil {
		return models.Response{}, err
	}
	return models.Success("", models.Payload{"sent_requests": sent}), nil
}
