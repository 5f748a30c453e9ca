package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/services"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Call is one decoded request together with the identity of the
// connection it arrived on.
type Call struct {
	ConnID string
	// User is the logged-in account, empty for public actions.
	User string
	Req  *models.Request
}

// HandlerFunc serves one action.
type HandlerFunc func(ctx context.Context, call *Call) (models.Response, error)

type route struct {
	auth   bool
	handle HandlerFunc
}

// Dispatcher routes protocol requests to the social graph. It is shared
// by every connection, whatever the transport.
type Dispatcher struct {
	graph  *services.SocialGraph
	routes map[string]route
}

var validate = validator.New()

// bind validates v against its struct tags and reports msg on failure.
func bind(v any, msg string) error {
	if err := validate.Struct(v); err != nil {
		return apperrors.Validation("%s", msg)
	}
	return nil
}

// NewDispatcher builds the action table.
func NewDispatcher(graph *services.SocialGraph) *Dispatcher {
	users := NewUserHandler(graph)
	friends := NewFriendHandler(graph)
	network := NewNetworkHandler(graph)

	d := &Dispatcher{graph: graph}
	d.routes = map[string]route{
		"register":       {auth: false, handle: users.Register},
		"login":          {auth: false, handle: users.Login},
		"logout":         {auth: true, handle: users.Logout},
		"delete_account": {auth: true, handle: users.DeleteAccount},

		"get_user_profile": {auth: true, handle: users.GetProfile},
		"update_profile":   {auth: true, handle: users.UpdateProfile},
		"search_users":     {auth: true, handle: users.Search},
		"get_all_users":    {auth: true, handle: users.GetAllUsers},

		"send_friend_request":   {auth: true, handle: friends.SendRequest},
		"accept_friend_request": {auth: true, handle: friends.AcceptRequest},
		"reject_friend_request": {auth: true, handle: friends.RejectRequest},
		"cancel_friend_request": {auth: true, handle: friends.CancelRequest},
		"remove_friend":         {auth: true, handle: friends.RemoveFriend},
		"get_friends":           {auth: true, handle: friends.GetFriends},
		"get_pending_requests":  {auth: true, handle: friends.GetPendingRequests},
		"get_sent_requests":     {auth: true, handle: friends.GetSentRequests},

		"get_mutual_friends": {auth: true, handle: network.MutualFriends},
		"are_friends":        {auth: true, handle: network.AreFriends},
		"get_network":        {auth: true, handle: network.GetNetwork},
		"find_path":          {auth: true, handle: network.FindPath},
		"get_statistics":     {auth: true, handle: network.GetStatistics},
	}
	return d
}

// Dispatch decodes raw, runs the action and returns the response to send.
// It never fails the connection: every problem becomes an error response.
func (d *Dispatcher) Dispatch(ctx context.Context, connID string, raw []byte) models.Response {
	start := time.Now()

	var req models.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Log.WithFields(logrus.Fields{"conn": connID, "error": err}).Debug("Undecodable request")
		return d.observe("invalid", start, failure(apperrors.ErrInvalidFormat))
	}

	rt, ok := d.routes[req.Action]
	if !ok {
		resp := models.Failure(string(apperrors.KindValidation), "", "unknown action: "+req.Action)
		return d.observe("unknown", start, resp)
	}

	call := &Call{ConnID: connID, Req: &req}
	if rt.auth {
		user, ok := d.graph.CurrentUser(connID)
		if !ok {
			return d.observe(req.Action, start, failure(apperrors.ErrUnauthenticated))
		}
		call.User = user
	}

	resp, err := rt.handle(ctx, call)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"conn":   connID,
			"action": req.Action,
			"user":   call.User,
			"error":  err,
		}).Debug("Request failed")
		resp = failure(err)
	}
	return d.observe(req.Action, start, resp)
}

func (d *Dispatcher) observe(action string, start time.Time, resp models.Response) models.Response {
	metrics.RequestsTotal.WithLabelValues(action, resp.Status).Inc()
	metrics.RequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	return resp
}

// Disconnect releases the session held by connID, if any.
func (d *Dispatcher) Disconnect(connID string) {
	d.graph.Disconnect(connID)
}

func failure(err error) models.Response {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return models.Failure(string(appErr.Kind), appErr.Code, appErr.Message)
	}
	logger.Log.WithError(err).Error("Unexpected error while handling request")
	return models.Failure(string(apperrors.KindInternal), "", apperrors.ErrInternal.Message)
}
