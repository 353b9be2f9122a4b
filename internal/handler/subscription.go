package handler

import (
	"errors"
	"net/http"

	"subscription-tracker/internal/model"
	"subscription-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Handler struct {
	Store repository.Store
}

func NewHandler(store repository.Store) *Handler {
	return &Handler{Store: store}
}

// CreateSubscription creates a new subscription.
//
//	@Summary		Create a subscription
//	@Description	Create a new subscription record
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSubscriptionRequest	true	"Subscription data"
//	@Success		201	{object}	model.Subscription
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/subscriptions [post]
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var input CreateSubscriptionRequest
	if err := decode(r, &input); err != nil {
		sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.Store.Create(r.Context(), input.toModel())
	if err != nil {
		h.storeError(w, r, err, "Не удалось сохранить подписку")
		return
	}

	SendJSON(w, r, http.StatusCreated, saved)
}

// ListSubscriptions lists all subscriptions.
//
//	@Summary		List subscriptions
//	@Description	Get every stored subscription in store order
//	@Tags			subscriptions
//	@Produce		json
//	@Success		200	{array}		model.Subscription
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/subscriptions [get]
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Ошибка при получении списка подписок")
		return
	}
	if subs == nil {
		subs = []model.Subscription{}
	}

	SendJSON(w, r, http.StatusOK, subs)
}

// GetSubscriptionByID retrieves a subscription by ID.
//
//	@Summary		Get subscription by ID
//	@Description	Get a single subscription by its UUID
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"
//	@Success		200	{object}	model.Subscription
//	@Failure		404	{object}	MessageResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/subscriptions/{id} [get]
func (h *Handler) GetSubscriptionByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendNotFound(w, r)
		return
	}

	sub, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Ошибка при получении подписки")
		return
	}

	SendJSON(w, r, http.StatusOK, sub)
}

// UpdateSubscription updates an existing subscription.
//
//	@Summary		Update subscription
//	@Description	Replace the supplied fields of a subscription
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Subscription ID"
//	@Param			request	body		UpdateSubscriptionRequest	true	"Fields to change"
//	@Success		200	{object}	model.Subscription
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	MessageResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/subscriptions/{id} [put]
func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendNotFound(w, r)
		return
	}

	var input UpdateSubscriptionRequest
	if err := decode(r, &input); err != nil {
		sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Store.Update(r.Context(), id, input.toPatch())
	if err != nil {
		h.storeError(w, r, err, "Не удалось обновить подписку")
		return
	}

	SendJSON(w, r, http.StatusOK, updated)
}

// DeleteSubscription deletes a subscription by ID.
//
//	@Summary		Delete subscription
//	@Description	Delete a subscription by its UUID
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	MessageResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/subscriptions/{id} [delete]
func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendNotFound(w, r)
		return
	}

	if _, err := h.Store.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, err, "Ошибка при удалении подписки")
		return
	}

	SendJSON(w, r, http.StatusOK, MessageResponse{Message: msgDeleted})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// storeError maps a store failure onto the response status.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendNotFound(w, r)
	case errors.Is(err, repository.ErrInvalid):
		sendError(w, r, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(logMsg)
		sendError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the {id} route variable. An id that is not a UUID cannot
// name a stored record.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
