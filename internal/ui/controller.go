// Package ui holds the subscription form/list state machine and the HTML
// page that drives it.
package ui

import (
	"context"
	"strings"
	"sync"

	"subscription-tracker/internal/client"
	"subscription-tracker/internal/model"

	"github.com/rs/zerolog"
)

// Service is the part of the client SDK the controller needs.
type Service interface {
	GetAllSubscriptions(ctx context.Context) ([]model.Subscription, error)
	CreateSubscription(ctx context.Context, data model.Draft) (*model.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, data model.Draft) (*model.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) (*client.Message, error)
}

var _ Service = (*client.Client)(nil)

type Field int

const (
	FieldName Field = iota
	FieldCost
	FieldStartDate
	FieldEndDate
)

// FormErrors holds one message per required field; empty means valid.
type FormErrors struct {
	Name      string
	Cost      string
	StartDate string
}

func (e FormErrors) Empty() bool {
	return e == FormErrors{}
}

// State is everything the page renders. EditID is empty while creating.
type State struct {
	Subscriptions []model.Subscription
	Draft         model.Draft
	Errors        FormErrors
	EditID        string
}

func (s State) Editing() bool {
	return s.EditID != ""
}

// Validate runs the required-field checks on a draft.
func Validate(d model.Draft) FormErrors {
	var errs FormErrors
	if strings.TrimSpace(d.Name) == "" {
		errs.Name = "Name is required"
	}
	if strings.TrimSpace(d.Cost) == "" {
		errs.Cost = "Cost is required"
	}
	if strings.TrimSpace(d.StartDate) == "" {
		errs.StartDate = "Start date is required"
	}
	return errs
}

// Controller owns the state and is the only thing that mutates it. Each
// transition holds the lock for its whole duration, including the network
// call.
type Controller struct {
	svc Service
	log zerolog.Logger

	mu    sync.Mutex
	state State
}

func NewController(svc Service, log zerolog.Logger) *Controller {
	return &Controller{svc: svc, log: log}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Subscriptions = append([]model.Subscription(nil), c.state.Subscriptions...)
	return s
}

// Load replaces the mirror with the server's list.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs, err := c.svc.GetAllSubscriptions(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Ошибка при загрузке подписок")
		return
	}
	c.state.Subscriptions = subs
}

// SetField updates one draft field. A non-empty value clears that field's
// error; an empty one keeps whatever error was there.
func (c *Controller) SetField(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	filled := strings.TrimSpace(value) != ""
	d, e := &c.state.Draft, &c.state.Errors
	switch field {
	case FieldName:
		d.Name = value
		if filled {
			e.Name = ""
		}
	case FieldCost:
		d.Cost = value
		if filled {
			e.Cost = ""
		}
	case FieldStartDate:
		d.StartDate = value
		if filled {
			e.StartDate = ""
		}
	case FieldEndDate:
		d.EndDate = value
	}
}

// Submit validates the draft and creates or updates a record. It reports
// whether a request was sent and succeeded.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := Validate(c.state.Draft)
	c.state.Errors = errs
	if !errs.Empty() {
		return false
	}

	if c.state.Editing() {
		updated, err := c.svc.UpdateSubscription(ctx, c.state.EditID, c.state.Draft)
		if err != nil {
			c.log.Error().Err(err).Str("id", c.state.EditID).Msg("Ошибка при обновлении подписки")
			return false
		}
		for i, sub := range c.state.Subscriptions {
			if sub.ID.String() == c.state.EditID {
				c.state.Subscriptions[i] = *updated
			}
		}
		c.state.EditID = ""
	} else {
		created, err := c.svc.CreateSubscription(ctx, c.state.Draft)
		if err != nil {
			c.log.Error().Err(err).Msg("Ошибка при создании подписки")
			return false
		}
		c.state.Subscriptions = append(c.state.Subscriptions, *created)
	}

	c.state.Draft = model.Draft{}
	c.state.Errors = FormErrors{}
	return true
}

// BeginEdit loads a record into the draft and enters edit mode.
func (c *Controller) BeginEdit(sub model.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft := model.Draft{
		Name: sub.Name,
		Cost: model.FormatCost(sub.Cost),
	}
	if !sub.StartDate.IsZero() {
		draft.StartDate = model.DateOnly(sub.StartDate)
	}
	if sub.EndDate != nil {
		draft.EndDate = model.DateOnly(*sub.EndDate)
	}

	c.state.EditID = sub.ID.String()
	c.state.Draft = draft
	c.state.Errors = FormErrors{}
}

// BeginEditByID looks the record up in the mirror. It reports false when
// the id is not in the mirror.
func (c *Controller) BeginEditByID(id string) bool {
	c.mu.Lock()
	var (
		found model.Subscription
		ok    bool
	)
	for _, sub := range c.state.Subscriptions {
		if sub.ID.String() == id {
			found, ok = sub, true
			break
		}
	}
	c.mu.Unlock()

	if ok {
		c.BeginEdit(found)
	}
	return ok
}

// Delete removes a record on the server and then from the mirror.
func (c *Controller) Delete(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.svc.DeleteSubscription(ctx, id); err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("Ошибка при удалении подписки")
		return
	}

	kept := c.state.Subscriptions[:0]
	for _, sub := range c.state.Subscriptions {
		if sub.ID.String() != id {
			kept = append(kept, sub)
		}
	}
	c.state.Subscriptions = kept
}
