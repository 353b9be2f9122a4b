package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"subscription-tracker/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
}

// ValidationError is returned for malformed or incomplete request bodies.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CreateSubscriptionRequest represents the request body for creating a subscription.
//
//	@Description	Subscription creation request
type CreateSubscriptionRequest struct {
	Name      *string      `json:"name" validate:"required,notblank" example:"Netflix"`
	Cost      *Cost        `json:"cost" validate:"required" swaggertype:"number" example:"10"`
	StartDate *Date        `json:"startDate" validate:"required" swaggertype:"string" example:"2023-01-01"`
	EndDate   OptionalDate `json:"endDate" swaggertype:"string" example:"2023-12-31"`
}

// UpdateSubscriptionRequest carries the fields to change; omitted fields are kept.
//
//	@Description	Subscription update request
type UpdateSubscriptionRequest struct {
	Name      *string      `json:"name" validate:"omitnil,notblank" example:"Netflix"`
	Cost      *Cost        `json:"cost" swaggertype:"number" example:"12"`
	StartDate *Date        `json:"startDate" swaggertype:"string" example:"2023-01-01"`
	EndDate   OptionalDate `json:"endDate" swaggertype:"string" example:""`
}

func (req CreateSubscriptionRequest) toModel() *model.Subscription {
	return &model.Subscription{
		Name:      *req.Name,
		Cost:      req.Cost.Value,
		StartDate: req.StartDate.Time,
		EndDate:   req.EndDate.Time,
	}
}

func (req UpdateSubscriptionRequest) toPatch() model.SubscriptionPatch {
	patch := model.SubscriptionPatch{
		Name:       req.Name,
		SetEndDate: req.EndDate.Set,
		EndDate:    req.EndDate.Time,
	}
	if req.Cost != nil {
		patch.Cost = &req.Cost.Value
	}
	if req.StartDate != nil {
		patch.StartDate = &req.StartDate.Time
	}
	return patch
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{Message: err.Error()}
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" is required")
		}
		return &ValidationError{Message: "validation failed: " + strings.Join(msgs, "; ")}
	}
	return nil
}

// Cost accepts either a JSON number or a numeric string.
type Cost struct {
	Value float64
}

func (c *Cost) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("cost: %q is not a number", s)
	}
	c.Value = v
	return nil
}

// Date accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// OptionalDate records whether the field was present. An empty string or
// null clears the date.
type OptionalDate struct {
	Set  bool
	Time *time.Time
}

func (d *OptionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Time = nil
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = &t
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{model.DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid date", s)
}
