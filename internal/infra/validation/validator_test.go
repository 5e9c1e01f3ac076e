package validation

import (
	"context"
	"errors"
	"testing"
)

type room struct {
	Name      string `validate:"required"`
	Occupancy int    `validate:"gte=0"`
}

type payload struct {
	Title string `validate:"required"`
	Rooms []room `validate:"dive"`
}

func TestValidateReportsNestedFields(t *testing.T) {
	err := New().Validate(context.Background(), payload{Rooms: []room{{Name: "A", Occupancy: -1}}})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if verr.Fields[0].Field != "title" || verr.Fields[1].Field != "rooms[0].occupancy" {
		t.Fatalf("unexpected fields %+v", verr.Fields)
	}
}

func TestValidateIgnoresNonStructs(t *testing.T) {
	if err := New().Validate(context.Background(), "plain"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := New().Validate(context.Background(), &payload{Title: "ok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
