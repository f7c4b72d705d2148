package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/chefhut/pkg/validate"
)

type submitInput struct {
	UserEmail   string  `json:"userEmail"   validate:"required,email"`
	UserName    string  `json:"userName"    validate:"required,min=2,max=100"`
	RequestType string  `json:"requestType" validate:"required,in=chef,admin"`
	Price       float64 `json:"price"       validate:"nullable,gt=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(submitInput{
		UserEmail:   "a@x.com",
		UserName:    "A Chef",
		RequestType: "chef",
		Price:       100,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(submitInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["userEmail"]; !ok {
		t.Error("expected userEmail to be required")
	}
	if _, ok := errs["requestType"]; !ok {
		t.Error("expected requestType to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Type string `json:"requestType" validate:"required,in=chef,admin"`
	}
	if errs := validate.Struct(in{Type: "owner"}); !validate.HasErrors(errs) {
		t.Error("expected invalid type to fail")
	}
	if errs := validate.Struct(in{Type: "admin"}); validate.HasErrors(errs) {
		t.Errorf("expected admin to pass: %v", errs)
	}
}

func TestInFollowedByAnotherRule(t *testing.T) {
	type in struct {
		Status string `json:"orderStatus" validate:"required,in=pending,accepted,delivered,cancelled,max=20"`
	}
	if errs := validate.Struct(in{Status: "accepted"}); validate.HasErrors(errs) {
		t.Errorf("expected accepted to pass: %v", errs)
	}
	if errs := validate.Struct(in{Status: "not-a-status"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if errs := validate.Struct(in{Quantity: 0}); !validate.HasErrors(errs) {
		t.Error("expected zero quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 2}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 2 to pass, got: %v", errs)
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(submitInput{
		UserEmail:   "a@x.com",
		UserName:    "A",
		RequestType: "chef",
		// Price omitted; nullable, so gt=0 must not fire.
	})
	if _, ok := errs["price"]; ok {
		t.Error("nullable price should not be validated when empty")
	}
}
