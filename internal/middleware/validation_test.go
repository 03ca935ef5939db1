package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localshop/internal/service"
)

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Feature: localshop, Property 13: Negative prices and stock never pass validation
func TestProperty_ProductInputRejectsNegativeNumbers(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("price and stock below zero are reported by field", prop.ForAll(
		func(price float64, stock int) bool {
			in := service.ProductInput{Name: "Widget", Price: price, Stock: stock}
			errs := FormatValidationErrors(ValidateRequest(&in))

			fields := map[string]bool{}
			for _, e := range errs {
				fields[e.Field] = true
			}
			return fields["price"] == (price < 0) && fields["stock"] == (stock < 0)
		},
		gen.Float64Range(-1000, 1000),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidateReportsJSONFieldNames(t *testing.T) {
	var in service.RegisterInput
	err := DecodeAndValidate(jsonRequest(`{"name":"A","email":"not-an-email"}`), &in)
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Value is too short", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "This field is required", fields["password"])
}

func TestPatchValidationSkipsAbsentFields(t *testing.T) {
	var patch service.ProductPatch
	require.NoError(t, DecodeAndValidate(jsonRequest(`{"description":"new"}`), &patch))
	assert.Nil(t, patch.Price)

	err := DecodeAndValidate(jsonRequest(`{"stock":-1}`), &patch)
	require.Error(t, err)
	assert.Equal(t, "stock", FormatValidationErrors(err)[0].Field)
}

func TestOrderStatusValidation(t *testing.T) {
	var in service.OrderInput
	err := DecodeAndValidate(jsonRequest(`{"status":"shipped","items":[{"productId":"1","quantity":-2}]}`), &in)
	require.Error(t, err)

	fields := map[string]bool{}
	for _, e := range FormatValidationErrors(err) {
		fields[e.Field] = true
	}
	assert.True(t, fields["status"])
	assert.True(t, fields["quantity"])
}

func TestRespondWithDecodeError(t *testing.T) {
	var in service.ProductInput
	err := DecodeAndValidate(jsonRequest(`{not json`), &in)

	w := httptest.NewRecorder()
	RespondWithDecodeError(w, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}
