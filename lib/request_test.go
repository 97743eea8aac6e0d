package lib

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

func TestExtractAndValidateBodyValidOrder(t *testing.T) {
	body := `{
		"items": [{"product_id": "7f9b2c9e-4a34-4c8e-9f1d-2a6b8c0d4e5f", "variant_id": "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d", "quantity": 2}],
		"shipping_info": {
			"name": "Deniz Kaya",
			"email": "deniz@example.com",
			"phone": "+905321234567",
			"street": "Atatürk Cad.",
			"house_no": "14",
			"postal_code": "48400",
			"city": "Bodrum",
			"country": "TR"
		},
		"payment_method": "card"
	}`

	r := httptest.NewRequest("POST", "/orders/create", strings.NewReader(body))
	parsed, err := ExtractAndValidateBody[structs.OrderRequest](r)
	require.NoError(t, err)
	assert.Len(t, parsed.Items, 1)
	assert.Equal(t, 2, parsed.Items[0].Quantity)
	assert.Equal(t, "card", parsed.PaymentMethod)
	assert.Equal(t, "Bodrum", parsed.ShippingInfo.City)
}

func TestExtractAndValidateBodyRejectsUnknownFields(t *testing.T) {
	body := `{"email": "a@b.com", "order_number": "HS-20260101-AAAA", "bogus": true}`

	r := httptest.NewRequest("POST", "/orders/track", strings.NewReader(body))
	_, err := ExtractAndValidateBody[structs.TrackOrderRequest](r)
	assert.Error(t, err)
}

func TestExtractAndValidateBodyMissingRequired(t *testing.T) {
	body := `{"email": "not-an-email"}`

	r := httptest.NewRequest("POST", "/orders/track", strings.NewReader(body))
	_, err := ExtractAndValidateBody[structs.TrackOrderRequest](r)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := make(map[string]string)
	for _, fe := range ve.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "ordernumber")
}

func TestExtractAndValidateBodyInvalidPaymentMethod(t *testing.T) {
	body := `{
		"items": [{"product_id": "7f9b2c9e-4a34-4c8e-9f1d-2a6b8c0d4e5f", "variant_id": "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d", "quantity": 1}],
		"shipping_info": {
			"name": "Deniz Kaya",
			"email": "deniz@example.com",
			"phone": "+905321234567",
			"street": "Atatürk Cad.",
			"house_no": "14",
			"postal_code": "48400",
			"city": "Bodrum"
		},
		"payment_method": "crypto"
	}`

	r := httptest.NewRequest("POST", "/orders/create", strings.NewReader(body))
	_, err := ExtractAndValidateBody[structs.OrderRequest](r)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestExtractAndValidateBodyZeroQuantity(t *testing.T) {
	body := `{
		"items": [{"product_id": "7f9b2c9e-4a34-4c8e-9f1d-2a6b8c0d4e5f", "variant_id": "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d", "quantity": 0}],
		"shipping_info": {
			"name": "Deniz Kaya",
			"email": "deniz@example.com",
			"phone": "+905321234567",
			"street": "Atatürk Cad.",
			"house_no": "14",
			"postal_code": "48400",
			"city": "Bodrum"
		},
		"payment_method": "cod"
	}`

	r := httptest.NewRequest("POST", "/orders/create", strings.NewReader(body))
	_, err := ExtractAndValidateBody[structs.OrderRequest](r)
	assert.Error(t, err)
}

func TestExtractAndValidateBodyMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/orders/track", strings.NewReader(`{"email":`))
	_, err := ExtractAndValidateBody[structs.TrackOrderRequest](r)
	assert.Error(t, err)
}
