package mpesa

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ReceiptItemName is the metadata entry carrying the M-Pesa receipt number.
const ReceiptItemName = "MpesaReceiptNumber"

// Callback is the envelope the provider posts to CallBackURL once the payer
// answered (or ignored) the prompt.
type Callback struct {
	Body *CallbackBody `json:"Body" validate:"required"`
}

type CallbackBody struct {
	StkCallback *StkCallback `json:"stkCallback" validate:"required"`
}

type StkCallback struct {
	MerchantRequestID *string           `json:"MerchantRequestID" validate:"required"`
	CheckoutRequestID string            `json:"CheckoutRequestID" validate:"required"`
	ResultCode        *int              `json:"ResultCode" validate:"required"`
	ResultDesc        *string           `json:"ResultDesc" validate:"required"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []MetadataItem `json:"Item" validate:"required,dive"`
}

type MetadataItem struct {
	Name  string         `json:"Name" validate:"required"`
	Value *MetadataValue `json:"Value,omitempty"`
}

// MetadataValue is a string or a number, kept exactly as received.
type MetadataValue struct {
	raw json.RawMessage
}

func StringValue(s string) *MetadataValue {
	b, _ := json.Marshal(s)
	return &MetadataValue{raw: b}
}

func NumberValue(n float64) *MetadataValue {
	return &MetadataValue{raw: json.RawMessage(strconv.FormatFloat(n, 'f', -1, 64))}
}

var errMetadataValue = errors.New("metadata value must be a string or a number")

func (v *MetadataValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errMetadataValue
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
	default:
		return errMetadataValue
	}
	v.raw = append(v.raw[:0], b...)
	return nil
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// String renders the value without JSON quoting.
func (v *MetadataValue) String() string {
	if v == nil || len(v.raw) == 0 {
		return ""
	}
	if v.raw[0] == '"' {
		var s string
		_ = json.Unmarshal(v.raw, &s)
		return s
	}
	return string(v.raw)
}

// Receipt returns the MpesaReceiptNumber entry, if any.
func (m *CallbackMetadata) Receipt() (string, bool) {
	if m == nil {
		return "", false
	}
	for _, it := range m.Item {
		if it.Name == ReceiptItemName && it.Value != nil {
			return it.Value.String(), true
		}
	}
	return "", false
}
