package mpesa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// Result codes the gateway reports for a finished push.
const (
	ResultCodeSuccess   = 0
	ResultCodeCancelled = 1032
	ResultCodeTimeout   = 1037
)

// CallbackEnvelope is the body the gateway posts to the callback URL.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type StkCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	// ResultCode is nil when the field is absent from the body.
	ResultCode       *int   `json:"ResultCode"`
	ResultDesc       string `json:"ResultDesc"`
	CallbackMetadata struct {
		Item []MetadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type MetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// Ack is the only response the gateway ever receives from the callback.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

var Accepted = Ack{ResultCode: 0, ResultDesc: "Accepted"}

// ParseCallback decodes a callback body into a payment outcome.
func ParseCallback(body []byte) (payment.Outcome, error) {
	var env CallbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return payment.Outcome{}, errs.NewValueIsInvalidErrorWithCause("callback", err)
	}

	cb := env.Body.StkCallback
	handle := strings.TrimSpace(cb.CheckoutRequestID)
	if handle == "" {
		return payment.Outcome{}, errs.NewValueIsRequiredError("CheckoutRequestID")
	}

	if cb.ResultCode == nil {
		return payment.Outcome{}, errs.NewValueIsRequiredError("ResultCode")
	}
	if code := *cb.ResultCode; code != ResultCodeSuccess {
		return payment.Outcome{Handle: handle, Result: payment.ResultFailed, Reason: failureReason(code, cb.ResultDesc)}, nil
	}

	outcome := payment.Outcome{Handle: handle, Result: payment.ResultSucceeded}
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "MpesaReceiptNumber":
			outcome.Receipt = metadataString(item.Value)
		case "Amount":
			var amount float64
			if err := json.Unmarshal(item.Value, &amount); err == nil {
				paid := int64(amount)
				outcome.Amount = &paid
			}
		}
	}
	return outcome, nil
}

func failureReason(code int, desc string) string {
	switch code {
	case ResultCodeCancelled:
		return "Transaction cancelled by user"
	case ResultCodeTimeout:
		return "Transaction timed out"
	}
	if desc = strings.TrimSpace(desc); desc != "" {
		return desc
	}
	return fmt.Sprintf("%s (code %d)", payment.ReasonUnspecified, code)
}

func metadataString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
