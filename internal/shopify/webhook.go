package shopify

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"invoicer/internal/domain"
)

// Header names Shopify sets on webhook deliveries.
const (
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderHmac       = "X-Shopify-Hmac-Sha256"
	HeaderTopic      = "X-Shopify-Topic"
)

// Webhook is a decoded order delivery.
type Webhook struct {
	Shop  string
	Order *Order
	// Raw is the order JSON after unwrapping any gateway envelope.
	Raw json.RawMessage
}

type envelope struct {
	Headers         map[string]Text `json:"headers"`
	Body            json.RawMessage `json:"body"`
	IsBase64Encoded bool            `json:"isBase64Encoded"`
}

// ParseWebhook decodes a delivery that is either a bare order or an
// API-Gateway style envelope whose body holds the order as a JSON string or
// object. The shop is taken from the X-Shopify-Shop-Domain header, then the
// order body, then defaultShop.
func ParseWebhook(body []byte, headers http.Header, defaultShop string) (*Webhook, error) {
	raw, envHeaders, err := unwrap(body)
	if err != nil {
		return nil, fmt.Errorf("shopify.ParseWebhook: %v: %w", err, domain.ErrUpstreamParse)
	}

	order, err := DecodeOrder(raw)
	if err != nil {
		return nil, fmt.Errorf("shopify.ParseWebhook: decoding order: %v: %w", err, domain.ErrUpstreamParse)
	}

	shop := headers.Get(HeaderShopDomain)
	if shop == "" {
		shop = lookupHeader(envHeaders, HeaderShopDomain)
	}
	if shop == "" {
		shop = order.BodyShopDomain()
	}
	if shop == "" {
		shop = defaultShop
	}

	return &Webhook{Shop: strings.TrimSpace(shop), Order: order, Raw: raw}, nil
}

// FromRaw rebuilds a webhook from a stored order payload.
func FromRaw(shop string, raw json.RawMessage) (*Webhook, error) {
	order, err := DecodeOrder(raw)
	if err != nil {
		return nil, fmt.Errorf("shopify.FromRaw: %v: %w", err, domain.ErrUpstreamParse)
	}
	return &Webhook{Shop: shop, Order: order, Raw: raw}, nil
}

func unwrap(body []byte) (json.RawMessage, map[string]Text, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, nil, fmt.Errorf("payload is not a JSON object")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, nil, err
	}
	_, hasBody := probe["body"]
	_, hasItems := probe["line_items"]
	if !hasBody || hasItems {
		return body, nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, fmt.Errorf("decoding envelope: %w", err)
	}
	inner := bytes.TrimSpace(env.Body)
	if len(inner) > 0 && inner[0] == '"' {
		var s string
		if err := json.Unmarshal(inner, &s); err != nil {
			return nil, nil, fmt.Errorf("decoding envelope body: %w", err)
		}
		inner = []byte(s)
		if env.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, nil, fmt.Errorf("decoding base64 body: %w", err)
			}
			inner = decoded
		}
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 || inner[0] != '{' {
		return nil, nil, fmt.Errorf("envelope body is not a JSON object")
	}
	return inner, env.Headers, nil
}

func lookupHeader(headers map[string]Text, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v.String()
		}
	}
	return ""
}
