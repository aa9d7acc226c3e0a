package kommo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
)

var ErrNotConfigured = errors.New("kommo is not configured")

type Client struct {
	apiToken string
	baseURL  string
	statusID int
	http     *resty.Client
}

func NewClient(apiToken, baseURL string, statusID int) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		apiToken: apiToken,
		baseURL:  baseURL,
		statusID: statusID,
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiToken).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetTimeout(15 * time.Second),
	}
}

// SyncOrder creates a CRM lead for a freshly created order.
func (c *Client) SyncOrder(ctx context.Context, event entity.LeadEvent) error {
	name := event.CustomerName
	if name == "" {
		name = "+" + event.PhoneNumber
	}
	_, err := c.CreateLead(ctx, CreateLeadInput{
		CustomerName: name,
		Phone:        event.PhoneNumber,
		City:         event.City,
		OrderID:      event.OrderID,
		Price:        event.TotalAmount,
	})
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.apiToken == "" || c.baseURL == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	lead := map[string]any{
		"name":  fmt.Sprintf("%s - WhatsApp order %s", input.CustomerName, shortID(input.OrderID)),
		"price": int(input.Price + 0.5),
		"_embedded": map[string]any{
			"tags": []map[string]any{
				{"name": "whatsapp_order"},
			},
			"contacts": []map[string]any{
				{"id": contactID},
			},
		},
	}
	if c.statusID > 0 {
		lead["status_id"] = c.statusID
	}

	var result embeddedLeads
	if err := c.do(ctx, c.http.R().SetBody([]map[string]any{lead}), http.MethodPost, "/leads", &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("create lead: empty response")
	}

	leadID := result.Embedded.Leads[0].ID
	log.Info().Int("kommo_lead_id", leadID).Str("order_id", input.OrderID).Msg("✅ Kommo lead created")
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil && contactID > 0 {
		log.Debug().Int("contact_id", contactID).Msg("Kommo contact found")
		return contactID, nil
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedContacts
	if err := c.do(ctx, c.http.R().SetQueryParam("query", phone), http.MethodGet, "/contacts", &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, errors.New("contact not found")
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contact := map[string]any{
		"name": input.CustomerName,
		"custom_fields_values": []map[string]any{
			{
				"field_code": "PHONE",
				"values": []map[string]any{
					{"value": "+" + input.Phone, "enum_code": "MOB"},
				},
			},
		},
	}

	var result embeddedContacts
	if err := c.do(ctx, c.http.R().SetBody([]map[string]any{contact}), http.MethodPost, "/contacts", &result); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("create contact: empty response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

// do executes req and decodes a JSON body into out. A 204 leaves out untouched.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string, out any) error {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode() == http.StatusNoContent:
		return nil
	case resp.IsError():
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode(), resp.String())
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
