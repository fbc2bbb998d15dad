package service

import (
	"context"
	"fmt"
	"strings"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
)

const (
	JournalOrderPlace  = "orders.place"
	JournalAfaRegister = "afa.register"
	phoneNumberLength  = 10
)

var knownBundleTypes = map[data.BundleType]struct{}{
	data.MTNUp2U:         {},
	data.MTNJustForU:     {},
	data.ATIShare:        {},
	data.Telecel5959:     {},
	data.AfaRegistration: {},
}

type Orders struct {
	api     OrdersAPI
	journal Journal
	logger  *logging.ZapLogger
}

func NewOrders(api OrdersAPI, journal Journal, logger *logging.ZapLogger) *Orders {
	return &Orders{
		api:     api,
		journal: journal,
		logger:  logger,
	}
}

func validPhone(number string) bool {
	if len(number) != phoneNumberLength {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (o *Orders) Place(ctx context.Context, actor Actor, req igetprotocol.PlaceOrderRequest) (*igetprotocol.Order, error) {
	req.RecipientNumber = strings.TrimSpace(req.RecipientNumber)
	if !validPhone(req.RecipientNumber) {
		return nil, ErrInvalidPhone
	}
	if _, ok := knownBundleTypes[data.BundleType(req.BundleType)]; !ok {
		return nil, missing("bundle type")
	}
	if req.Capacity <= 0 && req.BundleID == "" {
		return nil, missing("capacity")
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	res, err := o.api.PlaceOrder(ctx, actor.Token, req)
	if err != nil {
		return nil, fmt.Errorf("placing order failed: %w", err)
	}
	targets := []string{req.RecipientNumber}
	if res.Data != nil && res.Data.ID != "" {
		targets = []string{res.Data.ID}
	}
	o.journal.Record(ctx, data.JournalEntry{
		Kind:      JournalOrderPlace,
		SessionID: actor.SessionID,
		TargetIDs: targets,
		Payload: map[string]any{
			"bundleType": req.BundleType,
			"capacity":   req.Capacity,
			"recipient":  req.RecipientNumber,
		},
		Modified: 1,
	})
	return res.Data, nil
}

func (o *Orders) RegisterAfa(ctx context.Context, actor Actor, reg igetprotocol.AfaRegistration) error {
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.PhoneNumber = strings.TrimSpace(reg.PhoneNumber)
	required := []struct {
		name  string
		value string
	}{
		{name: "full name", value: reg.FullName},
		{name: "ID type", value: reg.IDType},
		{name: "ID number", value: reg.IDNumber},
		{name: "date of birth", value: reg.DateOfBirth},
		{name: "occupation", value: reg.Occupation},
		{name: "location", value: reg.Location},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return missing(field.name)
		}
	}
	if !validPhone(reg.PhoneNumber) {
		return ErrInvalidPhone
	}
	if reg.Capacity < 0 {
		return ErrInvalidQuantity
	}

	if _, err := o.api.RegisterAfa(ctx, actor.Token, reg); err != nil {
		return fmt.Errorf("AFA registration failed: %w", err)
	}
	o.journal.Record(ctx, data.JournalEntry{
		Kind:      JournalAfaRegister,
		SessionID: actor.SessionID,
		TargetIDs: []string{reg.PhoneNumber},
		Payload:   map[string]any{"fullName": reg.FullName},
		Modified:  1,
	})
	return nil
}

func (o *Orders) AfaRegistrations(ctx context.Context, actor Actor) ([]igetprotocol.AfaRegistration, error) {
	res, err := o.api.ListAfaRegistrations(ctx, actor.Token)
	if err != nil {
		return nil, fmt.Errorf("listing AFA registrations failed: %w", err)
	}
	return res.Data, nil
}
