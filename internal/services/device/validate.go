package device

import (
	"errors"
	"strings"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/interval"
	"github.com/micro-ha/nocontact/internal/model"
)

type formFields struct {
	phone    string
	location string
	hours    int
	active   bool
}

func validateInput(in devicedomain.Input) (formFields, error) {
	fields := formFields{
		phone:    model.NormalizePhone(in.PhoneNumber),
		location: strings.TrimSpace(in.Location),
		hours:    interval.DefaultHours,
		active:   true,
	}
	if fields.location == "" {
		return formFields{}, errors.New("location is required")
	}
	if fields.phone == "" {
		return formFields{}, errors.New("phone number is required")
	}
	if in.ThresholdHours != nil {
		fields.hours = *in.ThresholdHours
	}
	if err := interval.ValidateFormHours(fields.hours); err != nil {
		return formFields{}, err
	}
	if in.Active != nil {
		fields.active = *in.Active
	}
	return fields, nil
}

func filterViews(items []devicedomain.View, filter devicedomain.ListFilter) []devicedomain.View {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]devicedomain.View, 0, len(items))
	for _, item := range items {
		if filter.State != "" && item.Status.State != filter.State {
			continue
		}
		if filter.Active != nil && item.Active != *filter.Active {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item devicedomain.View, query string) bool {
	if strings.Contains(strings.ToLower(item.Location), query) {
		return true
	}
	phone := model.NormalizePhone(query)
	return phone != "" && strings.Contains(item.PhoneNumber, phone)
}
