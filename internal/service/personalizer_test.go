package service

import (
	"reflect"
	"testing"

	"github.com/pitchkit/outreach-backend/internal/model"
)

func TestPersonalize(t *testing.T) {
	contact := &model.Contact{
		Email:     "ana@example.com",
		FirstName: "Ana",
		Company:   "Acme Corp",
		CustomFields: map[string]string{
			"Pain Point": "onboarding churn",
		},
	}
	fields := contact.Fields()

	tests := []struct {
		name       string
		template   string
		fallbacks  map[string]string
		want       string
		unresolved []string
	}{
		{
			name:     "pipe fallback used when field missing",
			template: "Hi {{nickname|there}}",
			want:     "Hi there",
		},
		{
			name:     "field wins over pipe fallback",
			template: "Hi {{first_name|there}}",
			want:     "Hi Ana",
		},
		{
			name:     "plain tag resolves against contact",
			template: "{{first_name}} at {{company}}",
			want:     "Ana at Acme Corp",
		},
		{
			name:     "lookup ignores case, spaces and underscores",
			template: "{{First Name}} / {{firstName}} / {{FIRST_NAME}}",
			want:     "Ana / Ana / Ana",
		},
		{
			name:     "custom field with spaced key",
			template: "about {{pain_point}}",
			want:     "about onboarding churn",
		},
		{
			name:      "tenant fallback covers missing field",
			template:  "Hi {{first_name}} from {{company}}",
			fallbacks: map[string]string{"firstname": "there", "company": "your company"},
			want:      "Hi Ana from Acme Corp",
		},
		{
			name:       "unresolved tag left verbatim and reported",
			template:   "your {{budget}} for Q3",
			want:       "your {{budget}} for Q3",
			unresolved: []string{"budget"},
		},
		{
			name:       "mix of resolved and unresolved",
			template:   "{{first_name}} {{budget}} {{region}}",
			want:       "Ana {{budget}} {{region}}",
			unresolved: []string{"budget", "region"},
		},
		{
			name:     "empty pipe fallback resolves to empty string",
			template: "Hi{{nickname|}}",
			want:     "Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Personalize(tt.template, fields, NormalizeFallbacks(tt.fallbacks))
			if got.Text != tt.want {
				t.Errorf("text: got %q, want %q", got.Text, tt.want)
			}
			wantUnresolved := tt.unresolved
			if wantUnresolved == nil {
				wantUnresolved = []string{}
			}
			if !reflect.DeepEqual(got.Unresolved, wantUnresolved) {
				t.Errorf("unresolved: got %v, want %v", got.Unresolved, wantUnresolved)
			}
		})
	}
}

func TestPersonalizeEmptyContact(t *testing.T) {
	empty := (&model.Contact{}).Fields()

	got := Personalize("{{first_name|there}}", empty, nil)
	if got.Text != "there" || len(got.Unresolved) != 0 {
		t.Errorf("got %q unresolved=%v, want \"there\" with none unresolved", got.Text, got.Unresolved)
	}

	got = Personalize("{{first_name}}", map[string]string{"firstname": "Ana"}, nil)
	if got.Text != "Ana" || len(got.Unresolved) != 0 {
		t.Errorf("got %q unresolved=%v, want \"Ana\" with none unresolved", got.Text, got.Unresolved)
	}
}

func TestNormalizeFieldKey(t *testing.T) {
	for _, variant := range []string{"First Name", "first_name", "firstName", "FIRST-NAME", " first name "} {
		if got := model.NormalizeFieldKey(variant); got != "firstname" {
			t.Errorf("NormalizeFieldKey(%q) = %q, want firstname", variant, got)
		}
	}
}
