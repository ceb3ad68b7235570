package model

import (
	"reflect"
	"testing"
)

func TestFactsPanel_Sources(t *testing.T) {
	panel := FactsPanel{Items: []Fact{
		{Label: "a", Value: "1", Source: "vw_round_facts"},
		{Label: "b", Value: "2", Source: "vw_team_form_5"},
		{Label: "c", Value: "3", Source: "vw_round_facts"},
	}}

	got := panel.Sources()
	want := []string{"vw_round_facts", "vw_team_form_5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
}

func TestFactsPanel_Sources_Empty(t *testing.T) {
	if got := (FactsPanel{}).Sources(); len(got) != 0 {
		t.Errorf("Sources() = %v, want empty", got)
	}
}
