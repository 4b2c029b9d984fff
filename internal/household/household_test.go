package household

import "testing"

func TestRestrictionCategory(t *testing.T) {
	cases := []struct {
		name string
		want RestrictionCategory
	}{
		{"Gluten-Free", CategoryGluten},
		{"my son has celiac disease", CategoryGluten},
		{"Lactose Intolerant", CategoryDairy},
		{"Vegetarian", CategoryVegetarian},
		{"Vegan", CategoryVegan},
		{"Nut-Free", CategoryNut},
		{"Peanut Allergy", CategoryNut},
		{"Shellfish Allergy", CategoryShellfish},
		{"no red meat", CategoryRedMeat},
		{"Egg-Free", CategoryEgg},
		{"Soy-Free", CategorySoy},
		{"Type 2 Diabetes", CategoryDiabetic},
		{"watching my blood pressure", CategoryLowSodium},
		{"PCOS", CategoryPCOS},
		{"no cilantro please", CategoryCustom},
	}

	for _, tc := range cases {
		r := DietaryRestriction{Name: tc.name}
		if got := r.Category(); got != tc.want {
			t.Errorf("Category(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestRestrictionEnforceable(t *testing.T) {
	if (DietaryRestriction{Name: "no cilantro"}).Enforceable() {
		t.Error("Expected free-text restriction without trigger to be unenforceable")
	}
	if !(DietaryRestriction{Name: "Dairy-Free"}).Enforceable() {
		t.Error("Expected dairy restriction to be enforceable")
	}
}

func TestCookingTimeBudget(t *testing.T) {
	if budget, limited := CookingTimeQuick.BudgetMinutes(); !limited || budget != 30 {
		t.Errorf("Expected quick budget of 30, got %d (limited=%v)", budget, limited)
	}
	if budget, limited := CookingTimeModerate.BudgetMinutes(); !limited || budget != 60 {
		t.Errorf("Expected moderate budget of 60, got %d (limited=%v)", budget, limited)
	}
	if _, limited := CookingTimeExtended.BudgetMinutes(); limited {
		t.Error("Expected extended cooking time to be unlimited")
	}
	if _, limited := CookingTime("").BudgetMinutes(); limited {
		t.Error("Expected empty cooking time to be unlimited")
	}
}

func TestHouseholdRestrictionsDedup(t *testing.T) {
	h := Household{
		Members: []Member{
			{Name: "Ana", DietaryRestrictions: []DietaryRestriction{
				{Name: "Nut-Free", Type: "allergy", Severity: "severe"},
				{Name: "Vegetarian"},
			}},
			{Name: "Bruno", DietaryRestrictions: []DietaryRestriction{
				{Name: "nut-free"}, // same restriction, different case
				{Name: "Dairy-Free"},
			}},
		},
	}

	restrictions := h.Restrictions()
	if len(restrictions) != 3 {
		t.Fatalf("Expected 3 deduplicated restrictions, got %d", len(restrictions))
	}
	// First occurrence wins, keeping its metadata.
	if restrictions[0].Severity != "severe" {
		t.Errorf("Expected first occurrence to keep severity, got %q", restrictions[0].Severity)
	}
}
