package query

import (
	"testing"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestFindingsVocabulary(t *testing.T) {
	filters := Findings(FindingArgs{
		ProductName:  "Shop",
		Severity:     "High",
		Active:       boolPtr(true),
		IsMitigated:  boolPtr(false),
		Duplicate:    boolPtr(false),
		EngagementID: intPtr(42),
		Query:        "xss",
	})
	v := Encode(OrderFindings, Page{Limit: 20, Offset: 0}, filters)

	want := map[string]string{
		"product_name":     "Shop",
		"severity":         "High",
		"active":           "true",
		"is_mitigated":     "false",
		"duplicate":        "false",
		"test__engagement": "42",
		"search":           "xss",
		"o":                "id",
		"limit":            "20",
		"offset":           "0",
	}
	for key, val := range want {
		if got := v.Get(key); got != val {
			t.Fatalf("expected %s=%s, got %q (query %s)", key, val, got, v.Encode())
		}
	}
	if len(v) != len(want) {
		t.Fatalf("unexpected extra params: %s", v.Encode())
	}
}

func TestFindingsEmptyArgsEmitNoFilters(t *testing.T) {
	filters := Findings(FindingArgs{})
	if len(filters) != 0 {
		t.Fatalf("expected no filters, got %d", len(filters))
	}
	v := Encode(OrderFindings, Page{Limit: 20, Offset: 0}, filters)
	if got := v.Encode(); got != "limit=20&o=id&offset=0" {
		t.Fatalf("unexpected query: %s", got)
	}
}

func TestProductsVocabulary(t *testing.T) {
	filters := Products(ProductArgs{
		Name:               "Billing",
		ProdTypes:          []int{3, 4},
		Tags:               []string{"web", "prod"},
		TagsMode:           TagModeAll,
		ExternalAudience:   boolPtr(true),
		InternetAccessible: boolPtr(false),
	})
	v := Encode(OrderProducts, Page{Limit: 50, Offset: 0}, filters)

	if v.Get("name") != "Billing" {
		t.Fatalf("expected name param, got %s", v.Encode())
	}
	if got := v["prod_type"]; len(got) != 2 || got[0] != "3" || got[1] != "4" {
		t.Fatalf("expected prod_type=3&prod_type=4, got %v", got)
	}
	if got := v["tags"]; len(got) != 2 || got[0] != "web" || got[1] != "prod" {
		t.Fatalf("expected repeated tags, got %v", got)
	}
	if v.Get("external_audience") != "true" || v.Get("internet_accessible") != "false" {
		t.Fatalf("expected boolean params, got %s", v.Encode())
	}
}

func TestEngagementsVocabulary(t *testing.T) {
	filters := Engagements(EngagementArgs{
		ProductID:        intPtr(7),
		Status:           "In Progress",
		Name:             "Q3",
		TargetStartAfter: "2025-01-01",
		TargetEndBefore:  "2025-06-30",
	})
	v := Encode(OrderEngagements, Page{Limit: 20, Offset: 0}, filters)

	want := map[string]string{
		"product":           "7",
		"status":            "In Progress",
		"name":              "Q3",
		"target_start__gte": "2025-01-01",
		"target_end__lte":   "2025-06-30",
		"o":                 "-updated",
	}
	for key, val := range want {
		if got := v.Get(key); got != val {
			t.Fatalf("expected %s=%s, got %q", key, val, got)
		}
	}
}

func TestTestsVocabulary(t *testing.T) {
	filters := Tests(TestArgs{
		EngagementID: intPtr(9),
		TestType:     intPtr(5),
		Tags:         []string{"ci"},
		TagsMode:     TagModeAny,
	})
	v := Encode(OrderTests, Page{Limit: 20, Offset: 0}, filters)

	if v.Get("engagement") != "9" {
		t.Fatalf("expected engagement=9, got %s", v.Encode())
	}
	if v.Get("test_type") != "5" {
		t.Fatalf("expected test_type=5, got %s", v.Encode())
	}
	if v.Get("tag") != "ci" {
		t.Fatalf("expected tag=ci, got %s", v.Encode())
	}
	if v.Get("o") != "-id" {
		t.Fatalf("expected o=-id, got %s", v.Encode())
	}
}

func TestUsersVocabulary(t *testing.T) {
	filters := Users(UserArgs{
		Username:    "jdoe",
		FirstName:   "Jane",
		LastName:    "Doe",
		IsActive:    boolPtr(true),
		IsSuperuser: boolPtr(false),
	})
	v := Encode(OrderUsers, Page{Limit: 50, Offset: 0}, filters)

	want := map[string]string{
		"username":     "jdoe",
		"first_name":   "Jane",
		"last_name":    "Doe",
		"is_active":    "true",
		"is_superuser": "false",
	}
	for key, val := range want {
		if got := v.Get(key); got != val {
			t.Fatalf("expected %s=%s, got %q", key, val, got)
		}
	}
}

func TestGroupVocabulary(t *testing.T) {
	v := Encode(OrderGroups, Page{Limit: 50, Offset: 0}, Groups(GroupArgs{Name: "appsec"}))
	if v.Get("name") != "appsec" {
		t.Fatalf("expected name=appsec, got %s", v.Encode())
	}

	v = Encode(OrderGroupMembers, Page{Limit: 50, Offset: 0}, GroupMembers(GroupMemberArgs{
		GroupID: intPtr(2),
		UserID:  intPtr(11),
	}))
	if v.Get("group") != "2" || v.Get("user") != "11" {
		t.Fatalf("expected group=2 user=11, got %s", v.Encode())
	}
}
